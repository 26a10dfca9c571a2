// Package resolver combines the timeline index with the playback clock
// to decide which chart element is active, which is coming up, and when
// the display should scroll. Scroll requests are keyed on the resolved
// index, not raw time, so a 100ms tick cadence never spams the display
// with scroll side effects.
package resolver

import (
	"sync"
	"time"

	"chordsync-go/config"
	"chordsync-go/logcolors"
	"chordsync-go/timeline"

	"github.com/bep/debounce"
	log "github.com/sirupsen/logrus"
)

var conf = config.Get()

// ScrollRequest asks the display to smooth-scroll so the active
// element sits Target pixels from the top of the viewport.
type ScrollRequest struct {
	Position timeline.Position `json:"position"`
	Target   float64           `json:"target"`
}

// Update is the outcome of resolving one playback tick.
type Update struct {
	Current    timeline.Position `json:"current"`
	HasCurrent bool              `json:"hasCurrent"`
	Next       timeline.Position `json:"next"`
	HasNext    bool              `json:"hasNext"`
	// Changed reports whether the active index moved since the last
	// resolve; side effects should key off this, not off time.
	Changed bool `json:"changed"`
}

// Options configures a Resolver.
type Options struct {
	// ScrollOffset is subtracted from the active element's top when
	// computing the scroll target.
	ScrollOffset float64
	// DebounceInterval coalesces bursts of scroll requests (seek
	// scrubbing). Zero or negative emits synchronously.
	DebounceInterval time.Duration
	// OnScroll receives scroll requests while auto-scroll is enabled.
	OnScroll func(ScrollRequest)
}

// Resolver memoizes the active position between ticks.
type Resolver struct {
	mu         sync.Mutex
	tl         *timeline.Timeline
	offset     float64
	autoScroll bool
	onScroll   func(ScrollRequest)
	debounced  func(func())

	current    timeline.Position
	hasCurrent bool
}

// DefaultOptions returns resolver options tuned from configuration:
// scroll offset and debounce interval, with no scroll sink attached.
func DefaultOptions() Options {
	return Options{
		ScrollOffset:     conf.Configuration.ScrollOffsetPx,
		DebounceInterval: time.Duration(conf.Configuration.ScrollDebounceMs) * time.Millisecond,
	}
}

// New builds a resolver over a timeline.
func New(tl *timeline.Timeline, opts Options) *Resolver {
	r := &Resolver{
		tl:         tl,
		offset:     opts.ScrollOffset,
		autoScroll: true,
		onScroll:   opts.OnScroll,
	}
	if opts.DebounceInterval > 0 {
		r.debounced = debounce.New(opts.DebounceInterval)
	} else {
		r.debounced = func(fn func()) { fn() }
	}
	return r
}

// SetAutoScroll enables or disables scroll side effects. Highlight
// resolution keeps running either way.
func (r *Resolver) SetAutoScroll(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoScroll = enabled
}

// Resolve computes the active and upcoming positions for time t.
// Changed is only set when the resolved active index differs from the
// memoized one.
func (r *Resolver) Resolve(t float64) Update {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.tl.FindCurrentEvent(t)

	var u Update
	u.Current = pos
	u.HasCurrent = ok
	if ok {
		if next, nok := r.tl.FindNextEvent(pos); nok {
			u.Next = next
			u.HasNext = true
		}
	}

	u.Changed = ok != r.hasCurrent || (ok && pos != r.current)
	if u.Changed {
		log.Debugf("%s Active position now %+v (t=%.2fs)", logcolors.LogResolver, pos, t)
		r.current = pos
		r.hasCurrent = ok
	}
	return u
}

// NotifyElementTop reports where the container element for pos sits.
// The display calls this once layout is known; if pos is the active
// position and auto-scroll is on, a debounced scroll request goes out.
func (r *Resolver) NotifyElementTop(pos timeline.Position, elementTop float64) {
	r.mu.Lock()
	if !r.autoScroll || !r.hasCurrent || pos != r.current || r.onScroll == nil {
		r.mu.Unlock()
		return
	}
	req := ScrollRequest{Position: pos, Target: elementTop - r.offset}
	onScroll := r.onScroll
	debounced := r.debounced
	r.mu.Unlock()

	debounced(func() { onScroll(req) })
}
