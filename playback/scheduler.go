package playback

import (
	"sync"
	"time"

	"chordsync-go/config"
)

// DefaultTickInterval is the configured cadence for driving
// State.HandleTick from the host clock.
func DefaultTickInterval() time.Duration {
	return time.Duration(config.Get().Configuration.TickIntervalMs) * time.Millisecond
}

// Scheduler abstracts "fire fn every interval" so the playback tick
// loop and the preview sequencer clock can run on wall time in
// production and on a manual clock in tests. Start replaces any
// schedule already running; Stop is idempotent.
type Scheduler interface {
	Start(interval time.Duration, fn func())
	Stop()
}

// TickerScheduler drives its callback from a time.Ticker goroutine.
type TickerScheduler struct {
	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

func (s *TickerScheduler) Start(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.ticker = time.NewTicker(interval)
	s.done = make(chan struct{})

	go func(ticker *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}(s.ticker, s.done)
}

func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *TickerScheduler) stopLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
	s.done = nil
}

// ManualScheduler fires only when Tick is called. It stands in for
// TickerScheduler wherever tests need a simulated clock.
type ManualScheduler struct {
	mu       sync.Mutex
	fn       func()
	Interval time.Duration
}

func (m *ManualScheduler) Start(interval time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Interval = interval
	m.fn = fn
}

func (m *ManualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = nil
}

// Tick fires the scheduled callback once, if a schedule is active.
func (m *ManualScheduler) Tick() {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Running reports whether a schedule is active.
func (m *ManualScheduler) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}
