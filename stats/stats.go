package stats

import (
	"sync/atomic"
	"time"
)

// Stats holds engine and server counters with atomic fields so the
// playback tick path never takes a lock just to count.
type Stats struct {
	StartTime time.Time

	// Request counters
	TotalRequests     atomic.Int64
	ParseRequests     atomic.Int64
	TransposeRequests atomic.Int64
	ChordNoteRequests atomic.Int64
	PresetRequests    atomic.Int64
	PreviewRequests   atomic.Int64
	OtherRequests     atomic.Int64

	// Engine activity
	DocumentsParsed  atomic.Int64
	Transpositions   atomic.Int64
	PitchLookups     atomic.Int64
	UnknownQualities atomic.Int64
	PlaybackTicks    atomic.Int64
	LoopWraps        atomic.Int64
	PreviewTriggers  atomic.Int64

	// Rate limiting
	RateLimitExceeded atomic.Int64

	// Response status codes
	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64
}

// Global stats instance
var global = &Stats{
	StartTime: time.Now(),
}

// Get returns the global stats instance
func Get() *Stats {
	return global
}

func (s *Stats) RecordRequest(kind string) {
	s.TotalRequests.Add(1)
	switch kind {
	case "parse":
		s.ParseRequests.Add(1)
	case "transpose":
		s.TransposeRequests.Add(1)
	case "chordNotes":
		s.ChordNoteRequests.Add(1)
	case "presets":
		s.PresetRequests.Add(1)
	case "preview":
		s.PreviewRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

func (s *Stats) RecordParse()          { s.DocumentsParsed.Add(1) }
func (s *Stats) RecordTransposition()  { s.Transpositions.Add(1) }
func (s *Stats) RecordPitchLookup()    { s.PitchLookups.Add(1) }
func (s *Stats) RecordUnknownQuality() { s.UnknownQualities.Add(1) }
func (s *Stats) RecordTick()           { s.PlaybackTicks.Add(1) }
func (s *Stats) RecordLoopWrap()       { s.LoopWraps.Add(1) }
func (s *Stats) RecordPreviewTrigger() { s.PreviewTriggers.Add(1) }
func (s *Stats) RecordRateLimited()    { s.RateLimitExceeded.Add(1) }

// RecordStatus buckets a response status code.
func (s *Stats) RecordStatus(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// Snapshot is the JSON shape served by /stats.
type Snapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`

	Requests struct {
		Total      int64 `json:"total"`
		Parse      int64 `json:"parse"`
		Transpose  int64 `json:"transpose"`
		ChordNotes int64 `json:"chord_notes"`
		Presets    int64 `json:"presets"`
		Preview    int64 `json:"preview"`
		Other      int64 `json:"other"`
	} `json:"requests"`

	Engine struct {
		DocumentsParsed  int64 `json:"documents_parsed"`
		Transpositions   int64 `json:"transpositions"`
		PitchLookups     int64 `json:"pitch_lookups"`
		UnknownQualities int64 `json:"unknown_qualities"`
		PlaybackTicks    int64 `json:"playback_ticks"`
		LoopWraps        int64 `json:"loop_wraps"`
		PreviewTriggers  int64 `json:"preview_triggers"`
	} `json:"engine"`

	RateLimitExceeded int64 `json:"rate_limit_exceeded"`

	Responses struct {
		Status2xx int64 `json:"status_2xx"`
		Status4xx int64 `json:"status_4xx"`
		Status5xx int64 `json:"status_5xx"`
	} `json:"responses"`
}

// GetSnapshot copies the counters into a serializable snapshot.
func (s *Stats) GetSnapshot() Snapshot {
	var snap Snapshot
	snap.UptimeSeconds = time.Since(s.StartTime).Seconds()

	snap.Requests.Total = s.TotalRequests.Load()
	snap.Requests.Parse = s.ParseRequests.Load()
	snap.Requests.Transpose = s.TransposeRequests.Load()
	snap.Requests.ChordNotes = s.ChordNoteRequests.Load()
	snap.Requests.Presets = s.PresetRequests.Load()
	snap.Requests.Preview = s.PreviewRequests.Load()
	snap.Requests.Other = s.OtherRequests.Load()

	snap.Engine.DocumentsParsed = s.DocumentsParsed.Load()
	snap.Engine.Transpositions = s.Transpositions.Load()
	snap.Engine.PitchLookups = s.PitchLookups.Load()
	snap.Engine.UnknownQualities = s.UnknownQualities.Load()
	snap.Engine.PlaybackTicks = s.PlaybackTicks.Load()
	snap.Engine.LoopWraps = s.LoopWraps.Load()
	snap.Engine.PreviewTriggers = s.PreviewTriggers.Load()

	snap.RateLimitExceeded = s.RateLimitExceeded.Load()

	snap.Responses.Status2xx = s.Status2xx.Load()
	snap.Responses.Status4xx = s.Status4xx.Load()
	snap.Responses.Status5xx = s.Status5xx.Load()

	return snap
}
