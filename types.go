package main

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Text string `json:"text"`

	// Optional transposition, either by explicit semitone delta or by
	// from/to key pair. Steps wins when both are present.
	Steps   *int   `json:"steps,omitempty"`
	FromKey string `json:"fromKey,omitempty"`
	ToKey   string `json:"toKey,omitempty"`

	// IncludePitches adds a chord -> pitch-set map for audible preview
	// or display.
	IncludePitches bool `json:"includePitches,omitempty"`
	Octave         *int `json:"octave,omitempty"`
}

// PreviewRequest is the body of POST /preview/start.
type PreviewRequest struct {
	Chords        []string `json:"chords"`
	TempoBPM      float64  `json:"tempoBpm,omitempty"`
	BeatsPerChord float64  `json:"beatsPerChord,omitempty"`
	Octave        *int     `json:"octave,omitempty"`
	Loop          *bool    `json:"loop,omitempty"`
}
