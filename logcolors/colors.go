package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"

	// Bright variants for more color variety
	BrightGreen   = "\033[92m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"

	Red       = "\033[31m"
	BrightRed = "\033[91m"
)

// Engine log prefixes
const (
	LogParser    = Green + "[Parser]" + Reset
	LogChord     = BrightGreen + "[Chord]" + Reset
	LogTranspose = BrightCyan + "[Transpose]" + Reset
	LogTimeline  = Cyan + "[Timeline]" + Reset
	LogPlayback  = BrightBlue + "[Playback]" + Reset
	LogResolver  = BrightMagenta + "[Resolver]" + Reset
	LogSequencer = Purple + "[Sequencer]" + Reset
	LogMIDI      = BrightRed + "[MIDI]" + Reset
)

// Preset store log prefixes
const (
	LogPresets       = Blue + "[Presets]" + Reset
	LogPresetsInit   = Blue + "[Presets:Init]" + Reset
	LogPresetsBackup = Blue + "[Presets:Backup]" + Reset
)

// Server log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogServer    = Blue + "[Server]" + Reset
	LogPreview   = Purple + "[Preview]" + Reset
)
