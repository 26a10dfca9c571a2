package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port                string `envconfig:"PORT" default:"8080"`
		RateLimitPerSecond  int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"10"`
		RateLimitBurstLimit int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"20"`
		CORSAllowedOrigins  string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

		// Loop preset persistence
		PresetDBPath     string `envconfig:"PRESET_DB_PATH" default:"data/presets.db"`
		PresetBackupPath string `envconfig:"PRESET_BACKUP_PATH" default:"data/backups"`

		// Chord preview defaults
		DefaultOctave        int     `envconfig:"DEFAULT_OCTAVE" default:"4"`
		PreviewTempoBPM      float64 `envconfig:"PREVIEW_TEMPO_BPM" default:"80"`
		PreviewBeatsPerChord float64 `envconfig:"PREVIEW_BEATS_PER_CHORD" default:"4"`
		PreviewVelocity      int     `envconfig:"PREVIEW_VELOCITY" default:"96"`
		MIDIPortName         string  `envconfig:"MIDI_PORT_NAME" default:""`
		MIDIChannel          int     `envconfig:"MIDI_CHANNEL" default:"0"`

		// Playback / display tuning
		TickIntervalMs   int     `envconfig:"TICK_INTERVAL_MS" default:"100"`
		ScrollOffsetPx   float64 `envconfig:"SCROLL_OFFSET_PX" default:"120"`
		ScrollDebounceMs int     `envconfig:"SCROLL_DEBOUNCE_MS" default:"150"`
	}

	FeatureFlags struct {
		PreviewLoop bool `envconfig:"FF_PREVIEW_LOOP" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
