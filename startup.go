package main

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"chordsync-go/logcolors"
	"chordsync-go/middleware"
	"chordsync-go/playback"
	"chordsync-go/preset"
	"chordsync-go/sequencer"
	"chordsync-go/stats"
)

var (
	presetStore *preset.Store

	previewSynth *sequencer.MIDISynth
	preview      *sequencer.Sequencer
)

func initPresetStore() error {
	store, err := preset.NewStore(conf.Configuration.PresetDBPath, conf.Configuration.PresetBackupPath)
	if err != nil {
		return err
	}
	presetStore = store
	return nil
}

func closePresetStore() {
	if presetStore != nil {
		if err := presetStore.Close(); err != nil {
			log.Errorf("%s Failed to close preset store: %v", logcolors.LogPresets, err)
		}
	}
}

// initPreview wires the chord preview sequencer to a MIDI out port. A
// missing port or driver is tolerated; preview is then silent.
func initPreview() {
	previewSynth = sequencer.NewMIDISynth(conf.Configuration.MIDIPortName, uint8(conf.Configuration.MIDIChannel))
	preview = sequencer.New(previewSynth, playback.NewTickerScheduler(), sequencer.Config{
		TempoBPM:      conf.Configuration.PreviewTempoBPM,
		BeatsPerChord: conf.Configuration.PreviewBeatsPerChord,
		Octave:        conf.Configuration.DefaultOctave,
		Velocity:      conf.Configuration.PreviewVelocity,
		Loop:          conf.FeatureFlags.PreviewLoop,
	})
}

func closePreview() {
	if preview != nil {
		preview.Close()
	}
	if previewSynth != nil {
		previewSynth.Close()
	}
}

func corsOrigins() []string {
	raw := strings.Split(conf.Configuration.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(raw))
	for _, o := range raw {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func limitMiddleware(next http.Handler, limiter *middleware.IPRateLimiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.GetLimiter(r.RemoteAddr).Allow() {
			stats.Get().RecordRateLimited()
			log.Warnf("%s Rate limit exceeded for %s", logcolors.LogRateLimit, r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
