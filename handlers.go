package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"chordsync-go/chord"
	"chordsync-go/keys"
	"chordsync-go/logcolors"
	"chordsync-go/notation"
	"chordsync-go/preset"
	"chordsync-go/stats"
	"chordsync-go/transpose"
)

func helpHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")
	Respond(w).JSON(map[string]interface{}{
		"help": "Chord chart engine. POST /parse with bracket-notation text to get a structured chart. " +
			"GET /chordNotes?chord=Am7 for MIDI pitches, /transpose?chord=G/B&steps=2 and /transposeKey?key=Dm&steps=2 to shift, " +
			"/keyTransition?from=C&to=G for pivot suggestions. Loop presets live under /presets/{songId}; " +
			"POST /preview/start plays a chord list through the configured MIDI port.",
	})
}

// parseChart parses bracket-notation chart text into a structured
// document, optionally transposing it and attaching pitch sets for
// each distinct chord.
func parseChart(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("parse")

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w).Error("Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		Respond(w).Error("No chart text provided", http.StatusUnprocessableEntity)
		return
	}

	doc := notation.Parse(req.Text)
	stats.Get().RecordParse()

	delta := 0
	switch {
	case req.Steps != nil:
		delta = *req.Steps
	case req.FromKey != "" && req.ToKey != "":
		delta = transpose.Delta(req.FromKey, req.ToKey)
	}
	if delta != 0 {
		doc = transpose.Document(doc, delta)
		stats.Get().RecordTransposition()
	}

	response := map[string]interface{}{"document": doc}

	if req.IncludePitches {
		octave := conf.Configuration.DefaultOctave
		if req.Octave != nil {
			octave = *req.Octave
		}
		pitches := make(map[string]chord.PitchSet, len(doc.Chords))
		for _, c := range doc.Chords {
			set := chord.ToMIDINotes(c, octave)
			stats.Get().RecordPitchLookup()
			if set.LowConfidence {
				stats.Get().RecordUnknownQuality()
			}
			pitches[c] = set
		}
		response["pitches"] = pitches
	}

	Respond(w).JSON(response)
}

func transposeChord(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("transpose")

	symbol := r.URL.Query().Get("chord")
	if symbol == "" {
		Respond(w).Error("No chord provided", http.StatusUnprocessableEntity)
		return
	}

	delta, ok := transposeDelta(r)
	if !ok {
		Respond(w).Error("Provide steps or a from/to key pair", http.StatusUnprocessableEntity)
		return
	}

	out := transpose.Chord(symbol, delta)
	stats.Get().RecordTransposition()
	Respond(w).JSON(map[string]interface{}{
		"chord":      out,
		"steps":      delta,
		"transposed": out != symbol,
	})
}

func transposeKey(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("transpose")

	key := r.URL.Query().Get("key")
	if key == "" {
		Respond(w).Error("No key provided", http.StatusUnprocessableEntity)
		return
	}

	delta, ok := transposeDelta(r)
	if !ok {
		Respond(w).Error("Provide steps or a from/to key pair", http.StatusUnprocessableEntity)
		return
	}

	out := transpose.Key(key, delta)
	stats.Get().RecordTransposition()
	Respond(w).JSON(map[string]interface{}{
		"key":   out,
		"steps": delta,
	})
}

// transposeDelta reads the shift from ?steps= or a ?from=&to= key pair.
func transposeDelta(r *http.Request) (int, bool) {
	if raw := r.URL.Query().Get("steps"); raw != "" {
		steps, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return steps, true
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" && to != "" {
		return transpose.Delta(from, to), true
	}
	return 0, false
}

func chordNotes(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("chordNotes")

	symbol := r.URL.Query().Get("chord")
	if symbol == "" {
		Respond(w).Error("No chord provided", http.StatusUnprocessableEntity)
		return
	}

	octave := conf.Configuration.DefaultOctave
	if raw := r.URL.Query().Get("octave"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			Respond(w).Error("Invalid octave", http.StatusUnprocessableEntity)
			return
		}
		octave = parsed
	}

	set := chord.ToMIDINotes(symbol, octave)
	stats.Get().RecordPitchLookup()
	if set.LowConfidence {
		stats.Get().RecordUnknownQuality()
		log.Infof("%s Low-confidence pitch mapping for %q", logcolors.LogChord, symbol)
	}

	Respond(w).JSON(map[string]interface{}{
		"chord":         symbol,
		"octave":        octave,
		"notes":         set.Notes,
		"names":         set.Names,
		"lowConfidence": set.LowConfidence,
	})
}

func keyTransition(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		Respond(w).Error("Provide from and to keys", http.StatusUnprocessableEntity)
		return
	}

	Respond(w).JSON(keys.Suggest(from, to))
}

func listPresets(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("presets")

	songID := mux.Vars(r)["songId"]
	regions := presetStore.List(songID)
	Respond(w).JSON(map[string]interface{}{
		"songId":  songID,
		"presets": regions,
	})
}

func savePreset(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("presets")

	songID := mux.Vars(r)["songId"]

	var region preset.Region
	if err := json.NewDecoder(r.Body).Decode(&region); err != nil {
		Respond(w).Error("Invalid JSON body", http.StatusBadRequest)
		return
	}
	if region.Name == "" {
		Respond(w).Error("Preset name is required", http.StatusUnprocessableEntity)
		return
	}

	if err := presetStore.Save(songID, region); err != nil {
		log.Errorf("%s Failed to save preset: %v", logcolors.LogPresets, err)
		Respond(w).Error("Failed to save preset", http.StatusInternalServerError)
		return
	}

	Respond(w).Status(http.StatusCreated).JSON(map[string]interface{}{
		"songId":  songID,
		"presets": presetStore.List(songID),
	})
}

func deletePreset(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("presets")

	vars := mux.Vars(r)
	songID := vars["songId"]
	name := vars["name"]

	if err := presetStore.Delete(songID, name); err != nil {
		if err == preset.ErrNotFound {
			Respond(w).Error("Preset not found", http.StatusNotFound)
			return
		}
		log.Errorf("%s Failed to delete preset: %v", logcolors.LogPresets, err)
		Respond(w).Error("Failed to delete preset", http.StatusInternalServerError)
		return
	}

	Respond(w).JSON(map[string]interface{}{
		"songId":  songID,
		"deleted": name,
	})
}

func clearPresets(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("presets")

	songID := mux.Vars(r)["songId"]
	if err := presetStore.Clear(songID); err != nil {
		log.Errorf("%s Failed to clear presets: %v", logcolors.LogPresets, err)
		Respond(w).Error("Failed to clear presets", http.StatusInternalServerError)
		return
	}

	Respond(w).JSON(map[string]interface{}{
		"songId":  songID,
		"cleared": true,
	})
}

func backupPresets(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("presets")

	path, err := presetStore.Backup()
	if err != nil {
		log.Errorf("%s Backup failed: %v", logcolors.LogPresetsBackup, err)
		Respond(w).Error("Backup failed", http.StatusInternalServerError)
		return
	}

	log.Infof("%s Backup written to %s", logcolors.LogPresetsBackup, path)
	Respond(w).JSON(map[string]interface{}{
		"backup": path,
	})
}

func previewStart(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("preview")

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w).Error("Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Chords) == 0 {
		Respond(w).Error("No chords provided", http.StatusUnprocessableEntity)
		return
	}

	tempo := conf.Configuration.PreviewTempoBPM
	if req.TempoBPM > 0 {
		tempo = req.TempoBPM
	}
	beats := conf.Configuration.PreviewBeatsPerChord
	if req.BeatsPerChord > 0 {
		beats = req.BeatsPerChord
	}

	octave := conf.Configuration.DefaultOctave
	if req.Octave != nil {
		octave = *req.Octave
	}
	loop := conf.FeatureFlags.PreviewLoop
	if req.Loop != nil {
		loop = *req.Loop && conf.FeatureFlags.PreviewLoop
	}

	if err := preview.SetTempo(tempo, beats); err != nil {
		Respond(w).Error("Preview is unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := preview.SetVoicing(octave, loop); err != nil {
		Respond(w).Error("Preview is unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := preview.SetChords(req.Chords); err != nil {
		Respond(w).Error("Preview is unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := preview.Start(); err != nil {
		Respond(w).Error("Preview is unavailable", http.StatusServiceUnavailable)
		return
	}

	log.Infof("%s Started preview of %d chords at %.0f BPM", logcolors.LogPreview, len(req.Chords), tempo)
	Respond(w).JSON(map[string]interface{}{
		"playing":       true,
		"chords":        req.Chords,
		"tempoBpm":      tempo,
		"beatsPerChord": beats,
	})
}

func previewStop(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("preview")

	preview.Stop()
	Respond(w).JSON(map[string]interface{}{
		"playing": false,
	})
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")

	Respond(w).JSON(map[string]interface{}{
		"status":  "ok",
		"preview": preview != nil && preview.Running(),
	})
}

func getStats(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")
	Respond(w).JSON(stats.Get().GetSnapshot())
}
