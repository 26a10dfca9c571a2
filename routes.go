package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the engine API
func setupRoutes(router *mux.Router) {
	// Chart parsing and transposition
	router.HandleFunc("/parse", parseChart).Methods("POST")
	router.HandleFunc("/transpose", transposeChord).Methods("GET")
	router.HandleFunc("/transposeKey", transposeKey).Methods("GET")
	router.HandleFunc("/chordNotes", chordNotes).Methods("GET")
	router.HandleFunc("/keyTransition", keyTransition).Methods("GET")

	// Loop preset management. /presets/backup must register before the
	// {songId} routes so mux does not treat "backup" as a song id.
	router.HandleFunc("/presets/backup", backupPresets).Methods("POST")
	router.HandleFunc("/presets/{songId}", listPresets).Methods("GET")
	router.HandleFunc("/presets/{songId}", savePreset).Methods("POST")
	router.HandleFunc("/presets/{songId}", clearPresets).Methods("DELETE")
	router.HandleFunc("/presets/{songId}/{name}", deletePreset).Methods("DELETE")

	// Audible chord preview
	router.HandleFunc("/preview/start", previewStart).Methods("POST")
	router.HandleFunc("/preview/stop", previewStop).Methods("POST")

	// Health and stats endpoints
	router.HandleFunc("/health", getHealthStatus).Methods("GET")
	router.HandleFunc("/stats", getStats).Methods("GET")

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}
