package main

import (
	"net/http"
	"os"

	"golang.org/x/time/rate"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"chordsync-go/config"
	"chordsync-go/logcolors"
	"chordsync-go/middleware"
)

var conf = config.Get()

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func main() {
	if err := initPresetStore(); err != nil {
		log.Fatalf("%s Failed to open preset store: %v", logcolors.LogPresetsInit, err)
	}
	defer closePresetStore()

	initPreview()
	defer closePreview()

	router := mux.NewRouter()
	setupRoutes(router)

	port := conf.Configuration.Port
	if port == "" {
		port = "8080"
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowCredentials: true,
	})

	limiter := middleware.NewIPRateLimiter(rate.Limit(conf.Configuration.RateLimitPerSecond), conf.Configuration.RateLimitBurstLimit)

	loggedRouter := middleware.LoggingMiddleware(router)
	corsHandler := c.Handler(loggedRouter)
	handler := limitMiddleware(corsHandler, limiter)

	log.Infof("%s Listening on port %s", logcolors.LogServer, port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
