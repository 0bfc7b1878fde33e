package main

import (
	"fmt"
	"net/http"

	"lyrics-fetch-go/config"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

var conf = config.Get()

func init() {
	if conf.Server.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if level, err := log.ParseLevel(conf.Server.LogLevel); err == nil {
		log.SetLevel(level)
	}
}

func main() {
	router := mux.NewRouter()
	setupRoutes(router)

	corsOrigins := conf.CORSOrigins()
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	handler := middleware.LoggingMiddleware(c.Handler(router))
	handler = middleware.APIKeyMiddleware(conf.Server.APIKey, config.APIKeyProtectedPaths)(handler)

	addr := fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port)
	log.Infof("%s listening on %s", logcolors.LogServer, addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
