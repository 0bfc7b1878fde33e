package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API.
func setupRoutes(router *mux.Router) {
	router.HandleFunc("/health", healthHandler).Methods("GET")

	router.HandleFunc("/search", searchHandler).Methods("POST")
	router.HandleFunc("/fetch", fetchHandler).Methods("POST")
	router.HandleFunc("/fetch_separate", fetchSeparateHandler).Methods("POST")
	router.HandleFunc("/fetch_by_id", fetchByIDHandler).Methods("POST")
	router.HandleFunc("/fetch_by_id_separate", fetchByIDSeparateHandler).Methods("POST")

	router.HandleFunc("/stats", statsHandler).Methods("GET")
	router.HandleFunc("/cache/dump", cacheDumpHandler).Methods("GET")
	router.HandleFunc("/cache/clear", cacheClearHandler).Methods("POST")

	router.NotFoundHandler = notFoundHandler()
}
