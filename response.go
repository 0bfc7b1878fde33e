package main

import (
	"encoding/json"
	"net/http"
)

// APIResponse centralizes header setting and JSON encoding for handlers.
type APIResponse struct {
	w        http.ResponseWriter
	provider string
}

// Respond creates a response helper bound to w.
func Respond(w http.ResponseWriter, r *http.Request) *APIResponse {
	return &APIResponse{w: w}
}

// SetProvider sets the X-Provider header value.
func (a *APIResponse) SetProvider(provider string) *APIResponse {
	a.provider = provider
	return a
}

func (a *APIResponse) writeHeaders() {
	a.w.Header().Set("Content-Type", "application/json")
	if a.provider != "" {
		a.w.Header().Set("X-Provider", a.provider)
	}
}

// JSON writes headers and encodes data as JSON (200 OK).
func (a *APIResponse) JSON(data interface{}) error {
	a.writeHeaders()
	return json.NewEncoder(a.w).Encode(data)
}

// Error writes headers, sets statusCode, and encodes an error body.
func (a *APIResponse) Error(statusCode int, message string) error {
	a.writeHeaders()
	a.w.WriteHeader(statusCode)
	return json.NewEncoder(a.w).Encode(errorResponse{Error: message})
}
