// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Detail is the error body written by WriteDetail.
type Detail struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code.
// Content-Type defaults to application/json unless the caller already set one.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	setDefaultContentType(w, "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteText writes a plain text response with the given status code.
func WriteText(w http.ResponseWriter, status int, text string) {
	setDefaultContentType(w, "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if text != "" {
		_, _ = w.Write([]byte(text))
	}
}

// WriteDetail writes a {"detail": message} JSON error response.
func WriteDetail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Detail{Detail: message})
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteDetail(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found text response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteText(w, http.StatusNotFound, message)
}

// WriteMethodNotAllowed writes a 405 response naming the rejected method.
func WriteMethodNotAllowed(w http.ResponseWriter, method string) {
	WriteDetail(w, http.StatusMethodNotAllowed, "Method \""+method+"\" not allowed.")
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteDetail(w, http.StatusInternalServerError, message)
}

func setDefaultContentType(w http.ResponseWriter, ct string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", ct)
	}
}
