package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors
type ErrorType int

const (
	ErrorTypeBadRequest ErrorType = iota
	ErrorTypeInternalServer
	ErrorTypeBadGateway
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleCheckError maps a pipeline error onto an HTTP response:
// cancellation and deadline errors become 504, everything else 502 with the
// underlying cause in the body.
func HandleCheckError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		w.WriteHeader(http.StatusGatewayTimeout)
	} else {
		w.WriteHeader(http.StatusBadGateway)
	}

	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

// HandleHTTPError writes a typed error with an optional custom message
func HandleHTTPError(w http.ResponseWriter, errorType ErrorType, message string) {
	w.Header().Set("Content-Type", "application/json")

	switch errorType {
	case ErrorTypeBadRequest:
		w.WriteHeader(http.StatusBadRequest)
		if message == "" {
			message = "Bad request"
		}
	case ErrorTypeBadGateway:
		w.WriteHeader(http.StatusBadGateway)
		if message == "" {
			message = "Upstream provider error"
		}
	default:
		w.WriteHeader(http.StatusInternalServerError)
		if message == "" {
			message = "Internal server error"
		}
	}

	fmt.Fprint(w, `{"error": "`+message+`"}`)
}

// HandleInternalError handles internal server errors
func HandleInternalError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// HandleCacheResponse writes cached data to the HTTP response
func HandleCacheResponse(w http.ResponseWriter, data string, contentType string) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, data)
}
