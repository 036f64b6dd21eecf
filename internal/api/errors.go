package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure emits the {"status":false,"message":...} envelope. Domain
// failures (duplicate entry, invalid identity) ship it with HTTP 200;
// transport failures use 4xx/5xx.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failureResponse{Status: false, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeFailure(w, http.StatusBadRequest, msg)
}

func invalidAPIKey(w http.ResponseWriter) {
	writeFailure(w, http.StatusBadRequest, "invalid api key")
}

func databaseError(w http.ResponseWriter) {
	writeFailure(w, http.StatusInternalServerError, "database error")
}

func internalServerError(w http.ResponseWriter) {
	writeFailure(w, http.StatusInternalServerError, "internal server error")
}

func mapDecodeError(err error) string {
	if err == nil {
		return "invalid json"
	}
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return "invalid json"
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "invalid json"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "invalid json field type"
	}
	return "invalid request body"
}
