package utils

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a {message} body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ErrorDetail writes a {message, error} body. Callers pass detail="" in
// production so internals never leak.
func ErrorDetail(w http.ResponseWriter, status int, message, detail string) {
	body := map[string]string{"message": message}
	if detail != "" {
		body["error"] = detail
	}
	JSON(w, status, body)
}
