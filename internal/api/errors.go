// Package api implements the HTTP surface: GET /health and POST /solve,
// their JSON (de)serialization seam, and the error-kind envelope.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Kind is the machine-readable error classification carried on every
// 4xx/5xx response.
type Kind string

const (
	// KindInvalidInstance marks a schema or semantic violation in the
	// request body.
	KindInvalidInstance Kind = "InvalidInstance"
	// KindUnsolvable marks a persistent circulation infeasibility that
	// survived the driver's lower-bound relaxation retry.
	KindUnsolvable Kind = "Unsolvable"
	// KindInternal marks an unexpected precondition violation.
	KindInternal Kind = "Internal"
)

// errorBody is the `error` object of the response envelope.
type errorBody struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// errorEnvelope is the fixed `{"error": {...}}` shape every failing
// response uses.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError encodes kind/message as the error envelope with status.
func writeError(w http.ResponseWriter, logger *zap.Logger, status int, kind Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Kind: kind, Message: message}}); err != nil {
		logger.Error("failed to encode error envelope", zap.Error(err))
	}
}
