package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dgallion1/assetree/internal/hierarchy"
)

// handleFormat assembles a level-bucketed document into a tree.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("payload exceeds max size (%d bytes)", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
		jsonError(w, "payload is not valid JSON", http.StatusBadRequest)
		return
	}

	roots, err := hierarchy.Format(data)
	if err != nil {
		kind := hierarchy.Classify(err)
		status := statusForKind(kind)
		if status >= http.StatusInternalServerError {
			s.log.Error("format failed", "kind", kind, "error", err)
		} else {
			s.log.Info("format rejected", "kind", kind, "error", err)
		}
		msg := err.Error()
		if kind == hierarchy.KindMissingInput {
			msg = "Please, provide JSON file in your request"
		}
		kindError(w, msg, kind, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roots)
}

// statusForKind maps a format failure to its HTTP status.
func statusForKind(kind hierarchy.Kind) int {
	switch kind {
	case hierarchy.KindOK:
		return http.StatusOK
	case hierarchy.KindMissingInput:
		return http.StatusBadRequest
	case hierarchy.KindShapeInvalid, hierarchy.KindEntityInvalid,
		hierarchy.KindDanglingReference, hierarchy.KindCyclicReference:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func kindError(w http.ResponseWriter, msg string, kind hierarchy.Kind, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "kind": string(kind)})
}
