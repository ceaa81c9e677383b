// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	enginerrors "credit-engine/internal/common/errors"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"
)

// maxBundleBytes caps request bodies; a year of dense history fits well
// under this.
const maxBundleBytes = 8 << 20

type errorResponse struct {
	Code    enginerrors.ErrorCode `json:"code"`
	Message string                `json:"message"`
	Details string                `json:"details,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := mux.Vars(r)["userID"]

	reject := func(code enginerrors.ErrorCode, message, details string) {
		metrics.AnalysesFailed.WithLabelValues(string(code)).Inc()
		s.writeError(w, http.StatusBadRequest, code, message, details)
		s.record(r.Context(), start, "error")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBytes))
	if err != nil {
		reject(enginerrors.ErrCodeInvalidBundle, "could not read request body", err.Error())
		return
	}

	violations, err := validateBundle(body)
	if err != nil {
		reject(enginerrors.ErrCodeSchemaValidation, "request body is not valid JSON", err.Error())
		return
	}
	if len(violations) > 0 {
		reject(enginerrors.ErrCodeSchemaValidation, "event bundle failed schema validation", strings.Join(violations, "; "))
		return
	}

	var bundle models.EventBundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		reject(enginerrors.ErrCodeInvalidBundle, "could not decode event bundle", err.Error())
		return
	}

	analysis := s.engine.AnalyzeUser(r.Context(), userID, bundle)
	s.writeJSON(w, http.StatusOK, analysis)
	s.record(r.Context(), start, "success")
}

func (s *Server) handleCachedScore(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	result, err := s.engine.CachedScore(r.Context(), userID)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, enginerrors.ErrCodeCacheUnavailable, "result cache is unavailable", err.Error())
		return
	}
	if result == nil {
		s.writeError(w, http.StatusNotFound, enginerrors.ErrCodeScoreNotFound, "no cached score for user", userID)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"mode":   s.engine.Mode(),
	}
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cache.Ping(ctx); err != nil {
			// Degraded, not down: scoring works without the cache.
			status["cache"] = "unavailable"
			s.writeJSON(w, http.StatusOK, status)
			return
		}
		status["cache"] = "ok"
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code enginerrors.ErrorCode, message, details string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}

func (s *Server) record(ctx context.Context, start time.Time, status string) {
	if s.obs == nil {
		return
	}
	s.obs.RecordAnalysis(ctx, status)
	s.obs.RecordAnalysisDuration(ctx, time.Since(start), status)
}
