package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hrintel/internal/errors"
)

const healthCheckTimeout = 5 * time.Second

// healthHandler reports store, catalog and AI model status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "hrintel",
		"version": s.Version,
	}
	healthy := true

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			healthy = false
			response["store"] = map[string]any{"available": false, "error": err.Error()}
		} else {
			response["store"] = map[string]any{"available": true}
		}
	}

	if s.holder != nil {
		snap := s.holder.Snapshot()
		response["catalog"] = map[string]any{
			"source":   snap.Source,
			"version":  snap.Version,
			"loadedAt": snap.LoadedAt,
		}
	}

	if s.ai != nil {
		info := s.ai.GetModelInfo(ctx)
		response["ai_model"] = info
		response["circuit_breakers"] = s.ai.Stats()
		if !info.Available {
			healthy = false
		}
	} else {
		response["ai_model"] = map[string]any{"enabled": false}
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "hrintel",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys":               s.apiKeyCount(),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.ai != nil {
		response["circuit_breakers"] = s.ai.Stats()
	}

	s.writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// decodeAndValidate parses the body into v and runs struct validation. It
// writes the 400 response itself and reports whether the handler may go on.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := parseJSONRequest(r, v); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeErrorResponse(w, "Validation failed", validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' check", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// queryLimit reads the optional positive "limit" query parameter.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	return limit, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.LogError(err, "Failed to encode response")
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: error, Message: message})
}

// writeAppError maps an application error to a status code.
func (s *Server) writeAppError(w http.ResponseWriter, err error, operation string) {
	status := http.StatusInternalServerError
	title := "Internal error"
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		status, title = http.StatusBadRequest, "Invalid request"
	case errors.ErrorTypeNotFound:
		status, title = http.StatusNotFound, "Not found"
	default:
		s.Logger.LogError(err, "Request failed", "operation", operation)
	}

	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	writeErrorResponse(w, title, message, status)
}
