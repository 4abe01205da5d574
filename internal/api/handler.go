package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/dataset"
)

// Handler serves dataset normalization over HTTP.
type Handler struct {
	defaultEnv dataset.EnvironmentTag
}

// NewHandler creates a new Handler. defaultEnv applies to requests that
// carry no environment.
func NewHandler(defaultEnv dataset.EnvironmentTag) *Handler {
	return &Handler{defaultEnv: defaultEnv}
}

// RegisterRoutes attaches all routes to the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /v1/normalize", h.handleNormalize)
	mux.HandleFunc("POST /v1/canonical", h.handleCanonical)
}

type normalizeRequest struct {
	Location         string `json:"location"`
	PlatformInstance string `json:"platform_instance"`
	Environment      string `json:"environment"`
}

type canonicalRequest struct {
	Name             string `json:"name"`
	PlatformInstance string `json:"platform_instance"`
	Environment      string `json:"environment"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth returns 204 No Content for liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	env, err := h.environment(req.Environment)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := dataset.Normalize(req.Location, req.PlatformInstance, env)
	var malformed *dataset.MalformedLocationError
	if errors.As(err, &malformed) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "normalize failed", "location", req.Location, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, id)
}

func (h *Handler) handleCanonical(w http.ResponseWriter, r *http.Request) {
	var req canonicalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	env, err := h.environment(req.Environment)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dataset.FromCanonical(req.Name, req.PlatformInstance, env))
}

func (h *Handler) environment(raw string) (dataset.EnvironmentTag, error) {
	if raw == "" {
		return h.defaultEnv, nil
	}
	return dataset.ParseEnvironmentTag(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
