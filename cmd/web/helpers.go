package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/liftline/liftline/internal/workout"
)

// maxRequestBody bounds JSON request bodies at one megabyte.
const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", slog.Any("error", err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// serviceError maps domain errors onto HTTP status codes.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, workout.ErrNoActiveWorkout):
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "no active workout"})
	case errors.Is(err, workout.ErrPrecondition):
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, workout.ErrNoTemplates):
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "no templates could be generated"})
	default:
		app.serverError(w, r, err)
	}
}

// parseIndexParam parses a non-negative integer path parameter. On failure it
// sends HTTP 404 automatically.
func (app *application) parseIndexParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	indexStr := r.PathValue(name)
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return index, true
}
