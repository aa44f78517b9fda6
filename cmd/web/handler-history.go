package main

import (
	"net/http"
	"strconv"
)

func (app *application) historyGET(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		limit = parsed
	}
	logs, err := app.workoutService.History(r.Context(), limit)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, logs)
}

// exerciseParam reads the required exercise query parameter. On failure it
// sends HTTP 400 automatically.
func (app *application) exerciseParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "missing exercise parameter"})
		return "", false
	}
	return exercise, true
}

func (app *application) personalRecordGET(w http.ResponseWriter, r *http.Request) {
	exercise, ok := app.exerciseParam(w, r)
	if !ok {
		return
	}
	record, err := app.workoutService.PersonalRecordFor(r.Context(), exercise)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, record)
}

func (app *application) volumeTrendGET(w http.ResponseWriter, r *http.Request) {
	exercise, ok := app.exerciseParam(w, r)
	if !ok {
		return
	}
	days := 30
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid days parameter"})
			return
		}
		days = parsed
	}
	points, err := app.workoutService.VolumeTrend(r.Context(), exercise, days)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, points)
}

func (app *application) lastPerformedGET(w http.ResponseWriter, r *http.Request) {
	exercise, ok := app.exerciseParam(w, r)
	if !ok {
		return
	}
	lastPerformed, err := app.workoutService.LastPerformed(r.Context(), exercise)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"lastPerformed": lastPerformed})
}
