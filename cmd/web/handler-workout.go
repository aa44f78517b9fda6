package main

import (
	"net/http"

	"github.com/liftline/liftline/internal/workout"
)

type startWorkoutRequest struct {
	TemplateID string `json:"templateId"`
}

func (app *application) workoutStartPOST(w http.ResponseWriter, r *http.Request) {
	var req startWorkoutRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	log, err := app.workoutService.StartWorkout(r.Context(), req.TemplateID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, log)
}

func (app *application) workoutResumePOST(w http.ResponseWriter, r *http.Request) {
	log, err := app.workoutService.ResumeWorkout(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, log)
}

func (app *application) workoutActiveGET(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.workoutService.ActiveWorkout(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, snapshot)
}

func (app *application) workoutSetUpdatePOST(w http.ResponseWriter, r *http.Request) {
	exerciseIndex, ok := app.parseIndexParam(w, r, "exerciseIndex")
	if !ok {
		return
	}
	setIndex, ok := app.parseIndexParam(w, r, "setIndex")
	if !ok {
		return
	}
	var update workout.SetUpdate
	if !app.decodeJSON(w, r, &update) {
		return
	}
	if err := app.workoutService.UpdateActiveSet(r.Context(), exerciseIndex, setIndex, update); err != nil {
		app.serviceError(w, r, err)
		return
	}
	snapshot, err := app.workoutService.ActiveWorkout(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, snapshot)
}

func (app *application) workoutSetTogglePOST(w http.ResponseWriter, r *http.Request) {
	exerciseIndex, ok := app.parseIndexParam(w, r, "exerciseIndex")
	if !ok {
		return
	}
	setIndex, ok := app.parseIndexParam(w, r, "setIndex")
	if !ok {
		return
	}
	if err := app.workoutService.ToggleActiveSet(r.Context(), exerciseIndex, setIndex); err != nil {
		app.serviceError(w, r, err)
		return
	}
	snapshot, err := app.workoutService.ActiveWorkout(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, snapshot)
}

func (app *application) workoutSnapshotPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.SnapshotActive(r.Context()); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"saved": true})
}

func (app *application) workoutFinishPOST(w http.ResponseWriter, r *http.Request) {
	log, err := app.workoutService.FinishWorkout(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, log)
}

func (app *application) workoutDiscardPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.DiscardWorkout(r.Context()); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"discarded": true})
}
