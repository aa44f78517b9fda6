package main

import (
	"net/http"

	"github.com/liftline/liftline/internal/workout"
)

func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	profile, err := app.workoutService.Profile(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, profile)
}

type onboardingResponse struct {
	Templates []workout.Template `json:"templates"`
}

// profilePOST saves the profile and generates a fresh plan from it.
func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	var profile workout.Profile
	if !app.decodeJSON(w, r, &profile) {
		return
	}
	templates, err := app.workoutService.CompleteOnboarding(r.Context(), profile)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, onboardingResponse{Templates: templates})
}

func (app *application) clearDataPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.ClearAllData(r.Context()); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"cleared": true})
}
