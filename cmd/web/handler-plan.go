package main

import (
	"net/http"
)

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	templates, err := app.workoutService.Templates(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, templates)
}

func (app *application) planRegeneratePOST(w http.ResponseWriter, r *http.Request) {
	templates, err := app.workoutService.RegeneratePlan(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, templates)
}
