package main

import (
	"net/http"

	"github.com/liftline/liftline/internal/catalog"
)

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := catalog.Criteria{
		BodyPart:  query.Get("bodyPart"),
		Equipment: query.Get("equipment"),
		Target:    query.Get("target"),
		Search:    query.Get("search"),
	}
	exercises, err := app.workoutService.Exercises(r.Context(), criteria)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) cacheStatusGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.catalogClient.CacheStatus())
}
