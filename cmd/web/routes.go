package main

import "net/http"

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.timeout(next)))
		}
		api = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(shared(next)))
		}
	)

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/profile", api(http.HandlerFunc(app.profileGET)))
	mux.Handle("POST /api/profile", api(http.HandlerFunc(app.profilePOST)))
	mux.Handle("POST /api/profile/clear", api(http.HandlerFunc(app.clearDataPOST)))

	mux.Handle("GET /api/exercises", api(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/cache-status", api(http.HandlerFunc(app.cacheStatusGET)))

	mux.Handle("GET /api/plan", api(http.HandlerFunc(app.planGET)))
	mux.Handle("POST /api/plan/regenerate", api(http.HandlerFunc(app.planRegeneratePOST)))

	mux.Handle("POST /api/workouts/start", api(http.HandlerFunc(app.workoutStartPOST)))
	mux.Handle("POST /api/workouts/resume", api(http.HandlerFunc(app.workoutResumePOST)))
	mux.Handle("GET /api/workouts/active", api(http.HandlerFunc(app.workoutActiveGET)))
	mux.Handle("POST /api/workouts/active/exercises/{exerciseIndex}/sets/{setIndex}",
		api(http.HandlerFunc(app.workoutSetUpdatePOST)))
	mux.Handle("POST /api/workouts/active/exercises/{exerciseIndex}/sets/{setIndex}/toggle",
		api(http.HandlerFunc(app.workoutSetTogglePOST)))
	mux.Handle("POST /api/workouts/active/snapshot", api(http.HandlerFunc(app.workoutSnapshotPOST)))
	mux.Handle("POST /api/workouts/finish", api(http.HandlerFunc(app.workoutFinishPOST)))
	mux.Handle("POST /api/workouts/discard", api(http.HandlerFunc(app.workoutDiscardPOST)))

	mux.Handle("GET /api/history", api(http.HandlerFunc(app.historyGET)))
	mux.Handle("GET /api/analytics/personal-record", api(http.HandlerFunc(app.personalRecordGET)))
	mux.Handle("GET /api/analytics/volume-trend", api(http.HandlerFunc(app.volumeTrendGET)))
	mux.Handle("GET /api/analytics/last-performed", api(http.HandlerFunc(app.lastPerformedGET)))

	return mux
}
