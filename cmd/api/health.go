package main

import (
	"net/http"

	"github.com/samber/lo"

	"godsendjoseph.dev/edu-connect/internal/cron"
)

func (app *application) healthCheckHandler(writer http.ResponseWriter, request *http.Request) {
	cacheStatus := "disabled"
	if app.cache.Enabled() {
		cacheStatus = "ok"
		if err := app.cache.Ping(request.Context()); err != nil {
			cacheStatus = "unavailable"
		}
	}

	data := map[string]any{
		"env":      app.config.env,
		"version":  version,
		"cache":    cacheStatus,
		"surfaces": app.toasts.Surfaces(),
		"jobs": lo.Map(app.scheduler.GetJobs(), func(job cron.Job, _ int) string {
			return job.Name
		}),
	}

	if err := writeJSON(writer, http.StatusOK, "API is healthy running in "+app.config.env+" mode", data); err != nil {
		app.internalServerError(writer, request, err)
	}
}
