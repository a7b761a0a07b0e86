package main

import (
	"net/http"

	"godsendjoseph.dev/edu-connect/internal/theme"
)

type setThemePayload struct {
	Theme string `json:"theme" validate:"required,oneof=dark light system"`
}

func (app *application) getThemeHandler(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	subject, _ := subjectFromContext(ctx)
	cookie, _ := theme.FromContext(ctx)

	resolved, err := app.theme.Resolve(ctx, subject, cookie)
	if err != nil {
		app.logger.Warnw("theme lookup failed", "subject", subject, "error", err)
	}

	cfg := app.theme.Config()
	data := map[string]string{
		"theme":         resolved,
		"default_theme": cfg.DefaultTheme,
		"storage_key":   cfg.StorageKey,
	}

	if err := writeJSON(writer, http.StatusOK, "theme resolved", data); err != nil {
		app.internalServerError(writer, request, err)
	}
}

func (app *application) setThemeHandler(writer http.ResponseWriter, request *http.Request) {
	var payload setThemePayload
	if err := readJSON(writer, request, &payload); err != nil {
		app.badRequestResponse(writer, request, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(writer, request, err)
		return
	}

	subject, _ := subjectFromContext(request.Context())
	if err := app.theme.Set(request.Context(), subject, payload.Theme); err != nil {
		app.internalServerError(writer, request, err)
		return
	}

	http.SetCookie(writer, app.theme.Cookie(payload.Theme))

	if err := writeJSON(writer, http.StatusOK, "theme updated", map[string]string{"theme": payload.Theme}); err != nil {
		app.internalServerError(writer, request, err)
	}
}
