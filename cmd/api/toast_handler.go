package main

import (
	"fmt"
	"net/http"

	"godsendjoseph.dev/edu-connect/internal/toast"
)

type publishToastPayload struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Variant     string `json:"variant"`
}

func (app *application) publishToastHandler(writer http.ResponseWriter, request *http.Request) {
	var payload publishToastPayload
	if err := readJSON(writer, request, &payload); err != nil {
		app.badRequestResponse(writer, request, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(writer, request, err)
		return
	}

	variant := toast.Default
	if payload.Variant != "" {
		variant = toast.Variant(payload.Variant)
	}
	if !variant.Valid() {
		app.badRequestResponse(writer, request, fmt.Errorf("unknown toast variant %q", payload.Variant))
		return
	}

	t := toast.New(variant, payload.Title, payload.Description)
	app.toasts.Publish(t)

	if err := writeJSON(writer, http.StatusAccepted, "toast published", t); err != nil {
		app.internalServerError(writer, request, err)
	}
}
