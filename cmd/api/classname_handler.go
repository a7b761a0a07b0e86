package main

import (
	"net/http"

	"godsendjoseph.dev/edu-connect/internal/classname"
)

// mergeClassNamesHandler merges every ?c= value, later values winning.
func (app *application) mergeClassNamesHandler(writer http.ResponseWriter, request *http.Request) {
	classes := request.URL.Query()["c"]

	data := map[string]string{"class": classname.Merge(classes)}
	if err := writeJSON(writer, http.StatusOK, "classes merged", data); err != nil {
		app.internalServerError(writer, request, err)
	}
}
