package main

import "net/http"

type issueTokenPayload struct {
	Subject string `json:"subject" validate:"required,max=128"`
}

// issueTokenHandler mints a bearer token for subject. It sits behind basic
// auth, so only operators holding the basic credentials can call it.
func (app *application) issueTokenHandler(writer http.ResponseWriter, request *http.Request) {
	var payload issueTokenPayload
	if err := readJSON(writer, request, &payload); err != nil {
		app.badRequestResponse(writer, request, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(writer, request, err)
		return
	}

	claims := app.authenticator.Claims(payload.Subject, app.config.auth.token.exp)
	token, err := app.authenticator.GenerateToken(claims)
	if err != nil {
		app.internalServerError(writer, request, err)
		return
	}

	if err := writeJSON(writer, http.StatusCreated, "token issued", map[string]string{"token": token}); err != nil {
		app.internalServerError(writer, request, err)
	}
}
