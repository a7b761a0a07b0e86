package main

import (
	"fmt"
	"net/http"

	"godsendjoseph.dev/edu-connect/internal/toast"
)

// internalServerError answers with the generic message and raises a
// destructive toast on every mounted surface.
func (app *application) internalServerError(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Errorw("internal server error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	app.toasts.Publish(toast.New(
		toast.Destructive,
		"Something went wrong",
		fmt.Sprintf("%s %s: %s", request.Method, request.URL.Path, err.Error()),
	))
	_ = writeJSONError(writer, http.StatusInternalServerError, "the server encountered a problem and could not process your request", nil)
}

func (app *application) badRequestResponse(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Warnw("bad request error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	_ = writeJSONError(writer, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) validationErrorResponse(writer http.ResponseWriter, request *http.Request, err error) {
	errorsMap := validationErrors(err)
	app.logger.Warnw("validation error", "method", request.Method, "path", request.URL.Path, "errors", errorsMap)
	_ = writeJSONError(writer, http.StatusUnprocessableEntity, "validation failed", errorsMap)
}

func (app *application) methodNotAllowedResponse(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Warnw("method not allowed error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	_ = writeJSONError(writer, http.StatusMethodNotAllowed, "method not allowed", nil)
}

func (app *application) notFoundResponse(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Warnw("not found error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	_ = writeJSONError(writer, http.StatusNotFound, "not found", nil)
}

func (app *application) unauthorizedErrorResponse(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	_ = writeJSONError(writer, http.StatusUnauthorized, "unauthorized", nil)
}

func (app *application) unauthorizedBasicErrorResponse(writer http.ResponseWriter, request *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", request.Method, "path", request.URL.Path, "error", err.Error())
	writer.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	_ = writeJSONError(writer, http.StatusUnauthorized, "unauthorized", nil)
}

func (app *application) rateLimitExceededResponse(writer http.ResponseWriter, request *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit error", "method", request.Method, "path", request.URL.Path, "retry_after", retryAfter)
	writer.Header().Set("Retry-After", retryAfter)
	_ = writeJSONError(writer, http.StatusTooManyRequests, "rate limit exceeded", nil)
}
