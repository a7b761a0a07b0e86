package main

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
}

const maxJSONBytes = 1_048_576 // 1mb

func writeJSON(writer http.ResponseWriter, status int, message string, data any) error {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	return json.NewEncoder(writer).Encode(map[string]any{
		"status":  status,
		"success": status < http.StatusBadRequest,
		"message": message,
		"data":    data,
	})
}

func writeJSONError(writer http.ResponseWriter, status int, message string, data any) error {
	return writeJSON(writer, status, message, data)
}

func readJSON(writer http.ResponseWriter, request *http.Request, data any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxJSONBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(data)
}

// readFormData decodes the form values of request into data using the
// "form" struct tags and returns any uploaded files.
func readFormData(writer http.ResponseWriter, request *http.Request, data any, maxBytes int64) (map[string][]*multipart.FileHeader, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	files := make(map[string][]*multipart.FileHeader)

	if err := request.ParseMultipartForm(maxBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		if err := request.ParseForm(); err != nil {
			return nil, err
		}
	} else {
		files = request.MultipartForm.File
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           data,
		TagName:          "form",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(request.Form))
	for key, val := range request.Form {
		if len(val) == 1 {
			values[key] = val[0]
		} else {
			values[key] = val
		}
	}

	if err := decoder.Decode(values); err != nil {
		return nil, err
	}

	return files, nil
}

// validationErrors flattens validator errors into field → rule.
func validationErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
