package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"godsendjoseph.dev/edu-connect/internal/toast"
	"godsendjoseph.dev/edu-connect/internal/upload"
)

type uploadImagePayload struct {
	Folder string `form:"folder" validate:"required,max=128,excludes=.."`
}

func (app *application) uploadImageHandler(writer http.ResponseWriter, request *http.Request) {
	var payload uploadImagePayload
	files, err := readFormData(writer, request, &payload, app.config.upload.maxBytes)
	if err != nil {
		app.badRequestResponse(writer, request, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(writer, request, err)
		return
	}

	headers := files["file"]
	if len(headers) == 0 {
		app.badRequestResponse(writer, request, errors.New("missing file"))
		return
	}

	file, err := readUploadedFile(headers[0])
	if err != nil {
		app.badRequestResponse(writer, request, err)
		return
	}

	if !strings.HasPrefix(file.ContentType, "image/") {
		app.badRequestResponse(writer, request, fmt.Errorf("file is not an image: %s", file.ContentType))
		return
	}

	url, err := app.uploader.UploadImage(request.Context(), file, payload.Folder)
	if err != nil {
		app.internalServerError(writer, request, err)
		return
	}

	app.toasts.Publish(toast.New(toast.Success, "Upload complete", headers[0].Filename))

	if err := writeJSON(writer, http.StatusCreated, "file uploaded", map[string]string{"url": url}); err != nil {
		app.internalServerError(writer, request, err)
	}
}

// readUploadedFile reads the part into memory and sniffs its content type.
func readUploadedFile(header *multipart.FileHeader) (upload.File, error) {
	f, err := header.Open()
	if err != nil {
		return upload.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return upload.File{}, err
	}

	mtype := mimetype.Detect(data)

	return upload.File{
		Name:        header.Filename,
		Data:        data,
		ContentType: mtype.String(),
	}, nil
}
