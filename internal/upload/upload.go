// Package upload stores user supplied images in the object store under a
// freshly generated name and hands back the URL they can be read from.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"godsendjoseph.dev/edu-connect/internal/storage"
)

// ErrUploadFailed is the only error kind UploadImage returns.
var ErrUploadFailed = errors.New("upload failed")

// missingExtension is appended when the file name has no dot. Names like
// "noextension" therefore end up as "<folder>/<uuid>.undefined".
const missingExtension = "undefined"

// Error is returned by UploadImage. It prints as the generic
// ErrUploadFailed message and keeps the store error reachable through
// errors.Unwrap and errors.As.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return ErrUploadFailed.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUploadFailed
}

type File struct {
	Name        string
	Data        []byte
	ContentType string
}

type Uploader struct {
	store  storage.Client
	logger *zap.SugaredLogger
}

func New(store storage.Client, logger *zap.SugaredLogger) *Uploader {
	return &Uploader{store: store, logger: logger}
}

// Extension returns the text after the last dot of name, or the
// missing-extension marker when name has no dot.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return missingExtension
	}
	return name[idx+1:]
}

// ObjectPath composes "<folder>/<id>.<extension of name>".
func ObjectPath(folder, id, name string) string {
	return fmt.Sprintf("%s/%s.%s", folder, id, Extension(name))
}

// UploadImage writes file under folder with a random v4 UUID as its base
// name, then returns the store's download URL for it. The write and the URL
// lookup run once each, in that order. An object that was written stays in
// the store even when the URL lookup fails.
func (u *Uploader) UploadImage(ctx context.Context, file File, folder string) (string, error) {
	path := ObjectPath(folder, uuid.NewString(), file.Name)

	contentType := file.ContentType
	if contentType == "" {
		contentType = storage.GetContentType(file.Name)
	}

	ref := u.store.Ref(path)

	if err := u.store.Put(ctx, ref, file.Data, contentType); err != nil {
		return "", u.fail(path, folder, err)
	}

	url, err := u.store.DownloadURL(ctx, ref)
	if err != nil {
		return "", u.fail(path, folder, err)
	}

	return url, nil
}

func (u *Uploader) fail(path, folder string, err error) error {
	u.logger.Errorw("image upload failed", "folder", folder, "path", path, "error", err)
	return &Error{Path: path, Err: err}
}
