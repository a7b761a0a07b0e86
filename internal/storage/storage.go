package storage

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
)

// Ref addresses one object inside a store.
type Ref struct {
	Bucket string
	Key    string
}

func (r Ref) String() string {
	if r.Bucket == "" {
		return r.Key
	}
	return r.Bucket + "/" + r.Key
}

// Client is the object store contract used by the upload path: acquire a
// handle, write bytes to it, then ask for a URL clients can read it from.
type Client interface {
	Ref(path string) Ref
	Put(ctx context.Context, ref Ref, data []byte, contentType string) error
	DownloadURL(ctx context.Context, ref Ref) (string, error)
}

func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
