package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalClient keeps objects on disk. It backs development setups where the
// API serves the directory itself under /uploads.
type LocalClient struct {
	dir     string
	baseURL string
}

func NewLocalClient(dir, baseURL string) (*LocalClient, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalClient{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (l *LocalClient) Dir() string {
	return l.dir
}

func (l *LocalClient) Ref(path string) Ref {
	return Ref{Key: path}
}

func (l *LocalClient) Put(_ context.Context, ref Ref, data []byte, _ string) error {
	path := filepath.Join(l.dir, filepath.FromSlash(ref.Key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create local folder: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}

	return nil
}

func (l *LocalClient) DownloadURL(_ context.Context, ref Ref) (string, error) {
	return fmt.Sprintf("%s/uploads/%s", l.baseURL, strings.TrimPrefix(ref.Key, "/")), nil
}
