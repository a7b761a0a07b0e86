package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/png", GetContentType("photo.PNG"))
	assert.Equal(t, "image/jpeg", GetContentType("avatar.jpg"))
	assert.Equal(t, "application/octet-stream", GetContentType("noextension"))
}

func TestLocalClient_PutThenURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	client, err := NewLocalClient(dir, "http://localhost:8080/")
	require.NoError(t, err)

	ctx := context.Background()
	ref := client.Ref("avatars/abc.png")
	require.NoError(t, client.Put(ctx, ref, []byte("png-bytes"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	url, err := client.DownloadURL(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/abc.png", url)
}

func TestR2Client_PublicURL(t *testing.T) {
	client, err := NewR2Client(context.Background(), R2Options{
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "media",
		PublicURL:       "https://cdn.edu-connect.test/",
	})
	require.NoError(t, err)

	ref := client.Ref("avatars/a.png")
	assert.Equal(t, Ref{Bucket: "media", Key: "avatars/a.png"}, ref)

	url, err := client.DownloadURL(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.edu-connect.test/media/avatars/a.png", url)
}

func TestR2Client_PresignedURL(t *testing.T) {
	client, err := NewR2Client(context.Background(), R2Options{
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "media",
		PresignTTL:      10 * time.Minute,
	})
	require.NoError(t, err)

	url, err := client.DownloadURL(context.Background(), client.Ref("avatars/a.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/media/avatars/a.png?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=600")
}

func TestR2Client_Put(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewR2Client(context.Background(), R2Options{
		Endpoint:        server.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "media",
	})
	require.NoError(t, err)

	require.NoError(t, client.Put(context.Background(), client.Ref("avatars/a.png"), []byte("data"), "image/png"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/media/avatars/a.png", path)
}

func TestMinioClient_URLs(t *testing.T) {
	public, err := NewMinioClient(MinioOptions{
		Endpoint:   "localhost:9000",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		Bucket:     "avatars",
		PublicBase: "http://localhost:9000/avatars/",
	})
	require.NoError(t, err)

	url, err := public.DownloadURL(context.Background(), public.Ref("u1/file.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/avatars/u1/file.jpg", url)

	private, err := NewMinioClient(MinioOptions{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "avatars",
	})
	require.NoError(t, err)

	url, err = private.DownloadURL(context.Background(), private.Ref("u1/file.jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/avatars/u1/file.jpg?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Version   string
		Statement []struct {
			Effect    string
			Principal string
			Action    string
			Resource  string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("avatars")), &policy))

	assert.Equal(t, "2012-10-17", policy.Version)
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, "*", policy.Statement[0].Principal)
	assert.Equal(t, "s3:GetObject", policy.Statement[0].Action)
	assert.Equal(t, "arn:aws:s3:::avatars/*", policy.Statement[0].Resource)
}
