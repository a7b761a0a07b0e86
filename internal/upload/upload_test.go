package upload

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"godsendjoseph.dev/edu-connect/internal/storage"
)

type fakeStore struct {
	mu       sync.Mutex
	calls    []string
	puts     []storage.Ref
	types    []string
	data     [][]byte
	putErr   error
	urlErr   error
	baseURL  string
	urlCalls int
}

func (f *fakeStore) Ref(path string) storage.Ref {
	return storage.Ref{Bucket: "media", Key: path}
}

func (f *fakeStore) Put(_ context.Context, ref storage.Ref, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "put")
	f.puts = append(f.puts, ref)
	f.types = append(f.types, contentType)
	f.data = append(f.data, data)
	return f.putErr
}

func (f *fakeStore) DownloadURL(_ context.Context, ref storage.Ref) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "url")
	f.urlCalls++
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return fmt.Sprintf("%s/%s", f.baseURL, ref.Key), nil
}

func newUploader(store storage.Client) (*Uploader, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return New(store, zap.New(core).Sugar()), logs
}

var v4Path = regexp.MustCompile(`^avatars/([0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12})\.png$`)

func TestUploadImage_Success(t *testing.T) {
	store := &fakeStore{baseURL: "https://cdn.edu-connect.test"}
	u, logs := newUploader(store)

	url, err := u.UploadImage(context.Background(), File{Name: "photo.png", Data: []byte("img")}, "avatars")
	require.NoError(t, err)

	assert.Equal(t, []string{"put", "url"}, store.calls)
	require.Len(t, store.puts, 1)

	key := store.puts[0].Key
	m := v4Path.FindStringSubmatch(key)
	require.NotNil(t, m, "unexpected key %q", key)
	id, err := uuid.Parse(m[1])
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	assert.Equal(t, "https://cdn.edu-connect.test/"+key, url)
	assert.Regexp(t, `^https?://`, url)
	assert.Equal(t, "image/png", store.types[0])
	assert.Equal(t, []byte("img"), store.data[0])
	assert.Equal(t, 0, logs.Len())
}

func TestUploadImage_KeepsCallerContentType(t *testing.T) {
	store := &fakeStore{baseURL: "https://cdn.edu-connect.test"}
	u, _ := newUploader(store)

	_, err := u.UploadImage(context.Background(), File{Name: "scan.bin", Data: []byte("x"), ContentType: "image/webp"}, "docs")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", store.types[0])
}

func TestUploadImage_NoExtensionKeepsMarker(t *testing.T) {
	store := &fakeStore{baseURL: "https://cdn.edu-connect.test"}
	u, _ := newUploader(store)

	_, err := u.UploadImage(context.Background(), File{Name: "noextension", Data: []byte("x")}, "folder")
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	assert.Regexp(t, `^folder/[0-9a-f-]{36}\.undefined$`, store.puts[0].Key)
	assert.Equal(t, "application/octet-stream", store.types[0])
}

func TestUploadImage_WriteFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	store := &fakeStore{putErr: cause}
	u, logs := newUploader(store)

	url, err := u.UploadImage(context.Background(), File{Name: "photo.png", Data: []byte("img")}, "avatars")

	assert.Empty(t, url)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.EqualError(t, err, "upload failed")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"put"}, store.calls)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, store.puts[0].Key, uploadErr.Path)

	entries := logs.FilterMessage("image upload failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "quota exceeded", entries[0].ContextMap()["error"])
	assert.Equal(t, "avatars", entries[0].ContextMap()["folder"])
}

func TestUploadImage_URLFailureLeavesObject(t *testing.T) {
	store := &fakeStore{urlErr: errors.New("permission denied")}
	u, logs := newUploader(store)

	_, err := u.UploadImage(context.Background(), File{Name: "photo.jpg", Data: []byte("img")}, "covers")

	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, []string{"put", "url"}, store.calls)
	assert.Equal(t, 1, logs.FilterMessage("image upload failed").Len())
}

func TestUploadImage_ConcurrentCallsGetDistinctKeys(t *testing.T) {
	store := &fakeStore{baseURL: "https://cdn.edu-connect.test"}
	u, _ := newUploader(store)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := u.UploadImage(context.Background(), File{Name: "photo.png", Data: []byte("img")}, "avatars")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	keys := make(map[string]struct{}, n)
	for _, ref := range store.puts {
		keys[ref.Key] = struct{}{}
	}
	assert.Len(t, keys, n)
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"photo.png":      "png",
		"archive.tar.gz": "gz",
		".bashrc":        "bashrc",
		"trailing.":      "",
		"noextension":    "undefined",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}

	assert.Equal(t, "avatars/abc.png", ObjectPath("avatars", "abc", "photo.png"))
	assert.Equal(t, "folder/abc.undefined", ObjectPath("folder", "abc", "noextension"))
}
