package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu         sync.Mutex
	haveBucket bool
	requests   []string
	objects    map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/tiles-bucket":
		if !f.haveBucket {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && r.URL.Path == "/tiles-bucket":
		f.haveBucket = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestUploader(t *testing.T, fake *fakeS3) *Uploader {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
	t.Setenv("AWS_PROFILE", "")

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := NewUploader(context.Background(), Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "tiles-bucket",
		Prefix:    "/job1/",
	})
	require.NoError(t, err)
	u.newID = func() string { return "run" }
	return u
}

func writeTiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("jpeg:"+n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestUpload_CreatesBucketAndPutsTiles(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	u := newTestUploader(t, fake)

	files := writeTiles(t, "img_1_1.jpg", "img_1_2.jpg")
	keys, err := u.Upload(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, []string{"job1/run/img_1_1.jpg", "job1/run/img_1_2.jpg"}, keys)
	assert.Equal(t, []byte("jpeg:img_1_1.jpg"), fake.objects["/tiles-bucket/job1/run/img_1_1.jpg"])
	assert.Equal(t, []byte("jpeg:img_1_2.jpg"), fake.objects["/tiles-bucket/job1/run/img_1_2.jpg"])
	assert.Contains(t, fake.requests, "PUT /tiles-bucket")
}

func TestUpload_ExistingBucketNotRecreated(t *testing.T) {
	fake := &fakeS3{haveBucket: true, objects: map[string][]byte{}}
	u := newTestUploader(t, fake)

	_, err := u.Upload(context.Background(), writeTiles(t, "a_1_1.jpg"))
	require.NoError(t, err)
	assert.NotContains(t, fake.requests, "PUT /tiles-bucket")
}

func TestUpload_MissingFileStops(t *testing.T) {
	fake := &fakeS3{haveBucket: true, objects: map[string][]byte{}}
	u := newTestUploader(t, fake)

	files := writeTiles(t, "a_1_1.jpg")
	files = append(files, filepath.Join(t.TempDir(), "gone.jpg"), files[0])

	keys, err := u.Upload(context.Background(), files)
	assert.Error(t, err)
	assert.Equal(t, []string{"job1/run/a_1_1.jpg"}, keys)
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(context.Background(), Config{Endpoint: "http://localhost:9000"})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "tiles/abc/img_2_3.jpg", ObjectKey("tiles", "abc", "/out/img_2_3.jpg"))
	assert.Equal(t, "abc/img_1_1.jpg", ObjectKey("", "abc", "img_1_1.jpg"))
}
