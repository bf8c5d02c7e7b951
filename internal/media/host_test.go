package media

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 透明 PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestHostedMediaClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/demo/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "WebApp", r.FormValue("upload_preset"))
		assert.Equal(t, "demo", r.FormValue("cloud_name"))

		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		assert.Equal(t, "pixel.png", fh.Filename)
		assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))
		body, _ := io.ReadAll(f)
		assert.Equal(t, pngBytes, body)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"secure_url":    "https://res.example.com/demo/image/upload/v1/pixel.png",
			"public_id":     "pixel",
			"resource_type": "image",
		})
	}))
	defer srv.Close()

	c := NewHostedMediaClient(srv.URL+"/", "demo", "WebApp", 5*time.Second)
	url, err := c.Upload(context.Background(), FileFromBytes("pixel.png", "", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/demo/image/upload/v1/pixel.png", url)
}

func TestHostedMediaClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "Upload preset not found"}})
	}))
	defer srv.Close()

	c := NewHostedMediaClient(srv.URL, "demo", "Missing", 5*time.Second)
	_, err := c.Upload(context.Background(), FileFromBytes("pixel.png", "image/png", pngBytes))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestAdapterWithHostedClient(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"secure_url": "https://res.example.com/x"})
	}))
	defer srv.Close()

	a := NewAdapter(NewHostedMediaClient(srv.URL, "demo", "WebApp", 5*time.Second), WithRateLimit(0, 0))
	res, err := a.Upload(context.Background(), []File{FileFromBytes("a.png", "image/png", pngBytes)}, 0, 5)
	require.NoError(t, err)
	require.Len(t, res.Attachments, 1)
	assert.Equal(t, "https://res.example.com/x", res.Attachments[0].URL)
	assert.Equal(t, 1, calls)
}

func TestFileFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))

	f, err := FileFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "noext", f.Name)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(len(pngBytes)), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, pngBytes, got)

	// 扩展名不可信，以内容为准
	renamed := filepath.Join(dir, "photo.txt")
	require.NoError(t, os.WriteFile(renamed, pngBytes, 0o600))
	f, err = FileFromPath(renamed)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)

	_, err = FileFromPath(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
