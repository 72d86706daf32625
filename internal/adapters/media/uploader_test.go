package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func writeTempPNG(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, pngHeader, 0o644))
}

func TestStoreUploadsAndCleansUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/abc.png"})
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	writeTempPNG(t, fs, "/tmp/avatar.png")

	uploader := NewUploader(server.URL, "test-key", WithFs(fs), WithClient(server.Client()))

	url, err := uploader.Store(context.Background(), "/tmp/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc.png", url)

	// The local file is gone after a successful upload.
	exists, err := afero.Exists(fs, "/tmp/avatar.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/retry.png"})
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	writeTempPNG(t, fs, "/tmp/avatar.png")

	uploader := NewUploader(server.URL, "", WithFs(fs), WithClient(server.Client()), WithAttempts(3))

	url, err := uploader.Store(context.Background(), "/tmp/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/retry.png", url)
	assert.Equal(t, int32(3), calls.Load())
}

func TestStoreFailureStillRemovesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	writeTempPNG(t, fs, "/tmp/avatar.png")

	uploader := NewUploader(server.URL, "", WithFs(fs), WithClient(server.Client()), WithAttempts(2))

	_, err := uploader.Store(context.Background(), "/tmp/avatar.png")
	assert.Error(t, err)

	exists, err := afero.Exists(fs, "/tmp/avatar.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreRejectsNonImageFiles(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/payload.sh", []byte("#!/bin/sh\nrm -rf /\n"), 0o644))

	uploader := NewUploader(server.URL, "", WithFs(fs), WithClient(server.Client()))

	_, err := uploader.Store(context.Background(), "/tmp/payload.sh")
	assert.ErrorContains(t, err, "unsupported media type")
	assert.Equal(t, int32(0), calls.Load(), "no request should reach the media service")
}

func TestStoreMissingFile(t *testing.T) {
	uploader := NewUploader("http://unused.invalid", "", WithFs(afero.NewMemMapFs()))

	_, err := uploader.Store(context.Background(), "/tmp/nope.png")
	assert.Error(t, err)
}
