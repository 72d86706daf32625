// Package media uploads local files to the media storage service and
// returns their public URLs.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

type Uploader struct {
	client    *http.Client
	fs        afero.Fs
	uploadURL string
	apiKey    string
	attempts  uint
}

type Option func(*Uploader)

func WithFs(fs afero.Fs) Option {
	return func(u *Uploader) { u.fs = fs }
}

func WithClient(client *http.Client) Option {
	return func(u *Uploader) { u.client = client }
}

func WithAttempts(attempts uint) Option {
	return func(u *Uploader) { u.attempts = attempts }
}

func NewUploader(uploadURL, apiKey string, opts ...Option) ports.MediaStore {
	u := &Uploader{
		client:    &http.Client{Timeout: 30 * time.Second},
		fs:        afero.NewOsFs(),
		uploadURL: uploadURL,
		apiKey:    apiKey,
		attempts:  3,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Store uploads the file and removes the local copy regardless of the
// outcome.
func (u *Uploader) Store(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := u.fs.Remove(localPath); err != nil {
			slog.Warn("failed to remove local media file", "path", localPath, "error", err)
		}
	}()

	data, err := afero.ReadFile(u.fs, localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !isAllowed(mtype) {
		return "", fmt.Errorf("unsupported media type %q", mtype.String())
	}

	url, err := retry.DoWithData(
		func() (string, error) {
			return u.upload(ctx, filepath.Base(localPath), mtype.String(), data)
		},
		retry.Context(ctx),
		retry.Attempts(u.attempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	return url, nil
}

func (u *Uploader) upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("media service returned status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode media service response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("media service returned no url")
	}
	return result.URL, nil
}

func isAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}
