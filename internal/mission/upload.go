package mission

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/specialistvlad/meshplan/internal/ctxlog"
)

// Uploader PUTs plan files to pre-signed object-store URLs.
type Uploader struct {
	Client *http.Client
}

// NewUploader returns an uploader using client, or http.DefaultClient when nil.
func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{Client: client}
}

// Upload sends the file at path to uploadURL and returns the response status.
func (u *Uploader) Upload(ctx context.Context, path, uploadURL string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source file '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading mission file", "source", path, "size", stat.Size(), "contentType", contentType)

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded mission file", "status", resp.Status)
	return resp.Status, nil
}
