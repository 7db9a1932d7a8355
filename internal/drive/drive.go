package drive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Uploader stores receipt images in a Google Drive folder and hands back a
// shareable link for the ledger row. With no folder configured it is a
// no-op that returns an empty link.
type Uploader struct {
	service  *drive.Service
	folderID string
}

// NewUploader creates an Uploader. An empty folderID disables uploads
// without an error so the rest of the pipeline works unconfigured.
func NewUploader(credentialsFile, folderID string) (*Uploader, error) {
	if folderID == "" {
		slog.Info("Drive folder not configured, receipt uploads disabled")
		return &Uploader{}, nil
	}

	ctx := context.Background()
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}

	return &Uploader{service: service, folderID: folderID}, nil
}

// Upload stores the file in the configured folder and returns its web
// view link.
func (u *Uploader) Upload(filename, mimeType string, data []byte) (string, error) {
	if u.service == nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	file, err := u.service.Files.
		Create(&drive.File{Name: filename, Parents: []string{u.folderID}}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading receipt to drive: %w", err)
	}

	slog.Info("Receipt uploaded to drive", "filename", filename, "link", file.WebViewLink)
	return file.WebViewLink, nil
}
