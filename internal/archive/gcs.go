package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure GCSArchiver implements model.Archiver.
var _ model.Archiver = (*GCSArchiver)(nil)

// GCSArchiver uploads placed letters to a Cloud Storage bucket under
// {prefix}/{YYYY-MM-DD}/{file}.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

// NewGCSArchiver creates a storage client. Credentials come from Application
// Default Credentials unless opts say otherwise.
func NewGCSArchiver(ctx context.Context, bucket, prefix string, logger *slog.Logger, opts ...option.ClientOption) (*GCSArchiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs archiver: bucket cannot be empty")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSArchiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
	}, nil
}

// ObjectName returns the object path a letter is archived under.
func ObjectName(prefix string, at time.Time, fileName string) string {
	return path.Join(prefix, at.Format("2006-01-02"), fileName)
}

// Archive streams the placed PDF to the bucket.
func (a *GCSArchiver) Archive(ctx context.Context, placed model.PlacedFile) error {
	f, err := os.Open(placed.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", placed.Path, err)
	}
	defer f.Close()

	name := ObjectName(a.prefix, a.now(), filepath.Base(placed.Path))
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/pdf"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w", a.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s: %w", a.bucket, name, err)
	}

	a.logger.Info("letter archived", "object", "gs://"+a.bucket+"/"+name)
	return nil
}

// Close releases the storage client.
func (a *GCSArchiver) Close() error {
	return a.client.Close()
}
