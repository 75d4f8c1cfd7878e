package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Archive copies finished job artifacts into a GCS bucket. Archival is
// best-effort: the local artifacts remain authoritative and upload failures
// never fail a job.
type Archive struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewArchive(ctx context.Context, bucket, prefix string) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (a *Archive) Close() error {
	return a.client.Close()
}

// ArchiveJob uploads every artifact under the job's local paths to
// <prefix>/<jobID>/<basename> and returns the object names written.
func (a *Archive) ArchiveJob(ctx context.Context, jobID string, localPaths []string) ([]string, error) {
	var objects []string
	for _, localPath := range localPaths {
		object := filepath.ToSlash(filepath.Join(a.prefix, jobID, filepath.Base(localPath)))
		if err := a.uploadFile(ctx, localPath, object); err != nil {
			return objects, fmt.Errorf("failed to archive %s: %w", filepath.Base(localPath), err)
		}
		objects = append(objects, object)
		slog.Debug("Archived artifact", "object", object)
	}

	stored, err := a.listJob(ctx, jobID)
	if err != nil {
		slog.Warn("Could not verify archived objects", "error", err)
	} else if len(stored) < len(objects) {
		slog.Warn("Archive listing shows fewer objects than uploaded", "uploaded", len(objects), "listed", len(stored))
	}
	return objects, nil
}

// listJob returns the object names currently stored under the job's prefix.
func (a *Archive) listJob(ctx context.Context, jobID string) ([]string, error) {
	prefix := filepath.ToSlash(filepath.Join(a.prefix, jobID)) + "/"
	it := a.client.Bucket(a.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (a *Archive) uploadFile(ctx context.Context, localPath, object string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload artifact: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}
	return nil
}
