//go:build gcp

package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/abdidvp/storediag/internal/domain"
)

// GCSStore keeps one object per store code in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func newGCSStore(ctx context.Context, bucket, prefix string) (Store, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) object(code string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + code + ".json")
}

func (s *GCSStore) Save(ctx context.Context, code string, res *domain.DiagnosticResult) error {
	if err := checkCode(code); err != nil {
		return err
	}
	data, err := Marshal(res)
	if err != nil {
		return err
	}
	w := s.object(code).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write %s: %w", code, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", code, err)
	}
	return nil
}

func (s *GCSStore) Load(ctx context.Context, code string) (*domain.DiagnosticResult, error) {
	if err := checkCode(code); err != nil {
		return nil, err
	}
	r, err := s.object(code).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gcs get %s: %w", code, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", code, err)
	}
	return Unmarshal(data)
}

func (s *GCSStore) Close() error { return s.client.Close() }
