package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	"google.golang.org/api/option"
)

const uploadTimeout = 2 * time.Minute

// DocumentStore keeps each document as a JSON object in a Google Cloud Storage bucket.
// An upload only replaces the object once it completes, so a failed save leaves the previous
// generation readable.
type DocumentStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewDocumentStore opens a storage client. Without options it uses Application Default
// Credentials.
func NewDocumentStore(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*DocumentStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS bucket cannot be empty")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &DocumentStore{client: client, bucket: bucket, prefix: prefix}, nil
}

var _ portsrepo.DocumentStore = (*DocumentStore)(nil)

// Close releases the storage client.
func (s *DocumentStore) Close() error {
	return s.client.Close()
}

// ObjectName maps a document name to its object path inside the bucket.
func ObjectName(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), name) + ".json"
}

// Load downloads the document object.
func (s *DocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	object := ObjectName(s.prefix, name)
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("document %s: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("open GCS object reader gs://%s/%s: %w", s.bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object gs://%s/%s: %w", s.bucket, object, err)
	}
	return data, nil
}

// Save uploads data as the new generation of the document object.
func (s *DocumentStore) Save(ctx context.Context, name string, data []byte) error {
	object := ObjectName(s.prefix, name)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object gs://%s/%s: %w", s.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload gs://%s/%s: %w", s.bucket, object, err)
	}
	return nil
}
