// Package files implements the file storage API used for fine-tuning,
// batch, and assistants inputs.
package files

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/client"
)

// File describes one stored file.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// Deleted confirms a file deletion.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Service exposes the file storage operations.
type Service struct {
	client *client.Client
}

// New creates a files service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Upload stores content under the given filename for the given purpose
// ("fine-tune", "batch", "assistants", ...).
func (s *Service) Upload(ctx context.Context, filename, purpose string, content io.Reader) (*File, error) {
	var out File
	err := s.client.PostMultipart(ctx, "/files", func(w *multipart.Writer) error {
		if err := w.WriteField("purpose", purpose); err != nil {
			return err
		}
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(fw, content)
		return err
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPath uploads a file from the local filesystem, using its base
// name as the stored filename.
func (s *Service) UploadPath(ctx context.Context, path, purpose string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening upload file: %w", err)
	}
	defer f.Close()
	return s.Upload(ctx, filepath.Base(path), purpose, f)
}

// List returns all stored files.
func (s *Service) List(ctx context.Context) ([]File, error) {
	var out api.List[File]
	if err := s.client.Get(ctx, "/files", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Retrieve fetches a file's metadata.
func (s *Service) Retrieve(ctx context.Context, id string) (*File, error) {
	var out File
	if err := s.client.Get(ctx, "/files/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Content downloads a file's raw content.
func (s *Service) Content(ctx context.Context, id string) ([]byte, error) {
	return s.client.GetRaw(ctx, "/files/"+url.PathEscape(id)+"/content")
}

// Delete removes a stored file.
func (s *Service) Delete(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := s.client.Delete(ctx, "/files/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
