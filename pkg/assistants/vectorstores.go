package assistants

import (
	"context"
	"net/url"
)

// VectorStore holds processed files for the file_search tool.
type VectorStore struct {
	ID           string        `json:"id"`
	Object       string        `json:"object"`
	CreatedAt    int64         `json:"created_at"`
	Name         string        `json:"name"`
	Status       string        `json:"status"` // "expired", "in_progress", or "completed"
	UsageBytes   int64         `json:"usage_bytes,omitempty"`
	FileCounts   FileCounts    `json:"file_counts"`
	ExpiresAfter *ExpiresAfter `json:"expires_after,omitempty"`
	ExpiresAt    *int64        `json:"expires_at,omitempty"`
}

// FileCounts summarizes the processing state of a store's files.
type FileCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// ExpiresAfter sets a store's expiration policy.
type ExpiresAfter struct {
	Anchor string `json:"anchor"` // "last_active_at"
	Days   int    `json:"days"`
}

// VectorStoreRequest creates a vector store.
type VectorStoreRequest struct {
	Name         string        `json:"name,omitempty"`
	FileIDs      []string      `json:"file_ids,omitempty"`
	ExpiresAfter *ExpiresAfter `json:"expires_after,omitempty"`
}

// VectorStoreFile is one file attached to a vector store.
type VectorStoreFile struct {
	ID            string     `json:"id"`
	Object        string     `json:"object"`
	CreatedAt     int64      `json:"created_at"`
	VectorStoreID string     `json:"vector_store_id"`
	Status        string     `json:"status"`
	LastError     *LastError `json:"last_error,omitempty"`
}

// CreateVectorStore creates a vector store, optionally seeded with files.
func (s *Service) CreateVectorStore(ctx context.Context, req *VectorStoreRequest) (*VectorStore, error) {
	var out VectorStore
	if err := s.client.Post(ctx, "/vector_stores", req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveVectorStore fetches a vector store by ID.
func (s *Service) RetrieveVectorStore(ctx context.Context, id string) (*VectorStore, error) {
	var out VectorStore
	if err := s.client.Get(ctx, "/vector_stores/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVectorStore removes a vector store.
func (s *Service) DeleteVectorStore(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := s.client.Delete(ctx, "/vector_stores/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVectorStoreFile attaches an uploaded file to a vector store.
func (s *Service) CreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	var out VectorStoreFile
	path := "/vector_stores/" + url.PathEscape(storeID) + "/files"
	body := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}
	if err := s.client.Post(ctx, path, &body, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}
