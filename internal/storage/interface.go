// Package storage keeps copies of fetched feed documents.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no file exists at a key
var ErrNotFound = errors.New("file not found")

// Metadata is stored next to each archived file
type Metadata struct {
	ContentType  string            `json:"contentType,omitempty"`
	SourceURL    string            `json:"sourceUrl,omitempty"`
	SourceFeedID string            `json:"sourceFeedId,omitempty"`
	RunID        string            `json:"runId,omitempty"`
	DownloadedAt time.Time         `json:"downloadedAt,omitempty"`
	Size         int64             `json:"size,omitempty"`
	Checksum     string            `json:"checksum,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// FileInfo contains information about a stored file
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Storage defines the file storage operations
type Storage interface {
	// Put stores content at the given key with optional metadata
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves file information without content
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a file and its metadata
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
