package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	apphttp "github.com/kosarica/catalog-service/internal/http"
)

// fileOrHTTPFetcher reads local paths from disk and everything else over HTTP
type fileOrHTTPFetcher struct {
	client *apphttp.Client
}

func newFetcher(client *apphttp.Client) fileOrHTTPFetcher {
	return fileOrHTTPFetcher{client: client}
}

func (f fileOrHTTPFetcher) GetBytes(ctx context.Context, location string) ([]byte, error) {
	if isRemote(location) {
		return f.client.GetBytes(ctx, location)
	}
	data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
