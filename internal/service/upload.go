package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UploadSink stores photo evidence and returns a URL the chat log can carry.
type UploadSink interface {
	Upload(ctx context.Context, data []byte, path string) (string, error)
}

// DiskSink writes uploads under a local directory served as static files.
type DiskSink struct {
	dir     string
	baseURL string // e.g. "/uploads"
}

func NewDiskSink(dir, baseURL string) (*DiskSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskSink{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskSink) Upload(ctx context.Context, data []byte, path string) (string, error) {
	// no nested paths, no traversal
	name := filepath.Base(path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid upload path %q", path)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + name, nil
}
