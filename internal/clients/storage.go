package clients

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// StorageClient keeps generated statement files on local disk. It is the
// fallback when no S3 endpoint is configured.
type StorageClient struct {
	BaseDir      string // directory holding generated files
	PublicPrefix string // URL prefix where files are served, e.g. "/files"
	BaseURL      string // optional absolute base URL used to build file URLs
}

// NewLocalStorage creates a storage client; baseDir is created if missing.
func NewLocalStorage(baseDir, publicPrefix, baseURL string) (*StorageClient, error) {
	if baseDir == "" {
		baseDir = "./statements"
	}
	if publicPrefix == "" {
		publicPrefix = "/files"
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure storage dir %q: %w", baseDir, err)
	}

	return &StorageClient{BaseDir: baseDir, PublicPrefix: publicPrefix, BaseURL: baseURL}, nil
}

// Save writes data under a unique name (random prefix + provided name) and
// returns the stored filename.
func (s *StorageClient) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	// sanitize provided filename to avoid path traversal
	fileName = filepath.Base(fileName)

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	final := fmt.Sprintf("%s_%s", hex.EncodeToString(randBytes), fileName)

	path := filepath.Join(s.BaseDir, final)
	// write atomically: temp file, then rename
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return final, nil
}

// GetURL returns the public URL for a saved file: absolute when BaseURL is
// configured, relative otherwise.
func (s *StorageClient) GetURL(fileName string) string {
	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/files"
	}
	if prefix[0] != '/' {
		prefix = "/" + prefix
	}

	if s.BaseURL != "" {
		base := s.BaseURL
		if base[len(base)-1] == '/' {
			base = base[:len(base)-1]
		}
		return fmt.Sprintf("%s%s/%s", base, prefix, fileName)
	}

	return fmt.Sprintf("%s/%s", prefix, fileName)
}

// CleanupOlderThan deletes generated files older than d.
func (s *StorageClient) CleanupOlderThan(d time.Duration) error {
	now := time.Now()
	return filepath.WalkDir(s.BaseDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > d {
			_ = os.Remove(path) // best-effort
		}
		return nil
	})
}
