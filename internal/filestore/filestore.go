// Package filestore is the upload-transport collaborator: it accepts raw file
// bytes under a per-category size cap and hands back a durable {url, name}
// descriptor the ingestion endpoint can fetch later.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

type SavedFile struct {
	URL  string
	Name string
}

type Store struct {
	dir     string
	baseURL string
	logger  *logger_i.Logger
}

func New(dir string, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating file storage dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger_i.NewLogger("File Store"),
	}, nil
}

// MaxUploadBytes returns the size cap for a declared content type. Word documents
// share the pdf cap; everything else counts as text.
func MaxUploadBytes(contentType string) int64 {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return config.MaxImageUploadBytes
	case contentType == "application/pdf",
		contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return config.MaxPdfUploadBytes
	default:
		return config.MaxTextUploadBytes
	}
}

// Save streams the upload to disk under a collision-free name and returns the
// descriptor the caller sends to /ingest.
func (s *Store) Save(name string, r io.Reader) (SavedFile, error) {
	name = filepath.Base(name)
	storedName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)

	destination, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return SavedFile{}, fmt.Errorf("creating stored file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, r); err != nil {
		return SavedFile{}, fmt.Errorf("writing stored file: %w", err)
	}

	s.logger.Debug("Stored uploaded file", "name", storedName)
	return SavedFile{
		URL:  s.baseURL + "/files/" + storedName,
		Name: name,
	}, nil
}

// Path resolves a stored file name to its on-disk path. Traversal attempts are
// flattened to their base name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
