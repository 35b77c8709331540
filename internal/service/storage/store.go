package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// chunkSize bounds how much of an upload is held in memory at once.
const chunkSize = 1 << 20

// allowedExtensions is the fixed allow-list for uploaded files.
var allowedExtensions = map[string]struct{}{
	".txt":  {},
	".pdf":  {},
	".docx": {},
	".csv":  {},
	".xlsx": {},
	".json": {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

var (
	// ErrUnsupportedType rejects files whose extension is not on the allow-list.
	ErrUnsupportedType = errors.New("file type not allowed")
	// ErrStorage reports a failure persisting the artifact to disk.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound reports that no stored artifact matches the requested name.
	ErrNotFound = errors.New("file not found")
)

// Store writes upload artifacts under a single directory, naming each one
// with a fresh random token plus the original extension. Artifacts have no
// relationship to sessions and live until externally deleted.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created by the
// caller at bootstrap.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save validates the extension case-insensitively, then streams src to disk
// in fixed-size chunks; at most one chunk is held in memory at a time. A
// failed write removes the partial file before reporting ErrStorage.
func (s *Store) Save(_ context.Context, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	id := uuid.New()
	name := hex.EncodeToString(id[:]) + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	buf := make([]byte, chunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				s.discard(dst, path)
				return "", fmt.Errorf("%w: %v", ErrStorage, writeErr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			s.discard(dst, path)
			return "", fmt.Errorf("%w: %v", ErrStorage, readErr)
		}
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return name, nil
}

// Path resolves a stored name for retrieval. Empty names, names carrying path
// separators or traversal segments, directories and unknown names all come
// back as ErrNotFound.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrNotFound
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// discard drops a partially written artifact; a failed upload must not leave
// a retrievable file behind.
func (s *Store) discard(dst *os.File, path string) {
	_ = dst.Close()
	_ = os.Remove(path)
}
