package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asistec/asistec/backend/internal/service/storage"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream interrupted")
}

func TestSaveStoresWithGeneratedName(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	name, err := store.Save(context.Background(), "report.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Fatalf("expected .csv suffix, got %q", name)
	}
	if name == "report.csv" {
		t.Fatal("expected a generated name, got the original")
	}
	if len(name) != 32+len(".csv") {
		t.Fatalf("unexpected name length: %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile err: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestSaveLowercasesExtension(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	name, err := store.Save(context.Background(), "FOTO.JPG", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("expected lowercased .jpg suffix, got %q", name)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	_, err := store.Save(context.Background(), "malware.exe", strings.NewReader("MZ"))
	if !errors.Is(err, storage.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}

func TestSaveRejectsMissingExtension(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	_, err := store.Save(context.Background(), "README", strings.NewReader("x"))
	if !errors.Is(err, storage.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestSaveRemovesPartialFileOnReadFailure(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	_, err := store.Save(context.Background(), "data.json", failingReader{})
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no partial file, found %d entries", len(entries))
	}
}

func TestPathResolvesStoredFile(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	name, err := store.Save(context.Background(), "notes.txt", strings.NewReader("hola"))
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	path, err := store.Path(name)
	if err != nil {
		t.Fatalf("Path err: %v", err)
	}
	if path != filepath.Join(dir, name) {
		t.Fatalf("unexpected path: %q", path)
	}
}

func TestPathRejectsTraversalAndUnknownNames(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	names := []string{"", ".", "..", "../secret.txt", "a/b.txt", `a\b.txt`, "missing.txt"}
	for _, name := range names {
		if _, err := store.Path(name); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %q, got %v", name, err)
		}
	}
}
