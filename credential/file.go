package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// fileDocument is the on-disk layout:
//
//	[credentials]
//	access_token = "..."
type fileDocument struct {
	Credentials map[string]string `toml:"credentials"`
}

// FileBackend stores values in a TOML file.
// Writes go to a temp file in the same directory and are renamed into place.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend creates a FileBackend at path. A leading "~/" expands to the
// user's home directory. The file is created lazily on first Set.
func NewFileBackend(path string) (*FileBackend, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &FileBackend{path: resolved}, nil
}

// Path returns the resolved file location.
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Credentials[key]
	return v, ok, nil
}

func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		// an unreadable file is replaced rather than blocking persistence
		doc = fileDocument{}
	}
	if doc.Credentials == nil {
		doc.Credentials = make(map[string]string)
	}
	doc.Credentials[key] = value
	return f.write(doc)
}

func (f *FileBackend) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		// an unreadable file may still hold the value; replace it
		return f.write(fileDocument{})
	}
	if _, ok := doc.Credentials[key]; !ok {
		return nil
	}
	delete(doc.Credentials, key)
	return f.write(doc)
}

func (f *FileBackend) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("credential: read %s: %w", f.path, err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("credential: decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileBackend) write(doc fileDocument) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("credential: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credential: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("credential: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credential: close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("credential: replace %s: %w", f.path, err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("credential: path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("credential: resolve home: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Clean(path), nil
}
