package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps files under a base directory. Keys are relative paths.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) Save(r io.Reader, key string) (string, error) {
	fullPath := filepath.Join(l.BasePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("could not create directory: %w", err)
	}

	// Write to a temp name first so a partially written file is never
	// visible under the final key.
	tmpPath := fullPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("could not create file: %w", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("could not write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("could not finalize file: %w", err)
	}

	return fullPath, nil
}

func (l *LocalStorage) Delete(key string) error {
	err := os.Remove(filepath.Join(l.BasePath, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *LocalStorage) DeleteAll(prefix string) error {
	return os.RemoveAll(filepath.Join(l.BasePath, prefix))
}

func (l *LocalStorage) Exists(key string) bool {
	_, err := os.Stat(filepath.Join(l.BasePath, key))
	return err == nil
}
