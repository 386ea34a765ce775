package repositories

import "io"

// StorageStrategy abstracts the archival target for finished assets. Keys
// are paths relative to the media root, so the archive mirrors the local
// layout.
type StorageStrategy interface {
	Save(r io.Reader, key string) (string, error)
	Delete(key string) error
	DeleteAll(prefix string) error
	Exists(key string) bool
}
