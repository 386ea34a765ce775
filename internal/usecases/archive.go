package usecases

import (
	"fmt"
	"os"
	"path/filepath"

	"video-service/internal/domain/entities"
	"video-service/internal/domain/repositories"
	"video-service/internal/infrastructure/layout"
	"video-service/pkg/logger"

	"github.com/google/uuid"
)

// ArchiveService mirrors a finished asset's files to long-term storage and
// removes the copies again when the asset is deleted. The local media dir
// stays authoritative for serving; the archive is a copy.
type ArchiveService interface {
	Archive(asset *entities.VideoAsset) error
	// Purge removes every archived copy of the asset. sourceKey carries the
	// source location because the asset record is gone by the time a purge
	// runs.
	Purge(assetID uuid.UUID, sourceKey string) error
}

type archiveService struct {
	storage repositories.StorageStrategy
	layout  *layout.Manager
}

func NewArchiveService(storage repositories.StorageStrategy, lay *layout.Manager) ArchiveService {
	return &archiveService{storage: storage, layout: lay}
}

// Archive copies the source, thumbnail and every derivative file under keys
// relative to the media root. A reprocess produces a fresh segment set, so
// the asset's derivative prefix is cleared first; the source is immutable
// and skipped when a copy already exists.
func (s *archiveService) Archive(asset *entities.VideoAsset) error {
	if asset.External() {
		return nil
	}

	if sourceKey := s.key(asset.SourcePath); !s.storage.Exists(sourceKey) {
		if err := s.upload(asset.SourcePath); err != nil {
			return fmt.Errorf("archive %s: %w", asset.SourcePath, err)
		}
	}
	if asset.ThumbnailPath != "" {
		if err := s.upload(asset.ThumbnailPath); err != nil {
			return fmt.Errorf("archive %s: %w", asset.ThumbnailPath, err)
		}
	}

	if err := s.storage.DeleteAll(s.derivativePrefix(asset.ID)); err != nil {
		return fmt.Errorf("archive: could not clear stale derivatives for %s: %w", asset.ID, err)
	}

	count := 2
	dir := s.layout.DerivativeDir(asset.ID)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := s.upload(path); err != nil {
				return fmt.Errorf("archive %s: %w", path, err)
			}
			count++
		}
	}

	logger.Infof("archive: asset %s mirrored (%d files)", asset.ID, count)
	return nil
}

func (s *archiveService) Purge(assetID uuid.UUID, sourceKey string) error {
	keys := []string{sourceKey, s.key(s.layout.ThumbnailPath(assetID))}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(key); err != nil {
			return fmt.Errorf("purge %s: %w", key, err)
		}
	}

	if err := s.storage.DeleteAll(s.derivativePrefix(assetID)); err != nil {
		return fmt.Errorf("purge derivatives for %s: %w", assetID, err)
	}

	logger.Infof("archive: purged copies for asset %s", assetID)
	return nil
}

func (s *archiveService) derivativePrefix(assetID uuid.UUID) string {
	return s.key(s.layout.DerivativeDir(assetID))
}

// key maps an absolute media path to its archive key relative to the media
// root.
func (s *archiveService) key(path string) string {
	key, err := filepath.Rel(s.layout.Root(), path)
	if err != nil {
		return filepath.Base(path)
	}
	return key
}

func (s *archiveService) upload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.storage.Save(f, s.key(path))
	return err
}
