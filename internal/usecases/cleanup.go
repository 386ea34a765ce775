package usecases

import (
	"os"
	"path/filepath"
	"time"

	"video-service/pkg/logger"
)

// CleanupService removes upload spool files that never made it into a
// source location (client disconnects mid-upload leave these behind).
type CleanupService interface {
	CleanupOldTempFiles(maxAge time.Duration) error
}

type cleanupService struct {
	tempDir string
}

func NewCleanupService(tempDir string) CleanupService {
	return &cleanupService{tempDir: tempDir}
}

func (s *cleanupService) CleanupOldTempFiles(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		path := filepath.Join(s.tempDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.RemoveAll(path); err != nil {
				logger.Warnf("cleanup: could not remove %s: %v", path, err)
				continue
			}
			logger.Infof("cleanup: removed stale upload %s", path)
		}
	}
	return nil
}
