package usecases

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"video-service/internal/domain/dto"
	"video-service/internal/domain/entities"
	"video-service/internal/domain/repositories"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/infrastructure/queue"
	"video-service/internal/pkg/config"
	"video-service/pkg/constants"
	verrors "video-service/pkg/errors"
	"video-service/pkg/file"
	"video-service/pkg/helper"
	"video-service/pkg/logger"

	"github.com/google/uuid"
)

type UploadInput struct {
	OwnerID      string
	Title        string
	Description  string
	Language     string
	OriginalName string
	Content      io.Reader
	ExternalURL  string
}

type VideoService interface {
	Upload(ctx context.Context, input UploadInput) (*entities.VideoAsset, error)
	Get(id string) (*entities.VideoAsset, error)
	ListByOwner(ownerID string) ([]entities.VideoAsset, error)
	Trim(ctx context.Context, id, requester string, req *dto.TrimRequest) (*entities.VideoAsset, error)
	Retry(ctx context.Context, id, requester string) (*entities.VideoAsset, error)
	CancelQueued(ctx context.Context, id, requester string) error
	Delete(ctx context.Context, id, requester string) error
}

type videoService struct {
	repo    repositories.VideoRepository
	layout  *layout.Manager
	jobs    JobQueue
	tempDir string
}

func NewVideoService(repo repositories.VideoRepository, lay *layout.Manager, jobs JobQueue, uploadCfg config.UploadConfig) VideoService {
	return &videoService{
		repo:    repo,
		layout:  lay,
		jobs:    jobs,
		tempDir: uploadCfg.TempDir,
	}
}

// Upload accepts either a local byte stream or an externally hosted URL.
// External assets skip transcoding entirely and are ready immediately;
// uploaded ones come back status=processing with a queued pipeline job.
func (s *videoService) Upload(ctx context.Context, input UploadInput) (*entities.VideoAsset, error) {
	if input.OwnerID == "" {
		return nil, verrors.ErrMissingOwner(nil)
	}

	asset := &entities.VideoAsset{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		Title:        input.Title,
		Description:  input.Description,
		Language:     input.Language,
		OriginalName: input.OriginalName,
	}

	if input.ExternalURL != "" {
		asset.ExternalURL = input.ExternalURL
		asset.Status = constants.StatusReady
		if err := s.repo.Create(asset); err != nil {
			return nil, verrors.ErrInternal(err)
		}
		return asset, nil
	}

	if input.Content == nil {
		return nil, verrors.ErrInvalidUpload(fmt.Errorf("neither file nor external_url provided"))
	}
	if !helper.IsVideoFile(input.OriginalName) {
		return nil, verrors.ErrInvalidUpload(fmt.Errorf("unsupported extension %q", filepath.Ext(input.OriginalName)))
	}

	sourcePath, checksum, err := s.stageUpload(asset.ID, input)
	if err != nil {
		return nil, verrors.ErrStorage(err)
	}

	asset.SourcePath = sourcePath
	asset.Checksum = checksum
	asset.Status = constants.StatusProcessing
	if err := s.repo.Create(asset); err != nil {
		// Record creation failed; the staged source stays for inspection.
		return nil, verrors.ErrInternal(err)
	}

	job := queue.Job{AssetID: asset.ID.String(), Type: queue.JobProcess, EnqueuedAt: time.Now()}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		s.failCreate(asset.ID, err)
		return nil, verrors.ErrInternal(err)
	}

	return asset, nil
}

// stageUpload spools the stream into the temp dir, checksums it, then moves
// it into the computed source location so a half-written upload is never
// visible under the final path.
func (s *videoService) stageUpload(id uuid.UUID, input UploadInput) (string, string, error) {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", "", fmt.Errorf("could not create temp dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.tempDir, "upload-*")
	if err != nil {
		return "", "", fmt.Errorf("could not create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, input.Content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("could not spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", "", err
	}

	checksum, err := file.Checksum(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return "", "", err
	}

	sourcePath := s.layout.SourcePath(id, input.OriginalName)
	if err := os.MkdirAll(filepath.Dir(sourcePath), 0755); err != nil {
		os.Remove(tmpPath)
		return "", "", err
	}
	if err := os.Rename(tmpPath, sourcePath); err != nil {
		// Cross-device fallback.
		if copyErr := file.Copy(tmpPath, sourcePath); copyErr != nil {
			os.Remove(tmpPath)
			return "", "", copyErr
		}
		os.Remove(tmpPath)
	}

	return sourcePath, checksum, nil
}

func (s *videoService) failCreate(id uuid.UUID, cause error) {
	if err := s.repo.UpdateStatus(id, constants.StatusError, fmt.Sprintf("enqueue: %v", cause)); err != nil {
		logger.Errorf("could not record enqueue failure for %s: %v", id, err)
	}
}

func (s *videoService) Get(id string) (*entities.VideoAsset, error) {
	parsed, err := parseAssetID(id)
	if err != nil {
		return nil, verrors.ErrNotFound(err)
	}
	asset, err := s.repo.GetByID(parsed)
	if err != nil {
		return nil, verrors.ErrNotFound(err)
	}
	return asset, nil
}

func (s *videoService) ListByOwner(ownerID string) ([]entities.VideoAsset, error) {
	return s.repo.ListByOwner(ownerID)
}

// Trim stores the edit points. With reprocess=true the asset re-enters
// processing and the pipeline re-runs against the trim window; otherwise the
// points are stored independent of processing status.
func (s *videoService) Trim(ctx context.Context, id, requester string, req *dto.TrimRequest) (*entities.VideoAsset, error) {
	asset, err := s.ownedAsset(id, requester)
	if err != nil {
		return nil, err
	}

	if req.TrimStart != nil && req.TrimEnd != nil && *req.TrimEnd <= *req.TrimStart {
		return nil, verrors.ErrInvalidTrim(fmt.Errorf("end %.3f <= start %.3f", *req.TrimEnd, *req.TrimStart))
	}

	asset.TrimStart = req.TrimStart
	asset.TrimEnd = req.TrimEnd

	if req.Reprocess {
		if asset.External() {
			return nil, verrors.ErrInvalidTrim(fmt.Errorf("external assets cannot be reprocessed"))
		}
		// One pipeline run per asset at a time: re-edit enters processing
		// only from ready or error.
		if asset.Status == constants.StatusProcessing {
			return nil, verrors.ErrProcessing(fmt.Errorf("asset %s already has a pipeline run pending", asset.ID))
		}
		asset.Status = constants.StatusProcessing
		asset.ErrorMessage = ""
	}

	if err := s.repo.Update(asset); err != nil {
		return nil, verrors.ErrInternal(err)
	}

	if req.Reprocess {
		job := queue.Job{AssetID: asset.ID.String(), Type: queue.JobReprocess, EnqueuedAt: time.Now()}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			s.failCreate(asset.ID, err)
			return nil, verrors.ErrInternal(err)
		}
	}

	return asset, nil
}

// Retry is the only path from error back to processing. Anything else is
// rejected so a ready asset can never slide back implicitly.
func (s *videoService) Retry(ctx context.Context, id, requester string) (*entities.VideoAsset, error) {
	asset, err := s.ownedAsset(id, requester)
	if err != nil {
		return nil, err
	}

	if asset.Status == constants.StatusReady {
		return nil, verrors.ErrAlreadyReady(fmt.Errorf("asset %s is already processed", asset.ID))
	}
	if asset.Status != constants.StatusError {
		return nil, verrors.ErrNotRetryable(fmt.Errorf("status is %s", asset.Status))
	}

	asset.Status = constants.StatusProcessing
	asset.ErrorMessage = ""
	if err := s.repo.Update(asset); err != nil {
		return nil, verrors.ErrInternal(err)
	}

	job := queue.Job{AssetID: asset.ID.String(), Type: queue.JobProcess, EnqueuedAt: time.Now()}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		s.failCreate(asset.ID, err)
		return nil, verrors.ErrInternal(err)
	}
	return asset, nil
}

// CancelQueued is best effort: only a job still waiting in the queue can be
// skipped. An in-flight transcode always runs to completion or failure.
func (s *videoService) CancelQueued(ctx context.Context, id, requester string) error {
	asset, err := s.ownedAsset(id, requester)
	if err != nil {
		return err
	}

	cancelled, err := s.jobs.Cancel(ctx, asset.ID.String())
	if err != nil {
		return verrors.ErrInternal(err)
	}
	if !cancelled {
		return verrors.ErrNotCancellable(fmt.Errorf("no queued job for asset %s", asset.ID))
	}

	return nil
}

// Delete removes the record and all files belonging to the asset: source,
// thumbnail and the whole derivative directory. Archived copies are purged
// asynchronously by the worker.
func (s *videoService) Delete(ctx context.Context, id, requester string) error {
	asset, err := s.ownedAsset(id, requester)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(asset.ID); err != nil {
		return verrors.ErrInternal(err)
	}

	for _, p := range []string{asset.SourcePath, asset.ThumbnailPath, s.layout.TrimmedSourcePath(asset.ID, asset.OriginalName)} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warnf("delete: could not remove %s: %v", p, err)
		}
	}
	if err := os.RemoveAll(s.layout.DerivativeDir(asset.ID)); err != nil {
		logger.Warnf("delete: could not remove derivative dir for %s: %v", asset.ID, err)
	}

	if !asset.External() {
		job := queue.Job{
			AssetID:    asset.ID.String(),
			Type:       queue.JobPurge,
			SourceKey:  s.sourceKey(asset.SourcePath),
			EnqueuedAt: time.Now(),
		}
		// The local files are gone either way; a lost purge job only leaves
		// archive copies behind.
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			logger.Warnf("delete: could not queue archive purge for %s: %v", asset.ID, err)
		}
	}

	return nil
}

// sourceKey maps the source path to its archive key relative to the media
// root.
func (s *videoService) sourceKey(path string) string {
	key, err := filepath.Rel(s.layout.Root(), path)
	if err != nil {
		return filepath.Base(path)
	}
	return key
}

func (s *videoService) ownedAsset(id, requester string) (*entities.VideoAsset, error) {
	asset, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if requester != "" && asset.OwnerID != requester {
		return nil, verrors.ErrForbidden(fmt.Errorf("asset %s belongs to another owner", asset.ID))
	}
	return asset, nil
}

func parseAssetID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid asset id %q: %w", id, err)
	}
	return parsed, nil
}
