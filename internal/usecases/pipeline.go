package usecases

import (
	"context"
	"fmt"

	"video-service/internal/domain/entities"
	"video-service/internal/domain/repositories"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/infrastructure/queue"
	"video-service/internal/infrastructure/transcoder"
	"video-service/internal/pkg/config"
	"video-service/pkg/constants"
	"video-service/pkg/file"
	"video-service/pkg/logger"
)

// JobQueue is the narrow queue surface the services need. Implemented by
// queue.RedisQueue and queue.Pool.
type JobQueue interface {
	Enqueue(ctx context.Context, job queue.Job) error
	Cancel(ctx context.Context, assetID string) (bool, error)
}

// PipelineService drives a VideoAsset from uploaded source to playable
// state: probe → thumbnail → segment, strictly in that order, each step
// independently failable.
type PipelineService interface {
	Process(ctx context.Context, job queue.Job)
}

type pipelineService struct {
	repo    repositories.VideoRepository
	backend repositories.TranscodingBackend
	layout  *layout.Manager
	cfg     config.TranscodeConfig
}

func NewPipelineService(
	repo repositories.VideoRepository,
	backend repositories.TranscodingBackend,
	lay *layout.Manager,
	cfg config.TranscodeConfig,
) PipelineService {
	return &pipelineService{
		repo:    repo,
		backend: backend,
		layout:  lay,
		cfg:     cfg,
	}
}

// Process runs the pipeline for one asset. Multiple assets may process
// concurrently; all record writes are scoped to this asset's id, so no
// cross-asset locking is needed.
func (s *pipelineService) Process(ctx context.Context, job queue.Job) {
	// Purge jobs belong to the archive consumer, not the transcoder.
	if job.Type != queue.JobProcess && job.Type != queue.JobReprocess {
		return
	}

	asset, err := s.loadAsset(job.AssetID)
	if err != nil {
		logger.Errorf("pipeline: could not load asset %s: %v", job.AssetID, err)
		return
	}

	// External-URL assets never transcode locally.
	if asset.External() {
		return
	}

	// Idempotence: an asset already ready is a no-op unless the caller
	// explicitly asked for reprocessing.
	if asset.Status == constants.StatusReady && job.Type != queue.JobReprocess {
		logger.Infof("pipeline: asset %s already ready, skipping", asset.ID)
		return
	}

	if asset.Status != constants.StatusProcessing {
		if err := s.repo.UpdateStatus(asset.ID, constants.StatusProcessing, ""); err != nil {
			logger.Errorf("pipeline: could not mark asset %s processing: %v", asset.ID, err)
			return
		}
		asset.Status = constants.StatusProcessing
	}

	input := asset.SourcePath
	if input == "" {
		s.fail(asset, "no source file recorded for asset")
		return
	}

	// Catch a source corrupted between staging and pickup before spending a
	// transcode on it. Trimmed inputs are re-cut, so only the original is
	// checked.
	if job.Type == queue.JobProcess {
		if err := file.ValidateChecksum(input, asset.Checksum); err != nil {
			s.fail(asset, fmt.Sprintf("source integrity: %v", err))
			return
		}
	}

	// A reprocess after a trim edit cuts the source first and feeds the
	// trimmed copy through the rest of the pipeline.
	if job.Type == queue.JobReprocess && asset.TrimStart != nil && asset.TrimEnd != nil {
		trimmed := s.layout.TrimmedSourcePath(asset.ID, asset.OriginalName)
		if err := s.backend.Trim(ctx, input, *asset.TrimStart, *asset.TrimEnd, trimmed); err != nil {
			s.fail(asset, fmt.Sprintf("trim: %v", err))
			return
		}
		input = trimmed
	}

	duration, err := s.backend.Probe(ctx, input)
	if err != nil {
		// The uploaded source is retained for manual recovery.
		s.fail(asset, fmt.Sprintf("probe: %v", err))
		return
	}
	asset.DurationSeconds = &duration

	thumbPath := s.layout.ThumbnailPath(asset.ID)
	if err := s.backend.Thumbnail(ctx, input, s.cfg.ThumbnailOffset, thumbPath); err != nil {
		s.fail(asset, fmt.Sprintf("thumbnail: %v", err))
		return
	}
	if err := transcoder.DownscalePoster(thumbPath, s.cfg.ThumbnailWidth); err != nil {
		// The full-size frame still works as a poster.
		logger.Warnf("pipeline: poster downscale for %s: %v", asset.ID, err)
	}
	asset.ThumbnailPath = thumbPath

	manifest, err := s.backend.Segment(ctx, input, s.cfg.SegmentSeconds, s.layout.DerivativeDir(asset.ID))
	if err != nil {
		// Partial outputs (the thumbnail) are kept, not rolled back.
		s.fail(asset, fmt.Sprintf("segment: %v", err))
		return
	}
	asset.ManifestPath = manifest

	asset.Status = constants.StatusReady
	asset.ErrorMessage = ""
	if err := s.repo.Update(asset); err != nil {
		logger.Errorf("pipeline: could not persist ready state for %s: %v", asset.ID, err)
		return
	}
	logger.Infof("pipeline: asset %s ready (duration %.1fs)", asset.ID, duration)
}

func (s *pipelineService) loadAsset(id string) (*entities.VideoAsset, error) {
	parsed, err := parseAssetID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(parsed)
}

// fail records the failure reason and leaves any partially produced files in
// place. The pipeline never retries on its own; recovery is an explicit
// retry command or a re-upload.
func (s *pipelineService) fail(asset *entities.VideoAsset, reason string) {
	logger.Errorf("pipeline: asset %s failed: %s", asset.ID, reason)

	// Persist whatever steps already produced before the failure.
	asset.Status = constants.StatusError
	asset.ErrorMessage = reason
	if err := s.repo.Update(asset); err != nil {
		logger.Errorf("pipeline: could not persist error state for %s: %v", asset.ID, err)
	}
}
