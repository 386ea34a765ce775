package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-service/internal/infrastructure/db"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/infrastructure/queue"
	infra_repo "video-service/internal/infrastructure/repositories"
	"video-service/internal/infrastructure/storage"
	"video-service/internal/infrastructure/transcoder"
	"video-service/internal/pkg/config"
	"video-service/internal/usecases"
	"video-service/pkg/constants"
	applog "video-service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	defer applog.Sync()

	backend := transcoder.NewFFmpegBackend(cfg.Transcode)
	if err := backend.Verify(); err != nil {
		log.Fatalf("transcoder unavailable: %v", err)
	}

	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis unavailable: %v", err)
	}

	videoRepo := infra_repo.NewVideoRepository(database)
	lay := layout.NewManager(cfg.Upload.MediaDir)
	pipeline := usecases.NewPipelineService(videoRepo, backend, lay, cfg.Transcode)

	// Optional archival: finished derivatives are mirrored to S3 when a
	// bucket is configured, or to a local directory as the fallback target.
	var archive usecases.ArchiveService
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		s3Store, err := storage.NewS3Storage(bucket, os.Getenv("AWS_REGION"))
		if err != nil {
			log.Fatalf("s3 storage unavailable: %v", err)
		}
		archive = usecases.NewArchiveService(s3Store, lay)
	} else if dir := os.Getenv("ARCHIVE_DIR"); dir != "" {
		archive = usecases.NewArchiveService(storage.NewLocalStorage(dir), lay)
	}

	// Hourly report of assets wedged in processing, usually a worker that
	// died mid-job. They stay visible until an operator retries or deletes.
	reporter := cron.New()
	reporter.AddFunc("@hourly", func() {
		stuck, err := videoRepo.ListStuck(2 * time.Hour)
		if err != nil {
			applog.Errorf("stuck report: %v", err)
			return
		}
		for _, a := range stuck {
			applog.Warnf("asset %s stuck in processing since %s", a.ID, a.UpdatedAt.Format(time.RFC3339))
		}
	})
	reporter.Start()
	defer reporter.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := queue.NewRedisQueue(rdb)
	applog.Infof("worker consuming jobs")

	err = jobs.Consume(ctx, func(job queue.Job) {
		if job.Type == queue.JobPurge {
			if archive == nil {
				return
			}
			id, err := uuid.Parse(job.AssetID)
			if err != nil {
				return
			}
			if err := archive.Purge(id, job.SourceKey); err != nil {
				applog.Errorf("archive purge failed for asset %s: %v", job.AssetID, err)
			}
			return
		}

		pipeline.Process(ctx, job)

		if archive == nil {
			return
		}
		id, err := uuid.Parse(job.AssetID)
		if err != nil {
			return
		}
		asset, err := videoRepo.GetByID(id)
		if err != nil || asset.Status != constants.StatusReady {
			return
		}
		if err := archive.Archive(asset); err != nil {
			applog.Errorf("archive failed for asset %s: %v", job.AssetID, err)
		}
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("queue consumer stopped: %v", err)
	}
	applog.Infof("worker shut down")
}
