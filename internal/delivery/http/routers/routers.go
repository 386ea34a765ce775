package routers

import (
	"time"

	"video-service/internal/delivery/http/handlers"
	"video-service/internal/delivery/http/middleware"
	"video-service/internal/domain/repositories"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/pkg/config"
	"video-service/internal/usecases"
	"video-service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
)

// SetupVideoRoutes wires the authenticated asset lifecycle endpoints and
// schedules the temp-dir sweeper.
func SetupVideoRoutes(app *fiber.App, cfg *config.Config, repo repositories.VideoRepository, jobs usecases.JobQueue) {
	lay := layout.NewManager(cfg.Upload.MediaDir)
	videoService := usecases.NewVideoService(repo, lay, jobs, cfg.Upload)
	videoHandler := handlers.NewVideoHandler(videoService)

	// Abandoned uploads never leave the temp dir on their own.
	cleanupUC := usecases.NewCleanupService(cfg.Upload.TempDir)
	c := cron.New()
	c.AddFunc("*/30 * * * *", func() {
		if err := cleanupUC.CleanupOldTempFiles(24 * time.Hour); err != nil {
			logger.Errorf("cleanup: %v", err)
		}
	})
	c.Start()

	api := app.Group("/api/v1", middleware.RequireAuth([]byte(cfg.Auth.JWTSecret)))
	api.Post("/videos", videoHandler.Upload)
	api.Get("/videos", videoHandler.List)
	api.Get("/videos/:id", videoHandler.Get)
	api.Patch("/videos/:id/trim", videoHandler.Trim)
	api.Post("/videos/:id/retry", videoHandler.Retry)
	api.Post("/videos/:id/cancel", videoHandler.Cancel)
	api.Delete("/videos/:id", videoHandler.Delete)
}

// SetupStreamRoutes wires playback. These endpoints carry no auth: manifest
// and segment URLs end up inside players and <video> tags that cannot attach
// bearer tokens.
func SetupStreamRoutes(app *fiber.App, cfg *config.Config, repo repositories.VideoRepository) error {
	lay := layout.NewManager(cfg.Upload.MediaDir)
	videoService := usecases.NewVideoService(repo, lay, nil, cfg.Upload)

	streamHandler, err := handlers.NewStreamHandler(videoService, lay, cfg.Stream)
	if err != nil {
		return err
	}

	api := app.Group("/api/v1")
	api.Get("/stream/:id", streamHandler.Stream)
	api.Get("/hls/:id/:file", streamHandler.HLS)
	api.Get("/hls/:id", streamHandler.HLS)
	api.Get("/thumbnails/:id", streamHandler.Thumbnail)
	return nil
}

func SetupAdminRoutes(app *fiber.App, cfg *config.Config, repo repositories.VideoRepository, audit repositories.AuditRepository) {
	adminService := usecases.NewAdminService(repo, audit, cfg.Auth.FallbackOwner)
	adminHandler := handlers.NewAdminHandler(adminService, cfg.Auth.FallbackOwner)

	api := app.Group("/api/v1/admin",
		middleware.RequireAuth([]byte(cfg.Auth.JWTSecret)),
		middleware.RequireAdmin(),
	)
	api.Post("/repair-owners", adminHandler.RepairOwners)
	api.Get("/orphans", adminHandler.Orphans)
	api.Get("/audit", adminHandler.AuditLog)
}
