package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-service/internal/delivery/http/routers"
	"video-service/internal/domain/repositories"
	"video-service/internal/infrastructure/db"
	"video-service/internal/infrastructure/layout"
	"video-service/internal/infrastructure/queue"
	infra_repo "video-service/internal/infrastructure/repositories"
	"video-service/internal/infrastructure/transcoder"
	"video-service/internal/pkg/config"
	"video-service/internal/usecases"
	"video-service/pkg/constants"
	applog "video-service/pkg/logger"

	_ "video-service/migrations"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	defer applog.Sync()

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("could not create data directories: %v", err)
	}

	// Transcoding binaries and the thumbnail placeholder are hard startup
	// requirements; a server that cannot process or fall back should not
	// accept uploads at all.
	backend := transcoder.NewFFmpegBackend(cfg.Transcode)
	if err := backend.Verify(); err != nil {
		log.Fatalf("transcoder unavailable: %v", err)
	}

	var (
		videoRepo repositories.VideoRepository
		auditRepo repositories.AuditRepository
		jobs      usecases.JobQueue
		shutdown  func()
	)

	if os.Getenv("EMBEDDED_MODE") == "true" {
		// Single-process mode: in-memory records, in-process workers. Meant
		// for local development and demos, not production.
		videoRepo = infra_repo.NewInMemoryVideoRepository()
		auditRepo = infra_repo.NewInMemoryAuditRepository()

		lay := layout.NewManager(cfg.Upload.MediaDir)
		pipeline := usecases.NewPipelineService(videoRepo, backend, lay, cfg.Transcode)
		pool := queue.NewPool(cfg.Transcode.Workers, func(job queue.Job) {
			pipeline.Process(context.Background(), job)
		})
		jobs = pool
		shutdown = pool.Shutdown
	} else {
		database, err := db.NewPostgresDB(cfg.Database)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}

		switch os.Getenv("RUN_AUTO_MIGRATION") {
		case "true":
			sqlDB, err := database.DB()
			if err != nil {
				log.Fatalf("could not unwrap sql.DB: %v", err)
			}
			goose.SetBaseFS(nil)
			if err := goose.Up(sqlDB, "."); err != nil {
				log.Fatalf("failed to apply migrations: %v", err)
			}
		case "gorm":
			// Schema sync without migration bookkeeping, for dev databases.
			if err := db.AutoMigrate(database); err != nil {
				log.Fatalf("schema sync failed: %v", err)
			}
		}

		rdb := redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis unavailable: %v", err)
		}

		videoRepo = infra_repo.NewVideoRepository(database)
		auditRepo = infra_repo.NewAuditRepository(database)
		jobs = queue.NewRedisQueue(rdb)
		shutdown = func() { rdb.Close() }
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSize),
	})
	app.Use(logger.New())
	app.Use(cors.New())

	routers.SetupVideoRoutes(app, cfg, videoRepo, jobs)
	if err := routers.SetupStreamRoutes(app, cfg, videoRepo); err != nil {
		log.Fatalf("streaming unavailable: %v", err)
	}
	routers.SetupAdminRoutes(app, cfg, videoRepo, auditRepo)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": constants.StatusOK})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		applog.Infof("server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	applog.Infof("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("server did not shut down cleanly: %v", err)
	}
	shutdown()
}
