package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/hastla007/webradio-sub000/internal/api"
	"github.com/hastla007/webradio-sub000/internal/archive"
	"github.com/hastla007/webradio-sub000/internal/config"
	"github.com/hastla007/webradio-sub000/internal/delivery"
	"github.com/hastla007/webradio-sub000/internal/export"
	"github.com/hastla007/webradio-sub000/internal/pkg/distlock"
	"github.com/hastla007/webradio-sub000/internal/pkg/logger"
	"github.com/hastla007/webradio-sub000/internal/repository/postgres"
	"github.com/hastla007/webradio-sub000/internal/scheduler"
	"github.com/hastla007/webradio-sub000/internal/vault"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch cfg.Logging.Level {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database not reachable: %v", err)
	}
	log.Println("[Server] Connected to database")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("[Server] Redis not reachable (%v), falling back to PG advisory locks", err)
			redisClient = nil
		} else {
			log.Println("[Server] Connected to Redis")
		}
	}

	v, err := vault.New(cfg.Vault.Secret)
	if err != nil {
		log.Fatalf("Failed to initialize credential vault: %v", err)
	}

	client := delivery.NewClient(cfg.Export.OutputDirectory, cfg.Export.DefaultFTPTimeout(), v)

	if cfg.Archive.Enabled {
		s3archive, err := archive.NewS3Archive(context.Background(), cfg.Archive)
		if err != nil {
			log.Printf("[Server] Artifact archive disabled: %v", err)
		} else {
			client.SetArchiver(s3archive)
			log.Printf("[Server] Artifact archive enabled: s3://%s/%s", cfg.Archive.S3Bucket, cfg.Archive.S3Prefix)
		}
	}

	catalogueRepo := postgres.NewCatalogueRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	runStore := postgres.NewRunStore(db)

	runner := export.NewRunner(catalogueRepo, profileRepo, client, reportRepo)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(profileRepo, runStore, runner, nil)
		if err := sched.SetTickInterval(cfg.Scheduler.TickInterval()); err != nil {
			log.Fatalf("Invalid scheduler tick interval: %v", err)
		}
		sched.SetLock(distlock.New(redisClient, db, "auto-export-tick", 2*cfg.Scheduler.TickInterval()))
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	} else {
		log.Println("[Server] Auto-export scheduler disabled by config")
	}

	var schedStatus api.SchedulerStatus
	if sched != nil {
		schedStatus = sched
	}
	handlers := api.NewHandlers(runner, reportRepo, schedStatus)
	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	log.Printf("[Server] Listening on %s", server.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[Server] Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("[Server] HTTP server failed: %v", err)
		}
	}

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Shutdown error: %v", err)
	}
	log.Println("[Server] Stopped")
}
