package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/user/video-analysis-service/internal/adapter/assemblyai"
	"github.com/user/video-analysis-service/internal/adapter/chromedp_capture"
	"github.com/user/video-analysis-service/internal/adapter/filesystem"
	"github.com/user/video-analysis-service/internal/adapter/gptzero"
	"github.com/user/video-analysis-service/internal/adapter/httpprobe"
	"github.com/user/video-analysis-service/internal/adapter/memory"
	"github.com/user/video-analysis-service/internal/adapter/postgres"
	redis_adapter "github.com/user/video-analysis-service/internal/adapter/redis"
	"github.com/user/video-analysis-service/internal/adapter/ytdlp"
	"github.com/user/video-analysis-service/internal/delivery/http/handler"
	"github.com/user/video-analysis-service/internal/delivery/http/router"
	"github.com/user/video-analysis-service/internal/repository"
	"github.com/user/video-analysis-service/internal/usecase"
	"github.com/user/video-analysis-service/pkg/config"
	"github.com/user/video-analysis-service/pkg/logger"
	"github.com/user/video-analysis-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- Task store ---
	var taskRepo repository.TaskRepository
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		taskRepo = redis_adapter.NewTaskRepo(rdb)
		slog.Info("Redis task store enabled", "addr", cfg.RedisAddr)
	} else {
		taskRepo = memory.NewTaskRepo()
		slog.Info("In-memory task store enabled")
	}

	// --- Result mirrors ---
	fileResults, err := filesystem.NewResultRepo(filepath.Join(cfg.DataDir, "results"))
	if err != nil {
		slog.Error("Unable to create results directory", "error", err)
		os.Exit(1)
	}
	resultRepos := []repository.ResultRepository{fileResults}
	if cfg.PostgresDSN != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		resultRepos = append(resultRepos, postgres.NewResultRepo(dbpool))
		slog.Info("PostgreSQL result mirror enabled")
	}

	// --- Collaborators ---
	captureRepo, err := chromedp_capture.NewChromedpCapture(
		filepath.Join(cfg.DataDir, "screenshots"), cfg.NavTimeout, cfg.ReadyTimeout)
	if err != nil {
		slog.Error("Unable to create screenshot adapter", "error", err)
		os.Exit(1)
	}
	audioRepo, err := ytdlp.NewAudioRepo(filepath.Join(cfg.DataDir, "audio"))
	if err != nil {
		slog.Error("Unable to create audio adapter", "error", err)
		os.Exit(1)
	}
	transcriberRepo := assemblyai.NewTranscriber(cfg.AssemblyAIKey)
	detectorRepo := gptzero.NewDetector(cfg.GPTZeroKey)
	probeRepo := httpprobe.NewProbeRepo(cfg.ProbeTimeout)

	// --- Use Cases ---
	pipeline := usecase.NewPipeline(taskRepo, captureRepo, audioRepo, transcriberRepo, detectorRepo, resultRepos)
	taskManager := usecase.NewTaskManager(taskRepo, probeRepo, pipeline)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(taskManager)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
