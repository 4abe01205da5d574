package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/config"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/dataset"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/exitcode"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/extraction"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/model"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/storage"
)

func main() {
	// Identifiers go to stdout, logs to stderr
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	envStr := flag.String("env", cfg.Environment, "Environment tag (PROD, STG, DEV, ...)")
	instance := flag.String("platform-instance", cfg.PlatformInstance, "Platform instance label")
	sourceStr := flag.String("source", "args", "Location source: args, stdin or minio")
	policyStr := flag.String("policy", string(extraction.PolicySkip), "Malformed location policy: skip or abort")
	runIDStr := flag.String("run-id", "", "Run identifier (UUIDv7 from orchestration, generated when empty)")
	dateStr := flag.String("date", time.Now().UTC().Format("2006-01-02"), "Run date for the report key (YYYY-MM-DD)")
	report := flag.Bool("report", false, "Upload the run report to MinIO")
	concurrency := flag.Int("concurrency", cfg.Concurrency, "Number of locations normalized in parallel")
	flag.Parse()

	env, err := dataset.ParseEnvironmentTag(*envStr)
	if err != nil {
		slog.Error("invalid environment", "env", *envStr, "error", err)
		fmt.Fprintf(os.Stderr, "Usage: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
	policy, err := extraction.ParsePolicy(*policyStr)
	if err != nil {
		slog.Error("invalid policy", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
	date, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		slog.Error("invalid date format", "date", *dateStr, "error", err)
		fmt.Fprintf(os.Stderr, "Usage: date must be in YYYY-MM-DD format\n")
		os.Exit(exitcode.ConfigError)
	}

	runID := model.RunID(*runIDStr)
	if runID == "" {
		if runID, err = model.NewRunID(); err != nil {
			slog.Error("failed to generate run-id", "error", err)
			os.Exit(exitcode.ApplicationError)
		}
	}
	if err := runID.Validate(); err != nil {
		slog.Error("invalid run-id", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: run-id must be a UUIDv7\n")
		os.Exit(exitcode.ConfigError)
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var minioClient *storage.MinIOClient
	if *sourceStr == "minio" || *report {
		minioCfg, err := config.LoadMinIO()
		if err != nil {
			slog.Error("failed to load minio config", "error", err)
			os.Exit(exitcode.ConfigError)
		}
		minioClient, err = storage.NewMinIOClient(ctx, storage.MinIOConfig{
			Endpoint:  minioCfg.Endpoint,
			AccessKey: minioCfg.AccessKey,
			SecretKey: minioCfg.SecretKey,
			Bucket:    minioCfg.Bucket,
			Prefix:    minioCfg.Prefix,
			UseSSL:    minioCfg.UseSSL,
		})
		if err != nil {
			slog.Error("failed to initialize minio client", "error", err)
			os.Exit(exitcode.SourceError)
		}
	}

	var source extraction.LocationSource
	switch *sourceStr {
	case "args":
		source = extraction.StaticSource(flag.Args())
	case "stdin":
		source = extraction.LineSource{R: os.Stdin}
	case "minio":
		source = minioClient
	default:
		slog.Error("invalid source", "source", *sourceStr)
		fmt.Fprintf(os.Stderr, "Usage: source must be one of args, stdin, minio\n")
		os.Exit(exitcode.ConfigError)
	}

	var reports extraction.ReportStorage
	if *report {
		reports = minioClient
	}

	svc := extraction.NewService(source, reports, policy, *concurrency)
	req := extraction.Request{PlatformInstance: *instance, Environment: env, Date: date}

	code := run(ctx, svc, req, runID, os.Stdout)
	if code == exitcode.Success {
		slog.Info("shutdown complete", "run_id", runID)
	}
	os.Exit(code)
}

// run extracts one batch, writes its identifiers as JSON lines to out and
// returns the process exit code.
func run(ctx context.Context, svc *extraction.Service, req extraction.Request, runID model.RunID, out io.Writer) int {
	result, err := svc.Extract(ctx, req, runID)
	if err != nil {
		slog.Error("extraction failed", "run_id", runID, "error", err)
		return exitCodeFor(err)
	}

	enc := json.NewEncoder(out)
	for _, id := range result.Identifiers {
		if err := enc.Encode(id); err != nil {
			slog.Error("failed to write identifier", "error", err)
			return exitcode.ApplicationError
		}
	}
	return exitcode.Success
}

func exitCodeFor(err error) int {
	var malformed *dataset.MalformedLocationError
	switch {
	case errors.As(err, &malformed):
		return exitcode.DataError
	case errors.Is(err, extraction.ErrSource):
		return exitcode.SourceError
	case errors.Is(err, extraction.ErrStorage):
		return exitcode.StorageError
	default:
		return exitcode.ApplicationError
	}
}
