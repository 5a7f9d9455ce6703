package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/config"
	logpkg "github.com/kailas-cloud/newsbayes/internal/logger"
	"github.com/kailas-cloud/newsbayes/internal/metrics"
	chiTransport "github.com/kailas-cloud/newsbayes/internal/transport/chi"
	"github.com/kailas-cloud/newsbayes/internal/transport/report"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	"github.com/kailas-cloud/newsbayes/internal/version"
)

const usage = "usage: newsbayes [evaluate|serve|version]"

func main() {
	cmd := "evaluate"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Println(version.String())
		return
	case "evaluate", "serve":
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting newsbayes",
		zap.String("command", cmd),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("train_path", cfg.Data.TrainPath),
		zap.String("test_path", cfg.Data.TestPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if cmd == "serve" {
		err = serve(ctx, cfg, logger)
	} else {
		err = evaluate(ctx, cfg, logger)
	}
	if err != nil {
		logger.Fatal("Command failed", zap.String("command", cmd), zap.Error(err))
	}
}

// evaluate trains, evaluates and writes the report. Nothing is written on failure.
func evaluate(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.Data.TestPath == "" {
		return errors.New("data.test_path is required for evaluate")
	}

	writer, err := report.NewWriter(cfg.Report.Format)
	if err != nil {
		return fmt.Errorf("create report writer: %w", err)
	}

	a, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, *a.report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := writeOutput(cfg.Report.Output, buf.Bytes()); err != nil {
		return err
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath, a.registry); err != nil {
			return fmt.Errorf("export metrics: %w", err)
		}
		logger.Info("Metrics exported", zap.String("path", cfg.Metrics.TextfilePath))
	}
	return nil
}

// serve trains, optionally evaluates, and serves the model until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateHTTP(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := chiTransport.NewServer(classificationuc.New(a.model), a.evaluation, a.health(), a.registry, logger)
	r := chiTransport.NewRouter(server, cfg.Auth.APIKeys, a.collector.Middleware())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report is not secret
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
