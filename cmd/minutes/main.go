package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/httpapi"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/metrics"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/tokenizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
	"github.com/nguyentantai21042004/meeting-minutes/internal/watcher"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const usage = `Usage: minutes <command> [flags]

Commands:
  run <file>...   summarize transcript files and print the results
  watch           process every transcript that appears in the input folder
  serve           serve the HTTP API

Flags:
  -config string  path to config.yaml (default "config.yaml")
  -env string     path to a .env file (default ".env")
`

// pipeline holds everything a command needs
type pipeline struct {
	cfg      *config.Config
	log      logger.Logger
	proc     processor.Processor
	registry *prometheus.Registry
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	fset := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fset.String("config", "config.yaml", "path to config.yaml")
	envPath := fset.String("env", ".env", "path to a .env file")
	fset.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fset.Parse(os.Args[2:])

	var run func(ctx context.Context, p *pipeline, args []string) error
	switch cmd {
	case "run":
		run = runFiles
	case "watch":
		run = watch
	case "serve":
		run = serve
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	// Secrets may also come from the real environment
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envPath, err)
		os.Exit(1)
	}

	p, err := setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.log.Info(ctx, "Shutdown signal received")
		cancel()
	}()

	if err := run(ctx, p, fset.Args()); err != nil && !errors.Is(err, context.Canceled) {
		p.log.Error(ctx, "%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the pipeline. Configuration problems,
// including an unknown tokenizer model, surface here before any network call.
func setup(configPath string) (*pipeline, error) {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Provider: %s (model %s)", cfg.Completion.Provider, cfg.Completion.Model)
	log.Info(ctx, "Chunking: max %d by %s, format %s", cfg.Chunking.MaxSize, cfg.Chunking.Policy, cfg.Chunking.Format)
	log.Info(ctx, "Max Concurrent Completions: %d", cfg.Performance.MaxConcurrent)

	est, err := tokenizer.New(cfg.Chunking.Policy, cfg.Completion.Model)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	client, err := completion.New(cfg, executor.New(), log)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	sum := summarizer.New(m.Instrument(client), summarizer.OptionsFromConfig(cfg), log)
	proc := processor.New(cfg, est, sum, m, log)

	return &pipeline{cfg: cfg, log: log, proc: proc, registry: registry}, nil
}

// runFiles summarizes each file in turn, prints both blocks and writes reports
func runFiles(ctx context.Context, p *pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("run: no transcript file given")
	}

	for _, path := range args {
		text, err := transcript.ReadFile(path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		display := func(ctx context.Context, m *summarizer.Minutes) error {
			if len(args) > 1 {
				fmt.Printf("== %s ==\n\n", m.Source)
			}
			fmt.Print(report.Text(m))
			return p.proc.WriteReports(ctx, m)
		}

		if _, err := p.proc.Run(ctx, name, text, display); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func watch(ctx context.Context, p *pipeline, _ []string) error {
	if err := ensureDirectories(p.cfg); err != nil {
		return err
	}

	w, err := watcher.New(p.cfg.Paths.Input, p.proc.Process, p.log, p.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	p.log.Info(ctx, "========================================")
	p.log.Info(ctx, "Minutes watcher is ready!")
	p.log.Info(ctx, "Monitoring: %s", p.cfg.Paths.Input)
	p.log.Info(ctx, "Output: %s", p.cfg.Paths.Output)
	p.log.Info(ctx, "Archive: %s", p.cfg.Paths.Archived)
	p.log.Info(ctx, "Press Ctrl+C to stop")
	p.log.Info(ctx, "========================================")

	err = w.Start(ctx)
	p.log.Info(ctx, "Minutes watcher stopped")
	return err
}

func serve(ctx context.Context, p *pipeline, _ []string) error {
	srv := httpapi.New(p.proc, p.registry, p.log, 0)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Listen(p.cfg.Server.Addr)
	}()

	p.log.Info(ctx, "HTTP API listening on %s", p.cfg.Server.Addr)

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	p.log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), p.cfg.Completion.Timeout()+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	p.log.Info(ctx, "HTTP API stopped")
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
