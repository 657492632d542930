// Package main is the Asha CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/asha-ai/asha/internal/analytics"
	"github.com/asha-ai/asha/internal/answer"
	"github.com/asha-ai/asha/internal/bias"
	"github.com/asha-ai/asha/internal/config"
	"github.com/asha-ai/asha/internal/embedding"
	"github.com/asha-ai/asha/internal/llm"
	"github.com/asha-ai/asha/internal/models"
	"github.com/asha-ai/asha/internal/pipeline"
	"github.com/asha-ai/asha/internal/profile"
	"github.com/asha-ai/asha/internal/records"
	"github.com/asha-ai/asha/internal/server"
	"github.com/asha-ai/asha/internal/storage"
	"github.com/asha-ai/asha/internal/store"
	"github.com/asha-ai/asha/internal/watcher"
	"github.com/asha-ai/asha/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/asha/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "asha server" from the project dir picks up the
// project's config. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "rebuild":
		runRebuild()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("asha version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components bundles everything the subcommands need.
type Components struct {
	Storage   storage.Storage
	Embedder  embedding.Embedder
	Generator llm.Generator
	Records   *records.Store
	Content   *store.Store
	Events    *analytics.Log
	Pipeline  *pipeline.Pipeline
}

// Close releases resources in reverse dependency order.
func (c *Components) Close() {
	if c.Events != nil {
		c.Events.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ctx := context.Background()
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	sqlStore, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Without a Gemini API key the service runs in degraded mode: embeddings
	// come from the deterministic mock, bias checks fall back to keywords,
	// and answers fall back to fixed messages.
	var embedder embedding.Embedder
	geminiEmbedder, err := embedding.NewGeminiEmbedder(ctx, cfg.Gemini.EmbeddingModel,
		cfg.Gemini.Dimensions, timeout, cfg.Gemini.CacheSize)
	if err != nil {
		logger.Warn("gemini embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Gemini.Dimensions)
	} else {
		embedder = geminiEmbedder
	}

	var generator llm.Generator
	geminiGenerator, err := llm.NewGeminiGenerator(ctx, cfg.Gemini.Model, cfg.Gemini.ClassifierModel, timeout)
	if err != nil {
		logger.Warn("gemini generator unavailable, running degraded", zap.Error(err))
		generator = &llm.MockGenerator{}
	} else {
		generator = geminiGenerator
	}

	rec, err := records.NewStore(cfg.Storage.DataDir, cfg.Storage.FeedbackDir)
	if err != nil {
		_ = sqlStore.Close()
		return nil, fmt.Errorf("failed to initialize records: %w", err)
	}

	events, err := analytics.NewLog(cfg.Storage.AnalyticsDir, logger)
	if err != nil {
		_ = sqlStore.Close()
		return nil, fmt.Errorf("failed to initialize analytics: %w", err)
	}

	content := store.New(embedder, sqlStore, rec, cfg.Storage.VectorIndexPath, logger)
	profiles := profile.NewFileStore(cfg.Storage.DataDir)
	biasFilter := bias.NewFilter(generator, logger)
	answers := answer.NewGenerator(generator, logger)
	pipe := pipeline.New(biasFilter, content, answers, profiles, events,
		cfg.Retrieval.DefaultLimit, logger)

	return &Components{
		Storage:   sqlStore,
		Embedder:  embedder,
		Generator: generator,
		Records:   rec,
		Content:   content,
		Events:    events,
		Pipeline:  pipe,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Serve from the persisted index when one exists; otherwise build in the
	// background while the API answers retrieval with 503.
	if err := components.Content.LoadIndex(); err != nil {
		logger.Warn("vector index load skipped", zap.Error(err))
	}
	if !components.Content.Ready() {
		go func() {
			if err := components.Content.Rebuild(context.Background()); err != nil {
				logger.Error("initial index build failed", zap.Error(err))
			}
		}()
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		watchFiles := []string{
			filepath.Base(components.Records.JobsPath()),
			filepath.Base(components.Records.SessionsPath()),
		}
		watchSvc := watcher.NewWatcher(
			cfg.Storage.DataDir,
			watchFiles,
			time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
			func() {
				if err := components.Content.Rebuild(context.Background()); err != nil {
					logger.Warn("watch rebuild failed", zap.Error(err))
				}
			},
			logger,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Pipeline,
		components.Content,
		components.Records,
		components.Events,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runRebuild() {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	started := time.Now()
	if err := components.Content.Rebuild(context.Background()); err != nil {
		logger.Fatal("Rebuild failed", zap.Error(err))
	}
	fmt.Printf("Rebuilt index with %d documents in %s\n",
		components.Content.IndexSize(), time.Since(started).Round(time.Millisecond))
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	language := fs.String("language", "English", "response language")
	topicFlag := fs.String("topic", "", "topic hint: career, session, or empty")
	_ = fs.Parse(os.Args[2:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: asha chat [flags] <question>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.Content.LoadIndex(); err != nil || !components.Content.Ready() {
		if err := components.Content.Rebuild(context.Background()); err != nil {
			logger.Fatal("Failed to build index", zap.Error(err))
		}
	}

	resp, err := components.Pipeline.Chat(context.Background(), &models.ChatRequest{
		Query:    query,
		Language: *language,
		Topic:    *topicFlag,
	})
	if err != nil {
		logger.Fatal("Chat failed", zap.Error(err))
	}
	fmt.Println(resp.Response)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.Content.LoadIndex(); err != nil {
		logger.Warn("vector index load skipped", zap.Error(err))
	}

	docCount, err := components.Storage.CountDocuments(context.Background())
	if err != nil {
		logger.Fatal("Failed to count documents", zap.Error(err))
	}
	jobs, _ := components.Records.Jobs()
	sessions, _ := components.Records.Sessions()

	status := map[string]interface{}{
		"documents":         docCount,
		"jobs":              len(jobs),
		"sessions":          len(sessions),
		"vector_index_size": components.Content.IndexSize(),
		"retrieval_ready":   components.Content.Ready(),
		"database_path":     cfg.Storage.DatabasePath,
		"data_dir":          cfg.Storage.DataDir,
	}
	if *output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
		return
	}
	fmt.Printf("Documents:        %d\n", docCount)
	fmt.Printf("Jobs:             %d\n", len(jobs))
	fmt.Printf("Sessions:         %d\n", len(sessions))
	fmt.Printf("Index size:       %d\n", components.Content.IndexSize())
	fmt.Printf("Retrieval ready:  %v\n", components.Content.Ready())
	fmt.Printf("Database path:    %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("Data dir:         %s\n", cfg.Storage.DataDir)
}

func printUsage() {
	fmt.Println(`asha - Career guidance chat service

Usage:
  asha server [flags]            Start the HTTP server
  asha rebuild [flags]           Rebuild the retrieval index from data files
  asha chat [flags] <question>   Ask a single question from the terminal
  asha status [flags]            Show storage and index status
  asha version                   Show version
  asha help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/asha/config.yaml)
  --debug            Enable debug logging

Chat Flags:
  --config string    Config file path
  --language string  Response language (default: English)
  --topic string     Topic hint: career, session, or empty

Status Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

The Gemini API key is read from the GEMINI_API_KEY environment variable.
Without it the service runs degraded: deterministic mock embeddings,
keyword-only bias checks, and fixed fallback answers.

Examples:
  asha server
  asha rebuild
  asha chat "How do I prepare for a product management interview?"
  asha chat --topic career "Any QA openings in Pune?"
  asha status --output json`)
}
