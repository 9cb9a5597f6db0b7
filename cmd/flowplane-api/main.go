// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/catalog"
	"github.com/daz23456/flowplane/internal/config"
	"github.com/daz23456/flowplane/internal/engine"
	gwconfig "github.com/daz23456/flowplane/internal/gateway/config"
	"github.com/daz23456/flowplane/internal/gateway/handlers"
	"github.com/daz23456/flowplane/internal/gateway/metrics"
	"github.com/daz23456/flowplane/internal/gateway/services"
	"github.com/daz23456/flowplane/internal/gateway/stream"
	"github.com/daz23456/flowplane/internal/logging"
	"github.com/daz23456/flowplane/internal/quality"
	"github.com/daz23456/flowplane/internal/store"
)

func main() {
	flags := pflag.NewFlagSet("flowplane-api", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to the YAML config file")
	printConfig := flags.Bool("print-config", false, "print the effective configuration as YAML and exit")
	flags.Int("port", 0, "port the http server listens on")
	flags.String("definitions", "", "directory holding workflow and task definitions")
	flags.String("namespace", "", "namespace for cluster-loaded definitions")
	_ = flags.Parse(os.Args[1:])

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, loader, err := loadConfig(*configPath, flags)
	if err != nil {
		bootLogger.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if *printConfig {
		if err := loader.DumpYAML(os.Stdout); err != nil {
			bootLogger.Error("Failed to print configuration", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	baseLogger := logging.New(cfg.Logging)
	slog.SetDefault(baseLogger)

	// Create shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cat := catalog.New()
	if err := loadCatalog(ctx, cat, cfg, baseLogger.With("component", "catalog")); err != nil {
		baseLogger.Error("Failed to load definitions", slog.Any("error", err))
		os.Exit(1)
	}
	baseLogger.Info("Catalog loaded",
		slog.Int("workflows", len(cat.Workflows())),
		slog.Int("tasks", len(cat.Tasks())))

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		baseLogger.Error("Failed to open execution store",
			slog.String("path", cfg.Store.Path),
			slog.Any("error", err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	hub := stream.NewHub(baseLogger.With("component", "stream"))

	orch := engine.New(cat, engine.Options{
		Notifier:            engine.MultiNotifier{hub, metrics.NewNotifier(registry)},
		Analyzer:            quality.NewHeuristicAnalyzer(),
		Logger:              baseLogger.With("component", "engine"),
		MaxSubWorkflowDepth: cfg.Engine.MaxSubWorkflowDepth,
	})

	svc := services.NewServices(cat, st, orch, baseLogger)
	handler := handlers.New(svc, hub, registry, baseLogger.With("component", "handlers"))

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		baseLogger.Info("FlowPlane API server listening on", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			baseLogger.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("Server shutdown error", slog.Any("error", err))
	}

	baseLogger.Info("Server stopped gracefully")
}

// loadConfig layers defaults, the optional config file, FP_API environment
// variables, and explicit flag overrides.
func loadConfig(configPath string, flags *pflag.FlagSet) (*gwconfig.Config, *config.Loader, error) {
	if configPath == "" {
		configPath = os.Getenv("FP_API_CONFIG_PATH")
	}

	loader := config.NewLoader("FP_API")
	if err := loader.LoadWithDefaults(gwconfig.Default(), configPath); err != nil {
		return nil, nil, err
	}
	if err := loader.LoadFlags(flags, map[string]string{
		"port":        "server.port",
		"definitions": "catalog.dir",
		"namespace":   "catalog.namespace",
	}); err != nil {
		return nil, nil, err
	}

	var cfg gwconfig.Config
	if err := loader.UnmarshalAndValidate("", &cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, loader, nil
}

// loadCatalog fills the catalog from the configured source.
func loadCatalog(ctx context.Context, cat *catalog.Catalog, cfg *gwconfig.Config, logger *slog.Logger) error {
	switch cfg.Catalog.Source {
	case gwconfig.SourceCluster:
		k8s, err := newClusterClient()
		if err != nil {
			return err
		}
		return catalog.LoadFromCluster(ctx, cat, k8s, cfg.Catalog.Namespace, logger)
	default:
		return catalog.LoadFromDir(cat, cfg.Catalog.Dir, cfg.Catalog.Namespace, logger)
	}
}

// newClusterClient builds a direct client using the ambient kubeconfig or
// in-cluster credentials.
func newClusterClient() (client.Client, error) {
	restCfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, err
	}

	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, err
	}
	if err := workflowv1.AddToScheme(scheme); err != nil {
		return nil, err
	}

	return client.New(restCfg, client.Options{Scheme: scheme})
}
