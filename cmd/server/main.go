// Package main provides the entry point for the simulation API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baedea/brainfin/internal/api"
	"github.com/baedea/brainfin/internal/config"
	"github.com/baedea/brainfin/internal/database"
	"github.com/baedea/brainfin/internal/logger"
	"github.com/baedea/brainfin/internal/metrics"
	"github.com/baedea/brainfin/internal/repository"
	"github.com/baedea/brainfin/internal/scheduler"
	"github.com/baedea/brainfin/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if cfg.AWS.SecretsEnabled || os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := cfg.AWS.Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		secretName := cfg.AWS.SecretName
		if secretName == "" {
			secretName = os.Getenv("AWS_SECRET_NAME")
		}
		if region == "" || secretName == "" {
			log.Fatalf("AWS region and secret name must be set when the secrets overlay is enabled")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("BrainFin simulation service starting")

	// Initialize database connection and schema
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Initialize(ctx, cfg)
	cancel()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repository, cache and service
	repo := repository.NewPostgresSimulationRepository(db)
	cache := service.NewRecordCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	svc := service.NewSimulationService(repo, cache, appLog, cfg.Simulation.MaxMonteCarloTrials)

	// Metrics server on its own port
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server listening")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Retention sweeper
	if cfg.Retention.Enabled {
		sched := scheduler.NewScheduler(repo, appLog)
		if err := sched.ScheduleRetentionSweep(cfg.Retention.Schedule, cfg.Retention.MaxAgeDays); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule retention sweep")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Failed to stop scheduler")
			}
		}()
	}

	// API server blocks until shutdown signal
	server := api.NewServer(cfg, svc, db, appLog)
	if err := server.ListenAndServe(); err != nil {
		appLog.WithError(err).Fatal("API server failed")
	}

	appLog.Info("BrainFin simulation service stopped")
}
