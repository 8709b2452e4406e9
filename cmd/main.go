package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"drainwatch/internal/agent"
	"drainwatch/internal/api"
	"drainwatch/internal/classifier"
	"drainwatch/internal/composer"
	"drainwatch/internal/config"
	"drainwatch/internal/kafka"
	"drainwatch/internal/logging"
	"drainwatch/internal/router"
	"drainwatch/internal/surface"
	"drainwatch/internal/views"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed:", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}

	// The view hub is always running: it tracks open dashboard tabs and
	// answers focus/open/claim directives even when alerts render
	// elsewhere.
	hub := views.NewHub(logger)

	// Pick the notification surface
	var surf agent.Surface = hub
	if cfg.Surface.Kind == "telegram" {
		tg, err := surface.NewTelegram(cfg, logger)
		if err != nil {
			logger.Errorf("Telegram surface init failed: %v", err)
			log.Fatal("Telegram surface init failed:", err)
		}
		surf = tg
	}
	logger.Infof("Notification surface: %s", cfg.Surface.Kind)

	// Assemble the delivery agent and walk it to active
	ag := agent.New(classifier.New(logger), composer.New(cfg.Dashboard.URL), surf, hub, logger)
	ctx, cancel := context.WithCancel(context.Background())
	if err := ag.Install(ctx); err != nil {
		log.Fatal("Agent install failed:", err)
	}
	if err := ag.Activate(ctx); err != nil {
		log.Fatal("Agent activate failed:", err)
	}

	// Interaction routing back to views
	rt := router.New(hub, hub, logger)

	// Start Kafka consumer
	var wg sync.WaitGroup
	consumer := kafka.NewConsumer(cfg, ag, logger)
	consumer.Start(ctx, &wg)

	// Start API server
	h := api.NewHandler(ag, rt, hub, logger)
	r := api.NewRouter(h, logger)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := r.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	consumer.Close()
	wg.Wait()
	ag.Drain()
	hub.CloseAll()
	logger.Infof("Service stopped")
}
