package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/52poke/kura/internal/config"
	"github.com/52poke/kura/internal/http"
	"github.com/52poke/kura/internal/logging"
	"github.com/52poke/kura/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	handler := httpx.NewHandler(store, logger, cfg.MaxBodyBytes)
	handler.StrictReads = cfg.StrictReads

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.WithField("mode", store.Mode().String()).Infof("listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
