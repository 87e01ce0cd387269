// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/logger"
	"github.com/danielhkuo/livepoll/polls"
	"github.com/danielhkuo/livepoll/router"
	"github.com/danielhkuo/livepoll/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; flags and the real environment still apply.
	envErr := godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error configuring logger:", err)
		os.Exit(1)
	}
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("Could not load .env")
	}

	// Open storage
	backend, err := store.Open(store.Options{
		Kind:        cfg.Storage,
		DataDir:     cfg.DataDir,
		ResultsDir:  cfg.ResultsDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("Storage unavailable")
	}
	defer backend.Close()

	// Wire components. Manager and Migrator share one lock table.
	locks := polls.NewLocks()
	archiver := archive.New(backend)
	manager := polls.NewManager(backend, archiver, locks, polls.Options{
		AutoActivateFirstPoll: cfg.AutoActivateFirstPoll,
	})
	creds := auth.NewCredentials(backend)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	gateway := auth.NewGateway(creds, sessions, polls.NewMigrator(creds, backend, locks))

	server := http.Server{
		Handler: router.NewHandler(router.Deps{
			Gateway:    gateway,
			Manager:    manager,
			Archiver:   archiver,
			SessionTTL: cfg.SessionTTL,
			IPSalt:     cfg.SessionSecret,
		}),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ctrlc
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
			server.Close()
		}
	}()

	// Start server
	log.Info().Int("port", cfg.Port).Str("storage", cfg.Storage).Msg("Listening")
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Server closed")
	} else {
		log.Info().Msg("Server closed")
	}
}
