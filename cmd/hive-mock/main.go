package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/hive/internal/config"
	"github.com/me/hive/internal/hivetest"
	"github.com/me/hive/internal/logging"
)

func main() {
	cfg, err := config.LoadMockServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.Secret, "secret", cfg.Secret, "JWT signing key")
	flag.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Create demo accounts and content")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "Access token lifetime")
	registerToken := flag.Bool("register-token", false, "Return a token from /auth/register")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	opts := []hivetest.Option{hivetest.WithTokenTTL(*tokenTTL)}
	if cfg.Secret != "" {
		opts = append(opts, hivetest.WithSecret([]byte(cfg.Secret)))
	}
	if *registerToken {
		opts = append(opts, hivetest.WithRegisterToken())
	}
	srv := hivetest.New(logger, opts...)
	if cfg.Seed {
		if err := srv.Seed(); err != nil {
			fmt.Fprintf(os.Stderr, "seed: %v\n", err)
			os.Exit(1)
		}
		logger.Info("demo data ready",
			"user", hivetest.DemoUser,
			"moderator", hivetest.DemoModerator,
			"admin", hivetest.DemoAdmin)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock API starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
