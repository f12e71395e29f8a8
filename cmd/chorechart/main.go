package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/chorechart/internal/archive"
	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/config"
	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/email"
	"github.com/dukerupert/chorechart/internal/logging"
	"github.com/dukerupert/chorechart/internal/server"
	"github.com/google/uuid"
)

func main() {
	issue := flag.Bool("issue-token", false, "print a bearer token for -email and exit")
	issueEmail := flag.String("email", "", "email address for -issue-token")
	issueTTL := flag.Duration("ttl", 30*24*time.Hour, "lifetime of an issued token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	tokens := auth.NewTokens(cfg.JWTSecret)
	if *issue {
		if err := issueToken(tokens, *issueEmail, *issueTTL); err != nil {
			logger.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("postmark token not set; chart emails are disabled")
	}

	archiver := archive.New(archive.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}, cfg.ArchiveKeep, logger.With("component", "archive"))
	if !archiver.Configured() {
		logger.Warn("s3 bucket not configured; chart archives are disabled")
	}
	if !tokens.Enabled() {
		logger.Warn("jwt secret not set; every chart is anonymous")
	}

	srv := server.New(db, emailClient, archiver, tokens, server.Options{
		EmailPerHour:   cfg.EmailPerHour,
		AllowedOrigins: cfg.AllowedOrigin,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go srv.RateLimiter().Run(ctx, 10*time.Minute)

	// No WriteTimeout: websocket connections stay open and set their own
	// per-write deadlines.
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("chorechart running", "addr", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// issueToken prints a token for a new user id. Keep the id: charts created
// with the token belong to it.
func issueToken(tokens *auth.Tokens, addr string, ttl time.Duration) error {
	if addr == "" {
		return errors.New("-email is required with -issue-token")
	}
	userID := uuid.NewString()
	token, err := tokens.Issue(userID, addr, ttl)
	if err != nil {
		return err
	}
	fmt.Printf("user_id=%s\ntoken=%s\n", userID, token)
	return nil
}
