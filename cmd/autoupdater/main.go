package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/api"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/config"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/ipify"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/linode"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/logger"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/notify"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/scheduler"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Error().Err(err).Msg("Invalid LOG_LEVEL, using info")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize Linode client (or file shim for testing)
	var client linode.FirewallClient
	if cfg.UseFileShim() {
		log.Info().Str("path", cfg.Linode.FileShim).Msg("Using file shim for Linode API")
		client = linode.NewFileShim(cfg.Linode.FileShim)
	} else {
		client = linode.New(cfg.Linode.Token, cfg.Linode.URL)
	}

	mailer, err := notify.NewMailer(notify.MailerConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.User,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		ToName:    cfg.Email.ToName,
		ToEmail:   cfg.Email.ToEmail,
		ProxyURL:  cfg.Email.ProxyURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mailer")
	}

	updater := service.NewUpdaterService(
		ipify.New(cfg.Lookup.URL, nil),
		client,
		mailer,
		service.Options{
			FirewallIDs:         cfg.Linode.FirewallIDs,
			LabelName:           cfg.Linode.LabelName,
			NotifyOnLookupError: cfg.Lookup.NotifyOnError,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *http.Server
	if cfg.Server.Enabled {
		server = &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      api.NewRouter(updater),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		log.Info().Msgf("Starting status server on http://%s", cfg.Server.Addr())

		// Start server in goroutine
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Server failed")
			}
		}()
	}

	log.Info().
		Strs("firewall_ids", cfg.Linode.FirewallIDs).
		Str("label", cfg.Linode.LabelName).
		Dur("interval", cfg.Scheduler.Interval).
		Msg("Starting Linode Firewall Autoupdater")

	err = scheduler.Run(ctx, cfg.Scheduler.Interval, cfg.Scheduler.RunOnStart, func(ctx context.Context) {
		updater.RunPass(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Scheduler stopped")
	}

	log.Info().Msg("Shutting down...")

	if server != nil {
		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			os.Exit(1)
		}
	}

	log.Info().Msg("Stopped")
}
