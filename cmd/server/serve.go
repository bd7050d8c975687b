package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/identity"
	"inkwell/internal/logging"
	"inkwell/internal/metrics"
	"inkwell/internal/router"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, found := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg, found)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(parent context.Context, cfg config.Config, envFound bool) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if !envFound {
		logger.Info("No .env file found, using environment variables")
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warnw("close store", "error", err)
		}
	}()

	m := metrics.New()
	store.Subscribe(m.Observe)
	m.Posts.Set(float64(len(store.List())))

	renderer, err := utils.NewRenderer(cfg.RenderCacheSize, cfg.RenderCacheTTL)
	if err != nil {
		return err
	}

	mail := services.NewMailService(services.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		SiteURL:  cfg.SiteURL,
	}, logger)

	google := identity.NewGoogleAuthenticator(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.SiteURL)
	if !google.Configured() {
		logger.Warn("Google OAuth not configured, /auth/login is disabled")
	}
	if cfg.DevLogin {
		logger.Warn("DEV_LOGIN enabled, anyone can sign in through /auth/dev/login")
	}

	gin.SetMode(cfg.GinMode)
	engine := router.New(router.Deps{
		Store:         store,
		Newsletter:    services.NewNewsletter(mail),
		Renderer:      renderer,
		Google:        google,
		Metrics:       m,
		Logger:        logger,
		SiteURL:       cfg.SiteURL,
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  strings.HasPrefix(cfg.SiteURL, "https://"),
		DevLogin:      cfg.DevLogin,
		CommentRate:   cfg.CommentRate,
		CommentBurst:  cfg.CommentBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("Inkwell server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
