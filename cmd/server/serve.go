package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/church-network-api/internal/config"
	"github.com/yukikurage/church-network-api/internal/database"
	"github.com/yukikurage/church-network-api/internal/handlers"
	"github.com/yukikurage/church-network-api/internal/middleware"
)

func newServeCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logrus.StandardLogger()
			configureLogger(logger, cfg)

			// Set Gin mode
			gin.SetMode(cfg.GinMode)

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if !skipMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}

			store, err := newSessionStore(cfg)
			if err != nil {
				return err
			}

			opts := handlers.RouterOptions{
				DB:           db,
				Logger:       logger,
				SessionStore: store,
			}
			if cfg.MetricsEnabled {
				registry := prometheus.NewRegistry()
				registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				opts.Metrics = middleware.NewMetrics(registry)
				opts.MetricsPath = cfg.MetricsPath
				opts.MetricsHandler = middleware.Handler(registry)
			}

			router := handlers.NewRouter(opts)

			logger.WithField("addr", cfg.HTTPAddr).Info("Server starting")
			if err := router.Run(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run migrations before serving")
	return cmd
}

// newSessionStore builds the session backend selected by SESSION_STORE.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.SessionStore == "cookie" {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		return store, nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis store: %w", err)
	}
	store.Options(options)
	return store, nil
}
