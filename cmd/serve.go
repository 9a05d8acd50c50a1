package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/endpoint"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, logger, db, err := openDatabase()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWTSECRET must be set in production")
	}
	util.SetJWTSecret(cfg.JWTSecret)

	if !cfg.IsProduction() {
		if err := migrate(db); err != nil {
			return err
		}
	}

	if _, err := config.ConnectRedis(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using database sessions and local rate limits")
	}
	defer func() {
		if err := config.CloseRedis(); err != nil {
			logger.Warn().Err(err).Msg("closing redis")
		}
	}()
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip database not loaded")
	}
	defer util.CloseGeoIP()

	securityLog := util.InitSecurityLogger(cfg.SecurityLogFile)
	defer securityLog.Close()
	util.SetSecurityLoggerDB(db)
	util.InitUserEmailCache(cfg.UserEmailCacheSize)

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           endpoint.NewRouter(db, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
