package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/bia/internal/cache"
	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/config"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/logging"
	"github.com/rgehrsitz/bia/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP",
	Long: `Start the HTTP API. Settings come from the environment, after loading
.env files if present:

  BIA_ADDR            listen address (default :8080)
  BIA_POPULATION      population sample file (.json or .csv)
  BIA_DATABASE_URL    postgres DSN used instead of BIA_POPULATION
  BIA_REDIS_ADDR      redis address for the projection cache (default in-memory)
  BIA_REDIS_PASSWORD  redis password
  BIA_CACHE_TTL       redis entry lifetime (default 1h)
  BIA_CACHE_SIZE      in-memory cache entries (default 1024)
  LOG_LEVEL           debug, info, warn or error (default info)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BIA_ADDR)")
	serveCmd.Flags().StringArray("env-file", nil, "Env file to load (repeatable, default .env)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	envFiles, _ := cmd.Flags().GetStringArray("env-file")
	settings, err := config.LoadSettings(envFiles...)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		settings.Addr = addr
	}

	log := logging.New(os.Stderr, settings.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sample, err := loadSample(ctx, domain.PopulationSource{
		Path:        settings.PopulationPath,
		DatabaseURL: settings.DatabaseURL,
	})
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx, settings, log)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := calculation.NewProjectionEngine()
	engine.SetLogger(logging.NewEngineLogger(log))

	srv := server.New(engine, store, sample, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(settings.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newStore picks redis when an address is configured, otherwise memory.
func newStore(ctx context.Context, settings *config.Settings, log *logrus.Logger) (cache.Store, func(), error) {
	if settings.RedisAddr == "" {
		log.WithField("limit", settings.CacheSize).Info("using in-memory projection cache")
		return cache.NewMemoryStore(settings.CacheSize), func() {}, nil
	}

	client, err := cache.DialRedis(ctx, settings.RedisAddr, settings.RedisPassword, 0)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{"addr": settings.RedisAddr, "ttl": settings.CacheTTL.String()}).Info("using redis projection cache")
	return cache.NewRedisStore(client, settings.CacheTTL), func() { _ = client.Close() }, nil
}
