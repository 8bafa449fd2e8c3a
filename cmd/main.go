package main

import (
	"Appointo/cache"
	"Appointo/config"
	"Appointo/database"
	"Appointo/logger"
	"Appointo/routes"
	"Appointo/services"
	"Appointo/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "appointo"

func main() {
	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Hospital appointment booking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DBURL, cfg.IsDev())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

// loadConfig reads the configuration and sets up the global logger.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, "production")
		log.Error().Err(err).Msg("failed to load configuration")
		return nil, err
	}
	logger.Init(serviceName, cfg.Env)
	return cfg, nil
}

func runServer(cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the database
	db, err := database.InitDB(ctx, cfg.DBURL, cfg.IsDev())
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		return err
	}
	defer func() { _ = database.Close(db) }()

	// Redis backs the cache and the admission lock when configured
	var redisClient *redis.Client
	var locker database.Locker = database.NewKeyedLocker()
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, database.DefaultRedisConfig(cfg.RedisURL))
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize Redis client")
			return err
		}
		defer func() { _ = redisClient.Close() }()
		locker = database.NewRedisLocker(redisClient, cfg.AdmissionLockTTL)
	} else {
		log.Warn().Msg("REDIS_URL not set, caching disabled and admission locks are process local")
	}

	var notifier services.Notifier
	mailer := utils.NewMailer(utils.MailConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})
	if mailer != nil {
		mailCtx, cancelMail := context.WithCancel(context.Background())
		defer cancelMail()
		mailer.Start(mailCtx)
		defer mailer.Close()
		notifier = mailer
	}

	handler, err := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		DB:       db,
		Cache:    cache.NewCache(redisClient),
		Locker:   locker,
		Notifier: notifier,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to set up routes")
		return err
	}

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	serveErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		log.Error().Err(err).Msg("server failed")
		return err
	case <-ctx.Done():
	}

	// Create a context with a timeout for shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	wg.Wait()
	log.Info().Msg("server exited gracefully")
	return nil
}
