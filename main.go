package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipeapi/internal/app"
	"recipeapi/internal/config"
	"recipeapi/internal/database"
	"recipeapi/internal/logger"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
	"recipeapi/internal/storage"
	"recipeapi/pkg/rabbitmq"
	"recipeapi/pkg/s3store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "recipeapi",
		Short:        "Recipe management API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateSuperuserCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			defer database.Close(db)

			log.Info("schema is up to date")
			return nil
		},
	}
}

func newCreateSuperuserCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account with staff and superuser rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			defer database.Close(db)

			store := repositories.NewGORMStore(db)
			authService := services.NewAuthService(store.Users(), cfg.JWTSecret, cfg.TokenTTL, log)
			user, err := authService.CreateSuperuser(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address of the new superuser")
	cmd.Flags().StringVar(&password, "password", "", "password of the new superuser")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// bootstrap loads configuration, builds the logger and opens the migrated
// database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Error("failed to open database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runServe(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer database.Close(db)

	if ctx == nil {
		ctx = context.Background()
	}

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise image storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
		return err
	}

	opts := app.Options{
		Store:         repositories.NewGORMStore(db),
		Images:        images,
		Exchange:      rabbitmq.RecipeExchange,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		MaxImageBytes: cfg.MaxImageBytes,
		AccessLog:     true,
		Logger:        log,
	}
	if cfg.StorageBackend == "local" {
		opts.MediaRoot = cfg.MediaRoot
		opts.MediaURL = cfg.MediaURL
	}

	// Events are optional; leave Publisher nil rather than a typed nil client.
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: log})
		if err != nil {
			log.Error("failed to initialise RabbitMQ client", zap.Error(err))
			return err
		}
		defer mqClient.Close()
		opts.Publisher = mqClient
	}

	fiberApp, _ := app.New(opts)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort))
		serveErr <- fiberApp.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serveErr:
		log.Error("server failed", zap.Error(err))
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warn("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
	return nil
}

func newImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ImageStore, error) {
	if cfg.StorageBackend == "s3" {
		return s3store.NewClient(ctx, s3store.Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UseSSL:          cfg.S3.UseSSL,
			Logger:          log,
		})
	}
	return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
}
