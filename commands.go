package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penjahit-backend/config"
	"penjahit-backend/routes"
	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateOnServe bool
	shutdownWait   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "penjahit",
	Short: "Tailoring shop order management API",
	Long: `Backend for a tailoring shop: customers and their measurements, the garment
catalogue, orders with status tracking, and the payment ledger.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
			if err := config.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("database migrated")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default admin user and garment catalogue",
	Long: `Insert the default admin user (admin / admin123), the nine starter garment
types and their measurement templates. Existing rows are kept, so the command
is safe to run more than once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
			if err := config.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return services.Seed(cmd.Context(), db, logger)
		})
	},
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Print a random value for JWT_SECRET",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateJWTSecret())
	},
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&migrateOnServe, "migrate", true, "Run AutoMigrate before serving")
		cmd.Flags().DurationVar(&shutdownWait, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
	}
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, secretCmd)
}

// withDB loads configuration, opens the database and hands both to fn.
func withDB(fn func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		return errors.New("DB_URL not set")
	}
	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(cfg, logger, db)
}

func runServe(cmd *cobra.Command, args []string) error {
	return withDB(func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if migrateOnServe {
			if err := config.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		var messenger services.Messenger = services.NewLogMessenger(logger)
		if cfg.TwilioEnabled() {
			messenger = services.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
		} else {
			logger.Warn("twilio not configured, notifications are only logged")
		}
		notifications := services.NewNotificationService(db, messenger, cfg.ShopName, logger)

		if cfg.PickupReminderCron != "" {
			scheduler, err := notifications.StartScheduler(cfg.PickupReminderCron, cfg.PickupReminderDays)
			if err != nil {
				return err
			}
			defer scheduler.Stop()
		}

		r := routes.SetupRouter(routes.Dependencies{
			Config:        cfg,
			Logger:        logger,
			DB:            db,
			Tokens:        utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
			Notifications: notifications,
		})
		printRoutes(r, logger)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
