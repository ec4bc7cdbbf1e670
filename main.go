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

	"github.com/parceldirect/consign/internal/auth"
	"github.com/parceldirect/consign/internal/db"
	"github.com/parceldirect/consign/internal/label"
	"github.com/parceldirect/consign/internal/server"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "consign",
	Short:   "ParcelDirect consignment service - parcel intake and label generation",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the consignment REST server",
	RunE:  runServe,
}

var tokenCmd = &cobra.Command{
	Use:   "token <account_no>",
	Short: "Issue a signed bearer token for an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var tokenTTL time.Duration

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.TokenExpiry,
		"lifetime of the issued token")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	// Open storage
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("preparing schema: %w", err)
	}

	// External service clients
	accountsClient := initAccountsClient(cfg, logger, tracer)
	depotClient := initDepotClient(cfg, logger, tracer)

	logger.Info("Starting ParcelDirect consignment service",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
	)

	srv := server.New(server.Config{Port: cfg.Port}, server.Deps{
		DB:       database,
		Accounts: accountsClient,
		Depot:    depotClient,
		Labels:   label.NewRenderer(cfg.LabelDir),
		Verifier: initVerifier(cfg),
		Logger:   logger,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accountNo := args[0]
	token, err := initVerifier(cfg).GenerateToken(accountNo, tokenTTL)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
