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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/api"
	"github.com/csheth/indicure/internal/config"
	"github.com/csheth/indicure/internal/logger"
)

const shutdownGrace = 5 * time.Second

var (
	addrFlag   string
	originFlag []string
)

var rootCmd = &cobra.Command{
	Use:   "indicure-api",
	Short: "Serve the IndiCure report API",
	Long:  `indicure-api renders the Ranolazine → HFpEF report as JSON and PDF for the terminal client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addrFlag
		}
		if cmd.Flags().Changed("origin") {
			cfg.Server.AllowedOrigins = originFlag
		}
		level, _ := cfg.Log.ZapLevel()
		log := logger.NewStderr(level)
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg.Server, log)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "indicure-api:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (default from config, 127.0.0.1:8000)")
	rootCmd.Flags().StringSliceVar(&originFlag, "origin", nil, "allowed CORS origin, repeatable")
}

// serve runs the API until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) error {
	handler := api.NewServer(
		api.WithLogger(log.Named("api")),
		api.WithAllowedOrigins(cfg.AllowedOrigins...),
	).Handler()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.Strings("origins", cfg.AllowedOrigins))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
