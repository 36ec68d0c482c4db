// Command spotr-mock-api serves the Spotr REST API from the mock data
// directory so the MCP server can run against it in HTTP mode.
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

	"github.com/fatih/color"
	"github.com/misfitdev/spotr-mcp/pkg/config"
	"github.com/misfitdev/spotr-mcp/pkg/logging"
	"github.com/misfitdev/spotr-mcp/pkg/mockapi"
	"github.com/misfitdev/spotr-mcp/pkg/mockstore"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, addr string

	cmd := &cobra.Command{
		Use:           "spotr-mock-api",
		Short:         "Serve the Spotr REST API from local mock data",
		Version:       config.ServerVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return &config.ConfigurationError{Err: err}
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.MockAPIAddr = addr
			}
			if cfg.APIKey == "" {
				return &config.ConfigurationError{Missing: []string{"SPOTR_API_KEY"}}
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default spotr.yaml in . or $HOME/.config/spotr)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default SPOTR_MOCK_API_ADDR or "+config.DefaultMockAPIAddr+")")
	return cmd
}

func serve(cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel)

	store, err := mockstore.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("open mock store: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.MockAPIAddr,
		Handler:      mockapi.NewRouter(store, cfg.APIKey, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock API listening", "addr", cfg.MockAPIAddr, "dir", store.Dir())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down mock API")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
