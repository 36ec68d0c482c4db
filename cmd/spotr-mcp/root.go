package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/misfitdev/spotr-mcp/pkg/config"
	"github.com/misfitdev/spotr-mcp/pkg/logging"
	"github.com/misfitdev/spotr-mcp/pkg/mockstore"
	"github.com/misfitdev/spotr-mcp/pkg/registry"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
	"github.com/misfitdev/spotr-mcp/router"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	envFile    string
	mock       bool
	logLevel   string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "spotr-mcp",
		Short:         "Model Context Protocol server for the Spotr fitness-coaching platform",
		Version:       config.ServerVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default spotr.yaml in . or $HOME/.config/spotr)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.BoolVar(&opts.mock, "mock", false, "serve from the local mock data directory instead of the Spotr API")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve MCP over stdin/stdout (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), opts, stdin, stdout, stderr)
			},
		},
		newToolsCmd(opts),
		newInspectCmd(),
	)
	return root
}

// loadConfig reads the dotenv file, the environment and the config file,
// applies flag overrides and validates the result.
func loadConfig(opts *options) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.mock {
		cfg.MockMode = true
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openBackend(cfg *config.Config) (spotr.Backend, error) {
	if cfg.MockMode {
		return mockstore.NewFromConfig(cfg)
	}
	return spotr.NewClient(cfg)
}

func buildRegistry(opts *options, stderr io.Writer) (*registry.Registry, *config.Config, *log.Logger, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New(stderr, cfg.LogLevel)

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open backend: %w", err)
	}
	reg, err := registry.New(backend, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return reg, cfg, logger, nil
}

func runServe(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	reg, cfg, logger, err := buildRegistry(opts, stderr)
	if err != nil {
		return err
	}
	if cfg.MockMode {
		logger.Info("mock mode", "dir", cfg.MockDataDir)
	} else {
		logger.Info("using Spotr API", "base_url", cfg.BaseURL)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := router.Serve(ctx, reg, stdin, stdout, logger); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}
