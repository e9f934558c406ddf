package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/apiclient"
	"github.com/me/hive/internal/config"
	"github.com/me/hive/internal/logging"
	"github.com/me/hive/internal/session"
	"github.com/me/hive/internal/tokenstore"
)

var (
	flagConfig       string
	flagServer       string
	flagTokenBackend string
	flagTokenPath    string
	flagDebug        bool
	flagLogLevel     string
	flagLogFormat    string

	logger *slog.Logger
	rt     *runtime
)

// settleTimeout bounds how long a command waits for the session gate.
const settleTimeout = 5 * time.Second

// NewRootCmd creates the root cobra command for the hive CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hive",
		Short: "Command-line client for The Hive time bank",
		Long:  "hive signs in to The Hive and browses services, chats, forum posts and your time bank.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.RunE == nil {
				return nil // help and completion
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			if err := cfg.Finalize(logger); err != nil {
				return err
			}
			rt, err = openRuntime(cmd.Context(), cfg, logger)
			return err
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.hive/config.yaml)")
	root.PersistentFlags().StringVar(&flagServer, "server", config.DefaultServer, "API server URL (or HIVE_SERVER env)")
	root.PersistentFlags().StringVar(&flagTokenBackend, "token-backend", "file", "Token storage: file, sqlite, memory")
	root.PersistentFlags().StringVar(&flagTokenPath, "token-path", "", "Token storage path (default under ~/.hive)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newOAuthCmd(),
		newWhoamiCmd(),
		newStatusCmd(),
		newServicesCmd(),
		newChatCmd(),
		newForumCmd(),
		newRequestsCmd(),
		newTimebankCmd(),
		newBadgesCmd(),
		newOverviewCmd(),
		newAdminCmd(),
		newModerateCmd(),
	)

	return root
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.ClientConfig, error) {
	cfg, err := config.Load(config.Sources{File: flagConfig})
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = flagServer
	}
	if flags.Changed("token-backend") {
		cfg.TokenBackend = flagTokenBackend
	}
	if flags.Changed("token-path") {
		cfg.TokenPath = flagTokenPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// runtime is the session wiring shared by one command invocation.
type runtime struct {
	cfg    config.ClientConfig
	tokens *tokenstore.Store
	bus    *session.Bus
	gate   *session.Gate
	client *apiclient.Client

	cancel context.CancelFunc
	done   chan struct{}
}

func openRuntime(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (*runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := tokenstore.OpenBackend(ctx, cfg.TokenBackend, cfg.TokenPath, logger)
	if err != nil {
		return nil, err
	}
	tokens := tokenstore.New(backend, logger)
	bus := session.NewBus(tokens, logger)
	gate := session.NewGate(bus, logger)

	runCtx, cancel := context.WithCancel(ctx)
	r := &runtime{
		cfg:    cfg,
		tokens: tokens,
		bus:    bus,
		gate:   gate,
		client: apiclient.New(cfg.Server, tokens, bus, logger, apiclient.WithTimeout(cfg.Timeout)),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		gate.Run(runCtx)
	}()

	if _, err := tokens.Load(ctx); err != nil {
		r.Close()
		return nil, fmt.Errorf("read stored session: %w", err)
	}
	if err := r.settle(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// settle waits until the gate has seen every token change and signal so far.
func (r *runtime) settle() error {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	if err := r.gate.Settle(ctx); err != nil {
		return fmt.Errorf("wait for session state: %w", err)
	}
	return nil
}

func (r *runtime) Close() {
	r.cancel()
	<-r.done
	r.bus.Close()
	if err := r.tokens.Close(); err != nil {
		logger.Warn("close token store", "error", err)
	}
}
