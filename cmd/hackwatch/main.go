// Command hackwatch attaches to a tmux pane running NetHack and plays
// companion: it price-identifies shop items, keeps a dust Elbereth
// engraving healthy, and saves the game when a turn allowance runs out.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cboone/hackwatch/internal/config"
	"github.com/cboone/hackwatch/internal/engine"
	"github.com/cboone/hackwatch/internal/knowledge"
	"github.com/cboone/hackwatch/internal/tmuxcli"
	"github.com/cboone/hackwatch/internal/transport"
)

var (
	turnLimit    int
	aligned      bool
	persistPath  string
	persist      bool
	logFile      string
	autoElbereth bool
	abbrevLength int
	pollInterval time.Duration
	tmuxPath     string
	socketPath   string
	verbose      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hackwatch <pane>",
	Short: "NetHack price identification and tedium-removal companion",
	Long: `hackwatch watches a tmux pane running NetHack (tty windowport) and
assists with the mechanical parts of play: price-identifying unidentified
shop items, filling call prompts with the inferred candidates, keeping a
dust Elbereth engraving intact on Ctrl+E, and saving the game once a
configured turn allowance is used up.

The pane argument is any tmux target: a session name, "session:window",
or "session:window.pane".`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewDevelopmentConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		zcfg.OutputPaths = []string{"stderr"}
		if logFile != "" {
			zcfg.OutputPaths = append(zcfg.OutputPaths, logFile)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWatch,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&turnLimit, "turn-limit", "t", 0,
		"how many turns to play before the game is saved automatically (0 disables)")
	flags.BoolVarP(&aligned, "aligned", "A", false,
		"round the turn-limit target up to the next multiple of the limit")
	flags.StringVarP(&persistPath, "persistence", "p", "",
		"file to store learned facts in across sessions")
	flags.BoolVar(&persist, "persist", false,
		"store learned facts at the default per-pane path")
	flags.StringVarP(&logFile, "logfile", "l", "",
		"duplicate the log stream into this file")
	flags.BoolVarP(&autoElbereth, "auto-elbereth", "e", false,
		"always write Elbereth when finger-engraving in dust")
	flags.IntVarP(&abbrevLength, "abbrev-length", "a", config.DefaultAbbrevLength,
		"max length for price-identified item aliases")
	flags.DurationVar(&pollInterval, "poll-interval", config.DefaultPollInterval,
		"pane capture cadence")
	flags.StringVar(&tmuxPath, "tmux", "",
		"path to the tmux binary (default: resolved from PATH)")
	flags.StringVarP(&socketPath, "socket", "S", "",
		"tmux server socket path (default: the user's default server)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{
		Pane:                  args[0],
		TmuxPath:              tmuxPath,
		Persistence:           persistPath,
		LogFile:               logFile,
		TurnLimit:             turnLimit,
		AlignedTurnLimit:      aligned,
		AutoElbereth:          autoElbereth,
		AbbrevLength:          abbrevLength,
		PollInterval:          pollInterval,
		MessageDuration:       config.DefaultMessageDuration,
		CaptureFailureCeiling: config.DefaultCaptureFailures,
		Verbose:               verbose,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.TmuxPath == "" {
		path, err := exec.LookPath("tmux")
		if err != nil {
			return fmt.Errorf("tmux not found in PATH: %w", err)
		}
		cfg.TmuxPath = path
	}
	version, err := tmuxcli.Version(cfg.TmuxPath)
	if err != nil {
		return fmt.Errorf("probing tmux: %w", err)
	}
	logger.Info("using tmux", zap.String("path", cfg.TmuxPath), zap.String("version", version))

	runner := tmuxcli.New(cfg.TmuxPath, socketPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !runner.HasPane(ctx, cfg.Pane) {
		return fmt.Errorf("tmux pane %q not found", cfg.Pane)
	}

	if cfg.Persistence == "" && persist {
		cfg.Persistence, err = knowledge.DefaultPath(cfg.Pane)
		if err != nil {
			return fmt.Errorf("resolving persistence path: %w", err)
		}
	}
	store := knowledge.Open(cfg.Persistence, cfg.Pane, logger)

	term := transport.New(runner, cfg.Pane,
		transport.WithPollInterval(cfg.PollInterval),
		transport.WithMessageDuration(cfg.MessageDuration))

	logger.Info("watching pane", zap.String("pane", cfg.Pane))
	if err := engine.New(cfg, term, store, logger).Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted, flushing knowledge")
			return store.Flush()
		}
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
