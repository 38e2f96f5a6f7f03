package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/logging"
	"github.com/dshills/modal/internal/terminal"
)

// options holds the parsed command line.
type options struct {
	path          string
	configPath    string
	scripts       []string
	watch         bool
	logFile       string
	logLevel      string
	logFormat     string
	scriptTimeout time.Duration
}

func newRootCmd(open func(context.Context, options) error) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "modal [file]",
		Short: "A modal text editor for the terminal",
		Long: `modal edits one file with Vim-style keys: operators and motions,
text objects, registers, macros, surround, ex commands and Lua scripts.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.path = args[0]
			}
			if opts.watch && opts.configPath == "" {
				return errors.New("--watch needs --config")
			}
			return open(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (.toml, .yaml or .yml)")
	f.StringArrayVarP(&opts.scripts, "script", "S", nil, "Lua script to run at startup (repeatable)")
	f.BoolVarP(&opts.watch, "watch", "w", false, "reapply the configuration file when it changes")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	f.DurationVar(&opts.scriptTimeout, "script-timeout", 0, "time limit for each Lua run (0 uses the default)")
	return cmd
}

func (o options) logging() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return cfg, err
	}
	format, err := logging.ParseFormat(o.logFormat)
	if err != nil {
		return cfg, err
	}
	cfg.Level = level
	cfg.Format = format
	cfg.File = o.logFile
	return cfg, nil
}

// openTerminal edits the file on the controlling terminal until a quit
// command or until ctx is done.
func openTerminal(ctx context.Context, opts options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	return edit(ctx, screen, opts)
}

func edit(ctx context.Context, screen tcell.Screen, opts options) (err error) {
	logCfg, err := opts.logging()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	h, err := terminal.New(screen, terminal.Config{
		Path:          opts.path,
		Logger:        logger,
		ScriptTimeout: opts.scriptTimeout,
	})
	if err != nil {
		return err
	}
	defer h.Close()

	watcher, err := startup(h, opts, logger)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	logger.Info("editing", "path", opts.path, "session", h.Session().ID().String())
	if err := h.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startup applies the configuration file and the scripts, and starts the
// watcher when asked. Errors inside the file or a script are shown on the
// status line; a file that cannot be read or parsed stops startup.
func startup(h *terminal.Host, opts options, logger *slog.Logger) (*config.Watcher, error) {
	if opts.configPath != "" {
		f, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		apply(h, f, logger)
	}
	for _, path := range opts.scripts {
		if err := h.Session().Source(path); err != nil {
			report(h, logger, "script failed", err)
		}
	}
	if !opts.watch {
		return nil, nil
	}

	w, err := config.Watch(opts.configPath,
		func(f *config.File) {
			_ = h.Post(func() { apply(h, f, logger) })
		},
		config.WithErrorHandler(func(err error) {
			_ = h.Post(func() { report(h, logger, "configuration reload failed", err) })
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", opts.configPath, err)
	}
	return w, nil
}

func apply(h *terminal.Host, f *config.File, logger *slog.Logger) {
	if err := h.Session().ApplyFile(f); err != nil {
		report(h, logger, "configuration has errors", err)
		return
	}
	logger.Debug("configuration loaded", "path", f.Path)
}

func report(h *terminal.Host, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, "error", err)
	first, _, _ := strings.Cut(err.Error(), "\n")
	h.Session().UI().SetErrorMessage(first)
}
