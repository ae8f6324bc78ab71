package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/five82/flotilla/internal/config"
	"github.com/five82/flotilla/internal/fleet"
	"github.com/five82/flotilla/internal/orchestrator"
	"github.com/five82/flotilla/internal/prefs"
	"github.com/five82/flotilla/internal/state"
	"github.com/five82/flotilla/internal/ui"
)

// Options configure the dashboard. Non-zero fields override the config file.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/flotilla/prefs.toml
	APIURL       string
	PollInterval time.Duration
	LogLevel     string

	// Once prints the filtered fleet and exits instead of starting the UI.
	// It is implied when Stdout is not a terminal.
	Once   bool
	Filter fleet.Filter
	Stdout io.Writer
}

// Run boots the dashboard until the operator quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	client, err := orchestrator.NewClient(cfg.APIURL, cfg.Timeouts, logger.WithField("component", "orchestrator"))
	if err != nil {
		return fmt.Errorf("init orchestrator client: %w", err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if opts.Once || !isTerminal(stdout) {
		return RunOnce(ctx, client, opts.Filter, stdout)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	engine := fleet.NewEngine(ctx, fleet.Options{
		API:          client,
		Store:        &state.Store{},
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		SettleDelay:  cfg.SettleDelay,
	})
	logger.WithFields(logrus.Fields{
		"api":  client.BaseURL(),
		"poll": cfg.PollInterval,
	}).Info("dashboard started")
	defer logger.Info("dashboard stopped")

	return ui.Run(ui.Options{
		Context:   ctx,
		Engine:    engine,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Filter:    opts.Filter,
		LogFile:   cfg.LogFile,
		APIURL:    client.BaseURL(),
	})
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		cfg.LogLevel = level
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
