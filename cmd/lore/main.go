package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfassina/lore/internal/app"
	"github.com/pfassina/lore/internal/config"
	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/logging"
	"github.com/pfassina/lore/internal/session"
	loressh "github.com/pfassina/lore/internal/ssh"
)

const shutdownTimeout = 5 * time.Second

type flags struct {
	docs     string
	logLevel string
	listen   string
	http     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:          "lore",
		Short:        "Browse and search a markdown library in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ok, err := loadConfig(cmd, f, true)
			if err != nil || !ok {
				return err
			}
			return runLocal(cfg)
		},
	}
	root.PersistentFlags().StringVar(&f.docs, "docs", "", "path to the documentation library")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library over SSH and WebSocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, f, false)
			if err != nil {
				return err
			}
			if f.listen != "" {
				cfg.Listen = f.listen
			}
			if f.http != "" {
				cfg.HTTPListen = f.http
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&f.listen, "listen", "", "SSH listen address (e.g. :2222)")
	serve.Flags().StringVar(&f.http, "http", "", "WebSocket listen address (e.g. :8080)")

	attach := &cobra.Command{
		Use:   "attach <url>",
		Short: "Attach to a library served by lore serve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, f, false)
			if err != nil {
				return err
			}
			return runAttach(cmd.Context(), cfg, args[0])
		},
	}

	index := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, f, false)
			if err != nil {
				return err
			}
			return runIndex(cmd, cfg)
		},
	}

	root.AddCommand(serve, attach, index)
	return root
}

// loadConfig merges the config file and flags. With setup set, a first run
// without --docs asks for the library path; ok is false when the user
// cancels.
func loadConfig(cmd *cobra.Command, f flags, setup bool) (config.Config, bool, error) {
	cfg := config.Default()
	existed, err := config.LoadFile(&cfg)
	if err != nil {
		return cfg, false, fmt.Errorf("load config: %w", err)
	}

	docsFlag := cmd.Flags().Lookup("docs")
	switch {
	case docsFlag != nil && docsFlag.Changed:
		cfg.DocsPath = f.docs
	case !existed && setup:
		res, err := config.RunSetup(cfg.Include)
		if err != nil {
			return cfg, false, fmt.Errorf("setup: %w", err)
		}
		if res.Cancelled {
			return cfg, false, nil
		}
		cfg.DocsPath = res.DocsPath
		if err := config.SaveFile(absPath(res.DocsPath)); err != nil {
			return cfg, false, fmt.Errorf("save config: %w", err)
		}
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	cfg.DocsPath = absPath(cfg.DocsPath)
	if err := cfg.Validate(); err != nil {
		return cfg, false, err
	}
	if err := os.MkdirAll(filepath.Join(cfg.DocsPath, live.DataDir), 0o755); err != nil {
		return cfg, false, fmt.Errorf("create data dir: %w", err)
	}
	return cfg, true, nil
}

func absPath(p string) string {
	p = config.ExpandHome(p)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func logFile(cfg config.Config) string {
	if cfg.LogFile != "" {
		return config.ExpandHome(cfg.LogFile)
	}
	return filepath.Join(cfg.DocsPath, live.DataDir, "lore.log")
}

func openBackend(cfg config.Config, logger *log.Logger) (*live.Backend, error) {
	b, err := live.OpenBackend(docs.New(cfg.DocsPath, cfg.Include), cfg.ResultLimit, logger)
	if err != nil {
		return nil, err
	}
	if _, err := b.Index(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func runLocal(cfg config.Config) error {
	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile(cfg)})
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	a, err := app.New(app.Options{
		Config:  cfg,
		Connect: app.Local(b, logger),
		Store:   session.NewStore(filepath.Join(cfg.DocsPath, live.DataDir)),
		Reindex: b.Index,
		Mode:    "LOCAL",
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := b.Watch(a.Fatal); err != nil {
		logger.Warn("file watcher disabled", "err", err)
	}

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func runAttach(ctx context.Context, cfg config.Config, url string) error {
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile(cfg)})
	if err != nil {
		return err
	}
	defer closeLog()

	connect := func(onUpdate func(*live.Update), onError func(error)) (app.Channel, error) {
		c, err := live.Dial(ctx, url, onUpdate, onError, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	a, err := app.New(app.Options{
		Config:  cfg,
		Connect: connect,
		Mode:    "REMOTE",
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Stderr: true})
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Watch(func(err error) {
		logger.Error("file watcher stopped", "err", err)
	}); err != nil {
		logger.Warn("file watcher disabled", "err", err)
	}

	sshServer, err := loressh.New(cfg, b, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPListen,
		Handler:           live.NewServer(b, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ssh listening", "addr", sshServer.Addr())
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPListen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(sshServer.Shutdown(sctx), httpServer.Shutdown(sctx))
	})
	return g.Wait()
}

func runIndex(cmd *cobra.Command, cfg config.Config) error {
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Stderr: true})
	if err != nil {
		return err
	}
	defer closeLog()

	b, err := live.OpenBackend(docs.New(cfg.DocsPath, cfg.Include), cfg.ResultLimit, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	n, err := b.Index()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents in %s\n", n, cfg.DocsPath)
	return nil
}
