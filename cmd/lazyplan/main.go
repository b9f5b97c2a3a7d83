package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Joseda-hg/lazyplan/internal/auth"
	"github.com/Joseda-hg/lazyplan/internal/config"
	"github.com/Joseda-hg/lazyplan/internal/db"
	"github.com/Joseda-hg/lazyplan/internal/logging"
	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/store"
	"github.com/Joseda-hg/lazyplan/internal/tui"
	"github.com/Joseda-hg/lazyplan/internal/web"
)

var (
	configPathFlag string
	dbPathFlag     string
	storageFlag    string
	webFlag        bool
	portFlag       int
)

var rootCmd = &cobra.Command{
	Use:           "lazyplan",
	Short:         "Workspaces, projects, tasks and events in the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPathFlag, "config", "", "config file path")
	flags.StringVar(&dbPathFlag, "db", "", "database path (file for sqlite, directory for badger)")
	flags.StringVar(&storageFlag, "storage", "", "storage backend: sqlite or badger")
	flags.BoolVar(&webFlag, "web", false, "also serve the web API while the terminal UI runs")
	flags.IntVar(&portFlag, "port", 0, "web API port")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is everything a command needs: the loaded config, the store wired to
// persistence, and the session gate.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	kv      db.KV
	adapter *db.Adapter
	store   *store.Store
	gate    *auth.Gate
	logFile *os.File

	// overdueChanged is how many items the startup pass marked overdue.
	overdueChanged int
}

func loadConfig() (config.Config, error) {
	cfgPath, err := resolveConfigPath(configPathFlag)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}

	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	if cfg.DBPath == "" {
		name := "lazyplan.db"
		if cfg.Storage == config.StorageBadger {
			name = "lazyplan.badger"
		}
		cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), name)
	}
	if webFlag {
		cfg.WebEnabled = true
	}
	if portFlag != 0 {
		cfg.WebPort = portFlag
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8080
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// openApp loads the stored document and subscribes persistence to the
// store. With toFile set, logs go to the log file so they stay off the
// terminal UI's screen.
func openApp(ctx context.Context, toFile bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	var out io.Writer = os.Stderr
	if toFile {
		a.logFile, err = logging.OpenFile(cfg.LogPath())
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = a.logFile
	}
	a.logger = logging.New(cfg.LogLevel, out)

	a.kv, err = db.OpenKV(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	a.adapter = db.NewAdapter(a.kv, a.logger)

	persistCtx := context.WithoutCancel(ctx)
	a.store = store.New(a.adapter.Load(ctx))
	a.store.Subscribe(store.ObserverFunc(func(m store.Mutation, doc model.Document) {
		a.logger.Debug().Str("entity", string(m.Entity)).Str("op", string(m.Op)).Str("id", m.ID).Msg("mutation")
		a.adapter.Save(persistCtx, doc)
	}))
	a.gate = auth.NewGate(a.adapter)

	a.overdueChanged = a.store.RecomputeOverdue(a.store.Today())
	if a.overdueChanged > 0 {
		a.logger.Info().Int("changed", a.overdueChanged).Msg("marked overdue items")
	}
	a.logger.Debug().Str("storage", cfg.Storage).Str("path", cfg.DBPath).Msg("storage opened")
	return a, nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close storage")
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// serve runs the web API until ctx is done, then shuts it down gracefully.
func (a *app) serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.WebPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           web.NewServer(a.store, a.gate, a.logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Str("addr", "http://localhost"+addr).Msg("web server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.WebEnabled {
		return tui.Run(a.store, a.reloadDocument)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- a.serve(ctx)
	}()

	runErr := tui.Run(a.store, a.reloadDocument)
	cancel()
	if err := <-done; err != nil {
		a.logger.Error().Err(err).Msg("web server stopped")
	}
	return runErr
}

func (a *app) reloadDocument() model.Document {
	return a.adapter.Load(context.Background())
}
