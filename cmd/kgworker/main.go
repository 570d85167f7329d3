// Package main implements kgworker, a long-running worker process that
// keeps a graph store open behind a Unix-domain socket. It answers
// connect/ping/disconnect plus the query and run verbs described in
// spec.md's worker RPC, and watches its own socket for unexpected removal
// so IDE/daemon clients reconnecting later find it rebound rather than
// gone.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codekg/internal/config"
	"codekg/internal/logging"
	"codekg/internal/storage"
)

var (
	verbose      bool
	workspaceDir string
	configPath   string
	socketPath   string
)

var rootCmd = &cobra.Command{
	Use:   "kgworker",
	Short: "Run a long-lived code knowledge graph worker over a Unix socket",
	Long: `kgworker opens the workspace's graph store once and serves it over a
Unix-domain socket, so repeated queries and re-runs from an editor or daemon
client avoid paying sqlite-open and full-reanalysis cost on every call.`,
	RunE: runWorker,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Workspace config file (default: <workspace>/codekg.yaml)")
	rootCmd.Flags().StringVarP(&socketPath, "socket", "s", "",
		"Socket path (default: <socket_dir>/kgworker.sock, where a relative socket_dir "+
			"resolves against this process's current directory, not --workspace)")
}

func runWorker(cmd *cobra.Command, args []string) error {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("kgworker: failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ws := workspaceDir
	if ws == "" {
		ws, _ = os.Getwd()
	}
	if err := logging.Initialize(ws, verbose, "info", nil); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
	}
	defer logging.CloseAll()

	path := configPath
	if path == "" {
		path = filepath.Join(ws, "codekg.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	dbPath := cfg.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ws, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("kgworker: creating database directory: %w", err)
	}
	store, err := storage.OpenSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// A relative cfg.SocketDir resolves against the worker's own current
	// working directory, not --workspace: a sharp edge when the two
	// diverge, called out in the --socket flag's help text rather than
	// silently special-cased.
	sock := socketPath
	if sock == "" {
		dir := cfg.SocketDir
		if !filepath.IsAbs(dir) {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("kgworker: resolving current directory: %w", err)
			}
			dir = filepath.Join(cwd, dir)
		}
		if filepath.Dir(dbPath) != dir {
			logger.Warn("socket directory diverges from database directory",
				zap.String("socket_dir", dir), zap.String("database_dir", filepath.Dir(dbPath)))
		}
		sock = filepath.Join(dir, "kgworker.sock")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := NewServer(cfg, ws, store, logger)

	watcher, err := newSocketWatcher(sock, logger)
	if err != nil {
		logger.Warn("socket watcher unavailable, reconnection disabled", zap.Error(err))
	} else {
		watcher.Start(ctx, func(rctx context.Context) error {
			return retryServe(rctx, srv, sock, logger)
		})
		defer watcher.Stop()
	}

	logger.Info("worker starting", zap.String("workspace", ws), zap.String("socket", sock))
	if err := srv.Serve(ctx, sock); err != nil && ctx.Err() == nil {
		return fmt.Errorf("kgworker: serve: %w", err)
	}
	return nil
}

// retryServe restarts Serve in the background after the watcher observes the
// socket disappear; Serve itself blocks its accept loop for the process
// lifetime, so rebind only needs to kick off a fresh goroutine rather than
// wait on it.
func retryServe(ctx context.Context, srv *Server, sock string, logger *zap.Logger) error {
	go func() {
		if err := srv.Serve(ctx, sock); err != nil && ctx.Err() == nil {
			logger.Error("re-served socket exited", zap.Error(err))
		}
	}()
	time.Sleep(50 * time.Millisecond)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
