// Package main implements kgctl, the command-line front end for the code
// knowledge graph pipeline: analyze, query, and check dataflow.
package main

import (
	"fmt"
	"os"
	"path/filepath"
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
	strictFlag   bool
	opTimeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kgctl",
	Short: "Build and query a code knowledge graph",
	Long: `kgctl runs the discovery/indexing/analysis/enrichment/validation
pipeline over one or more repository roots and stores the resulting graph,
then lets you query it directly or with a Datalog expression.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspaceDir
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws, verbose, "info", nil); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Workspace config file (default: <workspace>/codekg.yaml)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Treat error-severity validation findings as a run failure")
	rootCmd.PersistentFlags().DurationVar(&opTimeout, "timeout", 10*time.Minute, "Operation timeout")

	rootCmd.AddCommand(analyzeCmd, queryCmd, checkCmd)
}

// loadWorkspaceConfig resolves the effective workspace directory and config
// file, applying the --strict flag override on top of whatever the config
// file declares.
func loadWorkspaceConfig() (*config.Config, string, error) {
	ws := workspaceDir
	if ws == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("kgctl: resolving current directory: %w", err)
		}
		ws = cwd
	}

	path := configPath
	if path == "" {
		path = filepath.Join(ws, "codekg.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if strictFlag {
		cfg.Strict = true
	}
	return cfg, ws, nil
}

// openGraphStore opens the sqlite-backed store named by cfg.DatabasePath,
// creating its parent directory if this is a first run.
func openGraphStore(cfg *config.Config, ws string) (*storage.SQLiteStore, error) {
	dbPath := cfg.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ws, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("kgctl: creating database directory: %w", err)
	}
	return storage.OpenSQLiteStore(dbPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
