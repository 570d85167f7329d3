package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codekg/internal/orchestrator"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run the full pipeline over a workspace and persist the resulting graph",
	Long: `analyze walks the workspace's configured roots (or the given path, if
one is provided) through DISCOVERY, INDEXING, ANALYSIS, ENRICHMENT, and
VALIDATION, and writes nodes and edges to the configured graph store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Roots = []string{args[0]}
	}

	store, err := openGraphStore(cfg, ws)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	logger.Info("starting analysis", zap.Strings("roots", cfg.Roots))
	manifest, err := orchestrator.New(cfg, store).Run(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Printf("Analyzed %d file(s) across %d root(s)\n", manifest.Files, len(manifest.Roots))
	fmt.Printf("Graph: %d nodes, %d edges\n", manifest.NodeCount, manifest.EdgeCount)
	for _, phase := range manifest.Phases {
		fmt.Printf("  %-11s %6d file(s)  %v\n", phase.Phase, phase.FileCount, phase.Duration)
		for _, e := range phase.PluginErrs {
			fmt.Printf("    ! %s\n", e)
		}
	}
	if len(manifest.Findings) > 0 {
		fmt.Printf("Validation findings (%d):\n", len(manifest.Findings))
		for _, f := range manifest.Findings {
			fmt.Printf("  [%s] %s: %s (%s)\n", f.Severity, f.Code, f.Message, f.NodeID)
		}
	}

	if manifest.StrictAbort {
		os.Exit(1)
	}
	return nil
}
