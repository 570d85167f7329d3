package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codekg/internal/validation"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run invariant checks against the stored graph without re-analyzing",
}

var checkDataflowCmd = &cobra.Command{
	Use:   "dataflow",
	Short: "Run the data-flow and broken-import validators",
	Long: `check dataflow re-runs every registered Validator against the graph
already stored by a previous analyze run. Findings are always printed;
the exit code is non-zero only when strict mode is on (--strict, or
strict: true in the config file) and at least one finding is
error-severity.`,
	RunE: runCheckDataflow,
}

func init() {
	checkCmd.AddCommand(checkDataflowCmd)
}

func runCheckDataflow(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}
	store, err := openGraphStore(cfg, ws)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	findings, err := validation.Run(ctx, validation.DefaultValidators(), store)
	if err != nil {
		return fmt.Errorf("check dataflow: %w", err)
	}

	if len(findings) == 0 {
		fmt.Println("no findings")
		return nil
	}
	for _, f := range findings {
		fmt.Printf("[%s] %s: %s (%s)\n", f.Severity, f.Code, f.Message, f.NodeID)
	}

	if cfg.Strict && validation.HasError(findings) {
		os.Exit(1)
	}
	return nil
}
