package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"codekg/internal/mangle"
	"codekg/internal/validation"
)

var queryCmd = &cobra.Command{
	Use:   "query <datalog-query>",
	Short: "Evaluate a Datalog query against the stored graph",
	Long: `query loads the entire stored graph into a throwaway Mangle engine as
node/edge/flow/reaches facts (see internal/mangle/bridge.go) and evaluates
the given query atom against it.

Example:
  kgctl query 'reaches("a.js->global->VARIABLE->x", Y)'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	nodes, edges, err := validation.DumpGraph(ctx, store)
	if err != nil {
		return fmt.Errorf("query: loading graph: %w", err)
	}

	engine := mangle.NewEngine(mangle.DefaultConfig())
	if err := mangle.LoadGraph(engine, nodes, edges); err != nil {
		return fmt.Errorf("query: loading facts: %w", err)
	}

	result, err := engine.Query(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	if len(result.Bindings) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, binding := range result.Bindings {
		keys := make([]string, 0, len(binding))
		for k := range binding {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, binding[k]))
		}
		fmt.Println(parts)
	}
	fmt.Printf("(%d result(s) in %v)\n", len(result.Bindings), result.Duration)
	return nil
}
