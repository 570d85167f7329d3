// Package enrichment holds the pure graph-transformation plugins that run
// after the analysis phase has flushed every module's nodes and edges. Each
// plugin scans the already-committed graph for one narrow pattern, resolves
// what it can, and adds edges — it never creates a node of its own, and it
// never fails the run: an unresolved reference is simply left dangling for
// the next plugin, or permanently, to deal with.
package enrichment

import (
	"context"

	"codekg/internal/storage"
)

// Plugin is one enrichment transformation. Dependencies names the plugins
// (by Name) that must run first in the same phase; the orchestrator
// topologically sorts the registered set by this before running them.
type Plugin interface {
	Name() string
	Dependencies() []string
	Enrich(ctx context.Context, store storage.GraphStore) error
}

// DefaultPlugins returns the built-in enrichment plugins in an order that
// already satisfies their declared dependencies, for callers (tests, a
// standalone CLI verb) that don't need the orchestrator's general topological
// sort.
//
// There is no HTTP/socket connection enricher here: the builder's
// NetworkBuilder already recognizes network/stdio call sites and links them
// to the NET_REQUEST/NET_STDIO singletons at analysis time (the singleton
// itself is a node, and the failure policy above forbids an enrichment
// plugin from creating one), so there is nothing left dangling for an
// enrichment pass to pick up.
func DefaultPlugins() []Plugin {
	return []Plugin{
		ImportExportLinker{},
		InstanceOfResolver{},
		CallbackCallResolver{},
		ClosureCaptureEnricher{},
		ExpressHandlerLinker{},
	}
}

// Run executes plugins in order against store, stopping at the first error.
// A plugin's own unresolved-reference cases are not errors — only a genuine
// store failure (e.g. a backend I/O error) aborts the phase.
func Run(ctx context.Context, plugins []Plugin, store storage.GraphStore) error {
	for _, p := range plugins {
		if err := p.Enrich(ctx, store); err != nil {
			return err
		}
	}
	return nil
}
