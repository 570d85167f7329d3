package builder

import (
	"context"
	"fmt"

	"codekg/internal/astvisit"
	"codekg/internal/storage"
)

// DomainBuilder is the contract every domain-specific sub-builder
// implements: read one module's collected info records and buffer the
// nodes/edges it owns through ctx.
type DomainBuilder interface {
	Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error
}

// GraphBuilder runs the fixed sequence of domain sub-builders over one
// module's ASTCollections. Core runs and flushes first since every other
// builder resolves names against scope bindings (and, for CallFlow and
// Mutation, call nodes) Core creates; the rest run as independent buffers
// flushed once at the end.
type GraphBuilder struct {
	core CoreBuilder
	rest []DomainBuilder
}

// NewGraphBuilder returns a GraphBuilder with the standard domain-builder
// order: Core first (and flushed alone), then ControlFlow, Assignment,
// CallFlow, Mutation, UpdateExpression, Return, Yield, TypeSystem,
// ModuleRuntime, and Network.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		core: CoreBuilder{},
		rest: []DomainBuilder{
			ControlFlowBuilder{},
			AssignmentBuilder{},
			CallFlowBuilder{},
			MutationBuilder{},
			UpdateExpressionBuilder{},
			ReturnBuilder{},
			YieldBuilder{},
			TypeSystemBuilder{},
			ModuleRuntimeBuilder{},
			NetworkBuilder{},
		},
	}
}

// Build runs every sub-builder over data and flushes the result to facade.
// file becomes the module's node id and the scope-index namespace for the
// returned Context, which callers can keep around for enrichment passes
// that need to resolve names across the same build.
func (b *GraphBuilder) Build(ctx context.Context, file string, data *astvisit.ASTCollections, facade *storage.Facade) (*Context, error) {
	bctx := NewContext(file, facade)

	if err := b.core.Buffer(file, data, bctx); err != nil {
		return nil, fmt.Errorf("builder: core pass for %s: %w", file, err)
	}
	if err := facade.Flush(ctx); err != nil {
		return nil, fmt.Errorf("builder: flushing core pass for %s: %w", file, err)
	}

	for _, sub := range b.rest {
		if err := sub.Buffer(file, data, bctx); err != nil {
			return nil, fmt.Errorf("builder: %T pass for %s: %w", sub, file, err)
		}
	}
	if err := facade.Flush(ctx); err != nil {
		return nil, fmt.Errorf("builder: flushing domain passes for %s: %w", file, err)
	}

	return bctx, nil
}
