package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// ModuleRuntimeBuilder buffers IMPORT/EXPORT nodes and the edges the
// builder can resolve without seeing another file: a local export that
// names a function/class/variable declared in this module gets an
// EXPORTS_FROM edge to it. Linking an IMPORT/re-export to the module it
// actually names is cross-file work left to the import/export enrichment
// pass, which runs once every module in the workspace has a MODULE node.
type ModuleRuntimeBuilder struct{}

// Buffer implements the domain-builder contract for the ModuleRuntime pass.
func (ModuleRuntimeBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, imp := range data.Imports {
		for _, spec := range imp.Specifiers {
			n, err := ctx.Factory.CreateImport(spec.LocalName, spec.Context, imp.Source, spec.Line, spec.Col, spec.EndCol)
			if err != nil {
				return err
			}
			if err := ctx.Facade.BufferNode(n); err != nil {
				return err
			}
			ctx.RegisterVariable(spec.LocalName, spec.Context, n.ID)
		}
	}

	for _, exp := range data.Exports {
		n, err := ctx.Factory.CreateExport(exp.Name, exp.Context, exp.Line, 0)
		if err != nil {
			return err
		}
		if exp.Source != "" {
			if n.Metadata == nil {
				n.Metadata = make(map[string]any)
			}
			n.Metadata["re_export_source"] = exp.Source
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}

		if exp.Source == "" {
			if localID, ok := resolveExportedBinding(ctx, exp.Name, exp.Context); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeExportsFrom, Src: n.ID, Dst: localID})
			}
		}
	}
	return nil
}

// resolveExportedBinding resolves an exported name against every local
// binding kind the builder tracks, in declaration-likelihood order.
func resolveExportedBinding(ctx *Context, name string, sctx semid.Context) (string, bool) {
	if id, ok := ctx.FindFunctionByName(name, sctx); ok {
		return id, true
	}
	if id, ok := ctx.ResolveClassByName(name, sctx); ok {
		return id, true
	}
	return ctx.ResolveVariableInScope(name, sctx)
}
