package enrichment

import (
	"context"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// InstanceOfResolver re-points a dangling INSTANCE_OF edge — one whose dst
// was computed by the builder at global scope for a class it could not
// find locally (AssignmentBuilder's fallback for `new C()` where C is
// imported) — to the real CLASS node, by walking the IMPORT binding of the
// same name to the EXPORT the ImportExportLinker already resolved it to,
// and from there to whatever that export names.
//
// It never removes the original dangling edge (the GraphStore contract has
// no edge deletion); it adds a second, correctly-targeted edge alongside
// it. A consumer can tell them apart because the dangling edge's dst does
// not resolve via GetNode.
type InstanceOfResolver struct{}

func (InstanceOfResolver) Name() string           { return "InstanceOfResolver" }
func (InstanceOfResolver) Dependencies() []string { return []string{"ImportExportLinker"} }

// Enrich implements Plugin.
func (InstanceOfResolver) Enrich(ctx context.Context, store storage.GraphStore) error {
	candidates, err := instanceOfSources(ctx, store)
	if err != nil {
		return err
	}

	imports, err := store.QueryNodes(ctx, graph.NodeImport)
	if err != nil {
		return err
	}
	importsByFileAndName := make(map[string]graph.Node, len(imports))
	for _, imp := range imports {
		importsByFileAndName[imp.File+"|"+imp.Name] = imp
	}

	for _, src := range candidates {
		edges, err := store.GetOutgoingEdges(ctx, src.ID)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if e.Type != graph.EdgeInstanceOf {
				continue
			}
			_, found, err := store.GetNode(ctx, e.Dst)
			if err != nil {
				return err
			}
			if found {
				continue // already resolved, nothing dangling here
			}

			parsed, ok := semid.Parse(e.Dst)
			if !ok || parsed.Type != graph.NodeClass {
				continue
			}
			imp, ok := importsByFileAndName[src.File+"|"+parsed.Name]
			if !ok {
				continue
			}
			realClassID, ok := followImportToClass(ctx, store, imp.ID)
			if !ok {
				continue
			}
			if err := store.AddEdge(ctx, graph.Edge{Type: graph.EdgeInstanceOf, Src: src.ID, Dst: realClassID}); err != nil {
				return err
			}
		}
	}
	return nil
}

// instanceOfSources returns every node kind that can legally be the src of
// an INSTANCE_OF edge: variables, constants, and parameters.
func instanceOfSources(ctx context.Context, store storage.GraphStore) ([]graph.Node, error) {
	var all []graph.Node
	for _, typ := range []graph.NodeType{graph.NodeVariable, graph.NodeConstant, graph.NodeParameter} {
		nodes, err := store.QueryNodes(ctx, typ)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

// followImportToClass resolves importID to the CLASS node it ultimately
// names, via the IMPORTS_FROM edge the ImportExportLinker pass adds (import
// -> export) and the EXPORTS_FROM edge the ModuleRuntimeBuilder adds for a
// locally-declared export (export -> declaration).
func followImportToClass(ctx context.Context, store storage.GraphStore, importID string) (string, bool) {
	importsFrom, err := store.GetOutgoingEdges(ctx, importID)
	if err != nil {
		return "", false
	}
	for _, e := range importsFrom {
		if e.Type != graph.EdgeImportsFrom {
			continue
		}
		exportsFrom, err := store.GetOutgoingEdges(ctx, e.Dst)
		if err != nil {
			continue
		}
		for _, ee := range exportsFrom {
			if ee.Type != graph.EdgeExportsFrom {
				continue
			}
			if n, found, err := store.GetNode(ctx, ee.Dst); err == nil && found && n.Type == graph.NodeClass {
				return n.ID, true
			}
		}
	}
	return "", false
}
