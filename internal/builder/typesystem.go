package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
)

// TypeSystemBuilder wires up class inheritance: an EXTENDS edge to a
// resolved superclass, and an IMPLEMENTS edge to each named interface. For
// every named interface it buffers an INTERFACE node itself, whether or not
// a declaration was seen, with the id an interface of that name declared in
// the class's own enclosing scope would carry.
type TypeSystemBuilder struct{}

// Buffer implements the domain-builder contract for the TypeSystem pass.
func (TypeSystemBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, cls := range data.ClassDeclarations {
		subID, ok := ctx.ResolveClassByName(cls.Name, cls.Context)
		if !ok {
			continue
		}

		if cls.ExtendsOf != "" {
			superID, ok := ctx.ResolveClassByName(cls.ExtendsOf, cls.Context)
			if !ok {
				superID, ok = ctx.ResolveClassByNameAnyScope(cls.ExtendsOf)
			}
			if ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeExtends, Src: subID, Dst: superID})
			}
		}

		for _, iface := range cls.Implements {
			ifaceNode, err := ctx.Factory.CreateInterface(iface, cls.Context, cls.Line, cls.Col)
			if err != nil {
				return err
			}
			if err := ctx.Facade.BufferNode(ifaceNode); err != nil {
				return err
			}
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeImplements, Src: subID, Dst: ifaceNode.ID})
		}
	}
	return nil
}
