package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// CoreBuilder buffers the module node plus every function, class, variable,
// call, method call, and literal in it, registering each in ctx so later
// domain builders can resolve names back to ids.
type CoreBuilder struct{}

// Buffer implements the domain-builder contract for the Core pass.
func (CoreBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	moduleNode, err := ctx.Factory.CreateModule(module)
	if err != nil {
		return err
	}
	if err := ctx.Facade.BufferNode(moduleNode); err != nil {
		return err
	}

	for _, fn := range data.Functions {
		n, err := ctx.Factory.CreateFunction(fn.Name, fn.Context, fn.Line, fn.Col, fn.EndCol)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.RegisterFunction(fn.Name, fn.Context, n.ID)
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, fn.Context, moduleNode.ID, n.ID))
	}

	for _, cls := range data.ClassDeclarations {
		n, err := ctx.Factory.CreateClass(cls.Name, cls.Context, cls.Line, cls.Col, cls.EndCol)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.RegisterClass(cls.Name, cls.Context, n.ID)
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, cls.Context, moduleNode.ID, n.ID))
	}

	for _, v := range data.VariableDeclarations {
		var n graph.Node
		if v.IsConst {
			n, err = ctx.Factory.CreateConstant(v.Name, v.Context, v.Line, v.Col)
		} else {
			n, err = ctx.Factory.CreateVariable(v.Name, v.Context, v.Line, v.Col, v.IsClassProperty)
		}
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.RegisterVariable(v.Name, v.Context, n.ID)
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, v.Context, moduleNode.ID, n.ID))
	}

	for _, p := range data.Parameters {
		n, err := ctx.Factory.CreateParameter(p.Name, p.Context, p.Position, p.Line, p.Col)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.RegisterParameter(p.Name, p.Context, n.ID)
		if ownerID, ok := ownerFunctionID(ctx, p.Context); ok {
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeHasParameter, Src: ownerID, Dst: n.ID})
		}
	}

	for _, call := range data.CallSites {
		n, err := ctx.Factory.CreateCall(call.CalleeName, call.Context, call.Discriminator, call.Line, call.Col)
		if err != nil {
			return err
		}
		if len(call.Args) > 0 {
			n.Metadata = map[string]any{"args": call.Args}
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, call.Context, moduleNode.ID, n.ID))
		if calleeID, ok := ctx.FindFunctionByName(call.CalleeName, call.Context); ok {
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: n.ID, Dst: calleeID})
		}
	}

	for _, mc := range data.MethodCalls {
		n, err := ctx.Factory.CreateMethodCall(mc.MethodName, mc.Context, mc.Discriminator, mc.Line, mc.Col)
		if err != nil {
			return err
		}
		if len(mc.Args) > 0 {
			n.Metadata = map[string]any{"args": mc.Args, "receiver": mc.ReceiverName}
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, mc.Context, moduleNode.ID, n.ID))
		if receiverID, ok := ctx.ResolveVariableInScope(mc.ReceiverName, mc.Context); ok {
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeReceivesArgument, Src: receiverID, Dst: n.ID})
		}
	}

	for _, lit := range data.Literals {
		n, err := ctx.Factory.CreateLiteral(lit.Value, lit.Context, lit.Discriminator, lit.Line, lit.Col)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, lit.Context, moduleNode.ID, n.ID))
	}

	for _, ol := range data.ObjectLiterals {
		id, err := bufferObjectLiteral(ctx, ol)
		if err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, ol.Context, moduleNode.ID, id))
	}

	for _, al := range data.ArrayLiterals {
		id, err := bufferArrayLiteral(ctx, al)
		if err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, al.Context, moduleNode.ID, id))
	}

	return nil
}

func bufferObjectLiteral(ctx *Context, ol astvisit.ObjectLiteralInfo) (string, error) {
	n, err := ctx.Factory.CreateExpression("object_literal", ol.Context, ol.Discriminator, ol.Line, ol.Col)
	if err != nil {
		return "", err
	}
	n.Type = graph.NodeObjectLiteral
	n.Metadata["property_names"] = ol.PropertyNames
	if err := ctx.Facade.BufferNode(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

func bufferArrayLiteral(ctx *Context, al astvisit.ArrayLiteralInfo) (string, error) {
	n, err := ctx.Factory.CreateExpression("array_literal", al.Context, al.Discriminator, al.Line, al.Col)
	if err != nil {
		return "", err
	}
	n.Type = graph.NodeArrayLiteral
	n.Metadata["element_count"] = al.ElementCount
	if err := ctx.Facade.BufferNode(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// containsEdgeFor picks the CONTAINS source for a construct declared at
// sctx: its innermost named enclosing function or class if one is
// registered, or the module node for anything at global scope or nested
// only inside anonymous block scopes.
func containsEdgeFor(ctx *Context, sctx semid.Context, moduleID, dstID string) graph.Edge {
	path := sctx.ScopePath
	for i := len(path); i > 0; i-- {
		name := path[i-1]
		if name == "" {
			continue
		}
		parent := semid.Context{File: sctx.File, ScopePath: path[:i-1]}
		if id, ok := ctx.FindFunctionByName(name, parent); ok {
			return graph.Edge{Type: graph.EdgeContains, Src: id, Dst: dstID}
		}
		if id, ok := ctx.ResolveClassByName(name, parent); ok {
			return graph.Edge{Type: graph.EdgeContains, Src: id, Dst: dstID}
		}
		break
	}
	return graph.Edge{Type: graph.EdgeContains, Src: moduleID, Dst: dstID}
}

// ownerFunctionID resolves the function a parameter belongs to: a
// parameter's scope path ends with its own function's frame name, so the
// owner is looked up one level out.
func ownerFunctionID(ctx *Context, sctx semid.Context) (string, bool) {
	path := sctx.ScopePath
	if len(path) == 0 {
		return "", false
	}
	name := path[len(path)-1]
	parent := semid.Context{File: sctx.File, ScopePath: path[:len(path)-1]}
	return ctx.FindFunctionByName(name, parent)
}
