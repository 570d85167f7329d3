package builder

import (
	"strings"

	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// NetworkBuilder recognizes call sites that reach an external resource —
// the network, the filesystem, a database, or standard I/O. For a network,
// filesystem or database call it buffers a specialized resource node
// alongside the generic CALL/METHOD_CALL node Core already created, linked
// from the call by a CALLS edge, and a network resource node additionally
// links by CALLS to the fixed-id network singleton. A stdio call gets no
// resource node of its own: its call node links by CALLS straight to the
// fixed-id stdio singleton. Both singletons follow the singleton-handling
// rule: the first call of a kind buffers the
// singleton and marks it created, every later call of the same kind in the
// same graph only adds another CALLS edge to the one already there.
//
// The name lists below cover the common JS/TS client surfaces (fetch,
// axios, the http/https/net/fs modules, a SQL-style .query/.exec) rather
// than an exhaustive catalogue; an enrichment pass can widen coverage later
// without touching the builder.
type NetworkBuilder struct{}

// Buffer implements the domain-builder contract for the Network pass.
func (NetworkBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, call := range data.CallSites {
		if call.CalleeName != "fetch" {
			continue
		}
		callNode, err := ctx.Factory.CreateCall(call.CalleeName, call.Context, call.Discriminator, call.Line, call.Col)
		if err != nil {
			return err
		}
		if !ctx.IsCreated(callNode.ID) {
			continue
		}
		if err := bufferHTTPRequest(ctx, module, call.CalleeName, call.Context, call.Discriminator, call.Line, call.Col, callNode.ID); err != nil {
			return err
		}
	}

	for _, mc := range data.MethodCalls {
		callNode, err := ctx.Factory.CreateMethodCall(mc.MethodName, mc.Context, mc.Discriminator, mc.Line, mc.Col)
		if err != nil {
			return err
		}
		if !ctx.IsCreated(callNode.ID) {
			continue
		}

		displayName := mc.ReceiverName + "." + mc.MethodName
		switch {
		case isStdioCall(mc.ReceiverName, mc.MethodName):
			if err := bufferStdio(ctx, module, displayName, mc.Context, mc.Discriminator, mc.Line, mc.Col, callNode.ID); err != nil {
				return err
			}
		case isNetworkCall(mc.ReceiverName, mc.MethodName):
			if err := bufferHTTPRequest(ctx, module, displayName, mc.Context, mc.Discriminator, mc.Line, mc.Col, callNode.ID); err != nil {
				return err
			}
		case isFSCall(mc.ReceiverName, mc.MethodName):
			if err := bufferFSOperation(ctx, module, displayName, mc.Context, mc.Discriminator, mc.Line, mc.Col, callNode.ID); err != nil {
				return err
			}
		case isDBCall(mc.MethodName):
			if err := bufferDBQuery(ctx, module, displayName, mc.Context, mc.Discriminator, mc.Line, mc.Col, callNode.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

var networkMethods = map[string]map[string]bool{
	"axios":      {"get": true, "post": true, "put": true, "delete": true, "patch": true, "request": true},
	"http":       {"request": true, "get": true},
	"https":      {"request": true, "get": true},
	"net":        {"connect": true, "createConnection": true},
	"socket":     {"connect": true, "emit": true},
	"WebSocket":  {"send": true},
}

func isNetworkCall(receiver, method string) bool {
	methods, ok := networkMethods[receiver]
	return ok && methods[method]
}

func isStdioCall(receiver, method string) bool {
	if receiver == "console" {
		return true
	}
	return (receiver == "process.stdout" || receiver == "process.stdin" || receiver == "process.stderr") && method == "write"
}

var fsMethods = map[string]bool{
	"readFile": true, "readFileSync": true, "writeFile": true, "writeFileSync": true,
	"appendFile": true, "appendFileSync": true, "unlink": true, "unlinkSync": true,
	"mkdir": true, "mkdirSync": true, "rename": true, "stat": true, "statSync": true,
}

func isFSCall(receiver, method string) bool {
	return (receiver == "fs" || strings.HasPrefix(receiver, "fs.")) && fsMethods[method]
}

func isDBCall(method string) bool {
	return method == "query" || method == "exec"
}

// moduleNodeID recomputes the deterministic MODULE node id for module —
// the same id Core buffered, cheap to recompute since semid.Compute is pure.
func moduleNodeID(ctx *Context, module string) string {
	n, _ := ctx.Factory.CreateModule(module)
	return n.ID
}

func bufferHTTPRequest(ctx *Context, module, name string, sctx semid.Context, discriminator string, line, col int, callNodeID string) error {
	n, err := ctx.Factory.CreateHTTPRequest(name, sctx, discriminator, line, col)
	if err != nil {
		return err
	}
	if err := ctx.Facade.BufferNode(n); err != nil {
		return err
	}
	ctx.Facade.BufferEdge(containsEdgeFor(ctx, sctx, moduleNodeID(ctx, module), n.ID))
	ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: callNodeID, Dst: n.ID})

	singleton := ctx.Factory.CreateNetRequestSingleton()
	if !ctx.IsCreated(singleton.ID) {
		if err := ctx.Facade.BufferNode(singleton); err != nil {
			return err
		}
		ctx.MarkCreated(singleton.ID)
	}
	ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: n.ID, Dst: singleton.ID})
	return nil
}

func bufferStdio(ctx *Context, module, name string, sctx semid.Context, discriminator string, line, col int, callNodeID string) error {
	singleton := ctx.Factory.CreateStdioSingleton()
	if !ctx.IsCreated(singleton.ID) {
		if err := ctx.Facade.BufferNode(singleton); err != nil {
			return err
		}
		ctx.MarkCreated(singleton.ID)
	}
	ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: callNodeID, Dst: singleton.ID})
	return nil
}

func bufferFSOperation(ctx *Context, module, name string, sctx semid.Context, discriminator string, line, col int, callNodeID string) error {
	n, err := ctx.Factory.CreateFSOperation(name, sctx, discriminator, line, col)
	if err != nil {
		return err
	}
	if err := ctx.Facade.BufferNode(n); err != nil {
		return err
	}
	ctx.Facade.BufferEdge(containsEdgeFor(ctx, sctx, moduleNodeID(ctx, module), n.ID))
	ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: callNodeID, Dst: n.ID})
	return nil
}

func bufferDBQuery(ctx *Context, module, name string, sctx semid.Context, discriminator string, line, col int, callNodeID string) error {
	n, err := ctx.Factory.CreateDBQuery(name, sctx, discriminator, line, col)
	if err != nil {
		return err
	}
	if err := ctx.Facade.BufferNode(n); err != nil {
		return err
	}
	ctx.Facade.BufferEdge(containsEdgeFor(ctx, sctx, moduleNodeID(ctx, module), n.ID))
	ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: callNodeID, Dst: n.ID})
	return nil
}
