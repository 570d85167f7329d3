// Package builder turns one module's astvisit.ASTCollections into graph
// nodes and edges. It is decomposed into domain-specific sub-builders, each
// a single Buffer(module, data, ctx) call, coordinated by GraphBuilder.
package builder

import (
	"strings"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// scopeKey renders a scope context into a lookup key. Two contexts with
// the same file and scope path render identically regardless of which
// builder constructed them.
func scopeKey(ctx semid.Context) string {
	return ctx.File + "->" + strings.Join(ctx.ScopePath, "->")
}

// Context is threaded through every domain builder's Buffer call. It wraps
// the storage facade (buffer_node/buffer_edge/is_created/mark_created) and
// adds the scope-aware lookups a later builder needs to resolve a bare
// name back to the node a prior builder already created for it.
type Context struct {
	Facade  *storage.Facade
	Factory *graph.Factory
	File    string

	functionsByScope  map[string]map[string]string
	variablesByScope  map[string]map[string]string
	parametersByScope map[string]map[string]string
	classesByScope    map[string]map[string]string
}

// NewContext returns an empty Context for one module's build pass.
func NewContext(file string, facade *storage.Facade) *Context {
	return &Context{
		Facade:  facade,
		Factory: graph.NewFactory(),
		File:    file,

		functionsByScope:  make(map[string]map[string]string),
		variablesByScope:  make(map[string]map[string]string),
		parametersByScope: make(map[string]map[string]string),
		classesByScope:    make(map[string]map[string]string),
	}
}

func registerIn(index map[string]map[string]string, ctx semid.Context, name, id string) {
	key := scopeKey(ctx)
	m, ok := index[key]
	if !ok {
		m = make(map[string]string)
		index[key] = m
	}
	m[name] = id
}

func resolveIn(index map[string]map[string]string, ctx semid.Context, name string) (string, bool) {
	// Walk outward from the current scope path to global, the same way
	// lexical name resolution does: innermost declaration wins.
	path := ctx.ScopePath
	for i := len(path); i >= 0; i-- {
		key := ctx.File + "->" + strings.Join(path[:i], "->")
		if m, ok := index[key]; ok {
			if id, ok := m[name]; ok {
				return id, true
			}
		}
	}
	return "", false
}

// RegisterFunction records that name resolves to id within ctx's scope.
func (c *Context) RegisterFunction(name string, ctx semid.Context, id string) {
	registerIn(c.functionsByScope, ctx, name, id)
}

// RegisterVariable records a variable binding.
func (c *Context) RegisterVariable(name string, ctx semid.Context, id string) {
	registerIn(c.variablesByScope, ctx, name, id)
}

// RegisterParameter records a parameter binding.
func (c *Context) RegisterParameter(name string, ctx semid.Context, id string) {
	registerIn(c.parametersByScope, ctx, name, id)
}

// RegisterClass records a class binding, indexed by the scope it was
// declared in (module scope for top-level classes).
func (c *Context) RegisterClass(name string, ctx semid.Context, id string) {
	registerIn(c.classesByScope, ctx, name, id)
}

// FindFunctionByName resolves name to a FUNCTION/METHOD node id visible
// from ctx, searching outward through enclosing scopes.
func (c *Context) FindFunctionByName(name string, ctx semid.Context) (string, bool) {
	return resolveIn(c.functionsByScope, ctx, name)
}

// ResolveVariableInScope resolves name to a VARIABLE/CONSTANT node id
// visible from ctx.
func (c *Context) ResolveVariableInScope(name string, ctx semid.Context) (string, bool) {
	return resolveIn(c.variablesByScope, ctx, name)
}

// ResolveParameterInScope resolves name to a PARAMETER node id visible
// from ctx.
func (c *Context) ResolveParameterInScope(name string, ctx semid.Context) (string, bool) {
	return resolveIn(c.parametersByScope, ctx, name)
}

// ResolveClassByName resolves name to a CLASS node id visible from ctx,
// walking outward through enclosing scopes the same way FindFunctionByName
// and the other resolvers do. This is an exact lexical-scope lookup within
// the current module only; it does not address the separate File-prefix
// convention CLASS ids carry (see graph.Factory.CreateClass and
// graph.ClassFileBasename) — that reconciliation lives entirely in how a
// CLASS id is computed, not in this index.
func (c *Context) ResolveClassByName(name string, ctx semid.Context) (string, bool) {
	return resolveIn(c.classesByScope, ctx, name)
}

// ResolveClassByNameAnyScope scans every scope recorded in this module for
// a class binding matching name, ignoring scope nesting entirely. Used only
// as a fallback when ResolveClassByName's exact-scope walk fails, e.g. a
// `new C()` referencing a class declared in a sibling scope the lexical
// walk wouldn't reach. Like ResolveClassByName, this is a same-module name
// lookup and is unrelated to the basename-vs-rooted-path convention CLASS
// ids carry across files.
func (c *Context) ResolveClassByNameAnyScope(name string) (string, bool) {
	for _, m := range c.classesByScope {
		if id, ok := m[name]; ok {
			return id, true
		}
	}
	return "", false
}

// IsCreated reports whether id has already been buffered this build.
func (c *Context) IsCreated(id string) bool { return c.Facade.IsCreated(id) }

// MarkCreated records id as created without buffering a node.
func (c *Context) MarkCreated(id string) { c.Facade.MarkCreated(id) }

// ScopePathsMatch reports whether two contexts denote the same scope.
func ScopePathsMatch(a, b semid.Context) bool {
	if a.File != b.File || len(a.ScopePath) != len(b.ScopePath) {
		return false
	}
	for i := range a.ScopePath {
		if a.ScopePath[i] != b.ScopePath[i] {
			return false
		}
	}
	return true
}
