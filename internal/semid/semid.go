// Package semid computes and parses the stable semantic identifiers that
// every non-singleton graph node carries. An id is a pure function of
// (file, scope path, type, name, discriminator); it never touches the
// filesystem or any counter shared across calls, which is what makes it
// reproducible across runs, hosts, and path-separator conventions.
package semid

import (
	"fmt"
	"strings"
)

// Separator joins scope-path segments. Chosen so substring matching on the
// path is meaningful.
const Separator = "->"

const globalScope = "global"

// Context is the live scope value threaded through every visitor.
// Constructing an id requires only this plus the kind/name.
type Context struct {
	File      string
	ScopePath []string
}

// Options adjusts id construction beyond the base (type, name, context).
type Options struct {
	// Discriminator disambiguates entities that would otherwise collide
	// (same file, scope, type, name).
	Discriminator string
	// InlineContext appends a bracketed context tag instead of a
	// discriminator, e.g. a literal's containing expression shape.
	InlineContext string
}

// ErrSeparatorInName is returned when a name contains the path separator,
// which would make the id ambiguous to parse back. Builders must reject
// such names rather than silently quoting them.
type ErrSeparatorInName struct{ Name string }

func (e ErrSeparatorInName) Error() string {
	return fmt.Sprintf("semid: name %q contains reserved separator %q", e.Name, Separator)
}

// Compute builds the canonical id for a node of the given type and name in
// the given scope context.
func Compute(typ NodeType, name string, ctx Context) (string, error) {
	return ComputeWith(typ, name, ctx, Options{})
}

// ComputeWith is Compute with a discriminator or inline-context suffix.
func ComputeWith(typ NodeType, name string, ctx Context, opts Options) (string, error) {
	if strings.Contains(name, Separator) {
		return "", ErrSeparatorInName{Name: name}
	}
	scope := globalScope
	if len(ctx.ScopePath) > 0 {
		scope = strings.Join(ctx.ScopePath, Separator)
	}

	id := fmt.Sprintf("%s%s%s%s%s%s%s", ctx.File, Separator, scope, Separator, string(typ), Separator, name)
	switch {
	case opts.Discriminator != "":
		id += "#" + opts.Discriminator
	case opts.InlineContext != "":
		id += "[" + opts.InlineContext + "]"
	}
	return id, nil
}

// Parsed is the decomposition of a computed id, the inverse of Compute.
type Parsed struct {
	File          string
	ScopePath     []string
	Type          NodeType
	Name          string
	Discriminator string
	InlineContext string
}

// Parse decomposes an id built by Compute/ComputeWith. It returns false if
// id does not match the expected shape (e.g. a singleton literal).
func Parse(id string) (Parsed, bool) {
	name := id
	var discriminator, inline string

	if idx := lastDiscriminatorIndex(name); idx >= 0 {
		discriminator = name[idx+1:]
		name = name[:idx]
	} else if idx := strings.LastIndex(name, "["); idx >= 0 && strings.HasSuffix(name, "]") {
		inline = name[idx+1 : len(name)-1]
		name = name[:idx]
	}

	parts := strings.Split(name, Separator)
	if len(parts) < 4 {
		return Parsed{}, false
	}

	file := parts[0]
	typ := NodeType(parts[len(parts)-2])
	nodeName := parts[len(parts)-1]
	scopeParts := parts[1 : len(parts)-2]

	var scopePath []string
	if len(scopeParts) == 1 && scopeParts[0] == globalScope {
		scopePath = nil
	} else {
		scopePath = scopeParts
	}

	return Parsed{
		File:          file,
		ScopePath:     scopePath,
		Type:          typ,
		Name:          nodeName,
		Discriminator: discriminator,
		InlineContext: inline,
	}, true
}

// lastDiscriminatorIndex returns the index of the "#" that introduces a
// ComputeWith discriminator suffix, or -1 if id carries none. Every
// discriminator this codebase mints is a decimal counter (graph.Factory's
// ComputeWith callers and jsts's nextDiscriminator both format one with
// "%d"), so a trailing "#..." only counts as one when everything after it
// is digits. Without this check, a name that itself ends in "#" followed by
// letters — a JS private class field like "#count", emitted verbatim by
// visitClassField — would be misparsed as name="" with discriminator
// "count" instead of name "#count" with no discriminator at all.
func lastDiscriminatorIndex(name string) int {
	idx := strings.LastIndex(name, "#")
	if idx < 0 || idx == len(name)-1 {
		return -1
	}
	for _, r := range name[idx+1:] {
		if r < '0' || r > '9' {
			return -1
		}
	}
	return idx
}

// Push returns a new scope path with name appended, leaving ctx untouched.
func (c Context) Push(name string) Context {
	next := make([]string, len(c.ScopePath), len(c.ScopePath)+1)
	copy(next, c.ScopePath)
	next = append(next, name)
	return Context{File: c.File, ScopePath: next}
}
