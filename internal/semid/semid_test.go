package semid

import (
	"testing"
)

func TestComputeGlobalScope(t *testing.T) {
	id, err := Compute(NodeClass, "SocketService", Context{File: "demo.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "demo.js->global->CLASS->SocketService"
	if id != want {
		t.Fatalf("got %q want %q", id, want)
	}
}

func TestComputeNestedScope(t *testing.T) {
	ctx := Context{File: "backend/src/api.js", ScopePath: []string{"getUser", "inner"}}
	id, err := Compute(NodeVariable, "x", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "backend/src/api.js->getUser->inner->VARIABLE->x"
	if id != want {
		t.Fatalf("got %q want %q", id, want)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := Context{File: "frontend/src/app.js", ScopePath: []string{"Outer", "Inner"}}
	id, err := Compute(NodeFunction, "getUser", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, ok := Parse(id)
	if !ok {
		t.Fatalf("Parse(%q) failed", id)
	}
	if parsed.File != ctx.File || parsed.Type != NodeFunction || parsed.Name != "getUser" {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
	if len(parsed.ScopePath) != 2 || parsed.ScopePath[0] != "Outer" || parsed.ScopePath[1] != "Inner" {
		t.Fatalf("scope path mismatch: %+v", parsed.ScopePath)
	}
}

func TestRoundTripGlobal(t *testing.T) {
	id, err := Compute(NodeFunction, "getUser", Context{File: "backend/src/api.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, ok := Parse(id)
	if !ok {
		t.Fatalf("Parse(%q) failed", id)
	}
	if len(parsed.ScopePath) != 0 {
		t.Fatalf("expected empty scope path, got %+v", parsed.ScopePath)
	}
}

func TestComputeWithDiscriminator(t *testing.T) {
	ctx := Context{File: "a.js"}
	id, err := ComputeWith(NodeVariable, "x", ctx, Options{Discriminator: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a.js->global->VARIABLE->x#2"
	if id != want {
		t.Fatalf("got %q want %q", id, want)
	}
	parsed, ok := Parse(id)
	if !ok || parsed.Discriminator != "2" {
		t.Fatalf("Parse(%q) = %+v, ok=%v", id, parsed, ok)
	}
}

// TestRoundTripPrivateFieldName guards against a name that itself ends in
// "#" followed by letters (a JS private class field like "#count") being
// mistaken for a discriminator suffix: only a trailing "#" followed by all
// digits is ever a discriminator, since that's the only shape ComputeWith's
// callers ever mint one in.
func TestRoundTripPrivateFieldName(t *testing.T) {
	ctx := Context{File: "a.js"}
	id, err := Compute(NodeVariable, "#count", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a.js->global->VARIABLE->#count"
	if id != want {
		t.Fatalf("got %q want %q", id, want)
	}

	parsed, ok := Parse(id)
	if !ok {
		t.Fatalf("Parse(%q) failed", id)
	}
	if parsed.Name != "#count" {
		t.Fatalf("got name %q, want %q", parsed.Name, "#count")
	}
	if parsed.Discriminator != "" {
		t.Fatalf("expected no discriminator, got %q", parsed.Discriminator)
	}
}

// TestRoundTripPrivateFieldNameWithDiscriminator checks the two suffixes
// compose correctly: a private field name can still collide and need a real
// numeric discriminator on top of its own leading "#".
func TestRoundTripPrivateFieldNameWithDiscriminator(t *testing.T) {
	ctx := Context{File: "a.js"}
	id, err := ComputeWith(NodeVariable, "#count", ctx, Options{Discriminator: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a.js->global->VARIABLE->#count#2"
	if id != want {
		t.Fatalf("got %q want %q", id, want)
	}

	parsed, ok := Parse(id)
	if !ok {
		t.Fatalf("Parse(%q) failed", id)
	}
	if parsed.Name != "#count" || parsed.Discriminator != "2" {
		t.Fatalf("got name=%q discriminator=%q", parsed.Name, parsed.Discriminator)
	}
}

func TestComputeRejectsSeparatorInName(t *testing.T) {
	_, err := Compute(NodeVariable, "bad->name", Context{File: "a.js"})
	if err == nil {
		t.Fatal("expected error for name containing separator")
	}
	if _, ok := err.(ErrSeparatorInName); !ok {
		t.Fatalf("expected ErrSeparatorInName, got %T", err)
	}
}

// TestMultiRootDeterminism checks that distinct roots produce distinct ids
// for same-named functions, and that root addition never changes an
// existing node's id (the prefix is the root-relative file path, not a
// synthetic root id).
func TestMultiRootDeterminism(t *testing.T) {
	backend, err := Compute(NodeFunction, "getUser", Context{File: "backend/src/api.js"})
	if err != nil {
		t.Fatal(err)
	}
	frontend, err := Compute(NodeFunction, "getUser", Context{File: "frontend/src/app.js"})
	if err != nil {
		t.Fatal(err)
	}
	if backend == frontend {
		t.Fatalf("expected distinct ids, got %q for both", backend)
	}
	if backend != "backend/src/api.js->global->FUNCTION->getUser" {
		t.Fatalf("unexpected backend id: %q", backend)
	}
	if frontend != "frontend/src/app.js->global->FUNCTION->getUser" {
		t.Fatalf("unexpected frontend id: %q", frontend)
	}
}

func TestNoAbsolutePathInID(t *testing.T) {
	id, err := Compute(NodeFunction, "f", Context{File: "backend/src/api.js"})
	if err != nil {
		t.Fatal(err)
	}
	if id[0] == '/' {
		t.Fatalf("id must not start with an absolute path separator: %q", id)
	}
}
