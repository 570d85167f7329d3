// Package validation holds the post-enrichment invariant checks: each
// Validator reads the committed graph and emits Error records
// rather than mutating anything. A validator never aborts the run — an
// unmet invariant is a diagnostic, not a fatal error; only strict mode
// turns an error-severity diagnostic into a non-zero exit code.
package validation

import (
	"context"

	"codekg/internal/storage"
)

// Severity distinguishes a diagnostic that fails strict mode from one that
// is always advisory.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Error is one validator finding.
type Error struct {
	Code     string
	Severity Severity
	Message  string
	NodeID   string
}

// Validator is one invariant check over the whole graph.
type Validator interface {
	Name() string
	Validate(ctx context.Context, store storage.GraphStore) ([]Error, error)
}

// DefaultValidators returns the built-in validators, in no particular
// order — unlike enrichment plugins, validators are read-only and
// independent of one another.
func DefaultValidators() []Validator {
	return []Validator{
		DataFlowValidator{},
		BrokenImportValidator{},
	}
}

// Run executes every validator against store, collecting all findings. A
// validator returning a Go error (a store failure, not an invariant
// violation) aborts the run immediately, since that is a fatal condition
// per the failure taxonomy — a violated invariant never is.
func Run(ctx context.Context, validators []Validator, store storage.GraphStore) ([]Error, error) {
	var all []Error
	for _, v := range validators {
		errs, err := v.Validate(ctx, store)
		if err != nil {
			return nil, err
		}
		all = append(all, errs...)
	}
	return all, nil
}

// HasError reports whether any finding is error-severity, the condition
// strict mode uses to decide the process exit code.
func HasError(errs []Error) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
