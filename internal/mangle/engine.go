// Package mangle wraps the Google Mangle Datalog engine for two callers:
// the CLI's ad-hoc query verb and the validation phase's invariant checks,
// both of which express their logic as Mangle rules evaluated over facts
// derived from the knowledge graph (see bridge.go).
package mangle

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"
	"github.com/google/mangle/unionfind"
)

// Config holds engine tuning knobs.
type Config struct {
	FactLimit    int
	QueryTimeout int // seconds; 0 uses a 5s default
	AutoEval     bool
}

// DefaultConfig returns the settings used when a caller doesn't override
// them: auto-evaluate rules after every insert, no fact cap, a 30s query
// budget for the bigger validation queries.
func DefaultConfig() Config {
	return Config{FactLimit: 0, QueryTimeout: 30, AutoEval: true}
}

// Fact is one ground atom: predicate(args...).
type Fact struct {
	Predicate string
	Args      []interface{}
}

// Engine wraps a Mangle fact store plus the rule program compiled from
// whatever schemas have been loaded, and evaluates queries and rules
// against it.
type Engine struct {
	config Config

	mu             sync.RWMutex
	store          factstore.ConcurrentFactStore
	baseStore      factstore.FactStoreWithRemove
	programInfo    *analysis.ProgramInfo
	queryContext   *mengine.QueryContext
	predicateIndex map[string]ast.PredicateSym
	schemas        []parse.SourceUnit
	factCount      int
}

// NewEngine constructs an empty engine. Call LoadSchemaString before
// inserting any facts — the predicate declarations there are what let
// insertFactLocked type-check and name-mangle incoming arguments.
func NewEngine(cfg Config) *Engine {
	base := factstore.NewSimpleInMemoryStore()
	return &Engine{
		config:         cfg,
		baseStore:      base,
		store:          factstore.NewConcurrentFactStore(base),
		predicateIndex: make(map[string]ast.PredicateSym),
	}
}

// LoadSchemaString parses and merges a fragment of Mangle source (Decls
// and/or Clauses) into the engine's running program, recompiling the full
// program afterward. Schemas accumulate across calls, so a validator and
// the CLI's ad-hoc query can each load only the predicates they own.
func (e *Engine) LoadSchemaString(schema string) error {
	unit, err := parse.Unit(bytes.NewReader([]byte(schema)))
	if err != nil {
		return fmt.Errorf("mangle: parsing schema: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.schemas = append(e.schemas, unit)
	return e.rebuildProgramLocked()
}

func (e *Engine) rebuildProgramLocked() error {
	var clauses []ast.Clause
	var decls []ast.Decl
	for _, fragment := range e.schemas {
		clauses = append(clauses, fragment.Clauses...)
		decls = append(decls, fragment.Decls...)
	}
	unit := parse.SourceUnit{Clauses: clauses, Decls: decls}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return fmt.Errorf("mangle: analyzing schema: %w", err)
	}
	e.programInfo = programInfo

	e.predicateIndex = make(map[string]ast.PredicateSym, len(programInfo.Decls))
	predToDecl := make(map[ast.PredicateSym]*ast.Decl, len(programInfo.Decls))
	for sym, decl := range programInfo.Decls {
		e.predicateIndex[sym.Symbol] = sym
		predToDecl[sym] = decl
	}
	predToRules := make(map[ast.PredicateSym][]ast.Clause)
	for _, clause := range programInfo.Rules {
		predToRules[clause.Head.Predicate] = append(predToRules[clause.Head.Predicate], clause)
	}
	e.queryContext = &mengine.QueryContext{
		PredToRules: predToRules,
		PredToDecl:  predToDecl,
		Store:       e.store,
	}
	return nil
}

// AddFact inserts one fact, re-evaluating rules afterward if AutoEval is
// set. Use AddFacts for a batch insert that evaluates only once.
func (e *Engine) AddFact(predicate string, args ...interface{}) error {
	return e.AddFacts([]Fact{{Predicate: predicate, Args: args}})
}

// AddFacts inserts facts in one batch.
func (e *Engine) AddFacts(facts []Fact) error {
	if len(facts) == 0 {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.programInfo == nil {
		return fmt.Errorf("mangle: no schema loaded; call LoadSchemaString first")
	}
	for _, fact := range facts {
		if err := e.insertFactLocked(fact); err != nil {
			return err
		}
	}
	if e.config.AutoEval {
		_, err := mengine.EvalProgramWithStats(e.programInfo, e.store)
		return err
	}
	return nil
}

// Recompute forces rule re-evaluation. Needed after a bulk AddFacts call
// made with AutoEval off.
func (e *Engine) Recompute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.programInfo == nil {
		return fmt.Errorf("mangle: no schema loaded")
	}
	_, err := mengine.EvalProgramWithStats(e.programInfo, e.store)
	return err
}

func (e *Engine) insertFactLocked(fact Fact) error {
	if e.config.FactLimit > 0 && e.factCount >= e.config.FactLimit {
		return fmt.Errorf("mangle: fact limit exceeded (%d)", e.config.FactLimit)
	}
	atom, err := e.factToAtomLocked(fact)
	if err != nil {
		return err
	}
	if e.store.Add(atom) {
		e.factCount++
	}
	return nil
}

func (e *Engine) factToAtomLocked(fact Fact) (ast.Atom, error) {
	sym, ok := e.predicateIndex[fact.Predicate]
	if !ok {
		return ast.Atom{}, fmt.Errorf("mangle: predicate %s is not declared in any loaded schema", fact.Predicate)
	}
	if len(fact.Args) != sym.Arity {
		return ast.Atom{}, fmt.Errorf("mangle: predicate %s expects %d args, got %d", fact.Predicate, sym.Arity, len(fact.Args))
	}

	var decl *ast.Decl
	if e.queryContext != nil {
		decl = e.queryContext.PredToDecl[sym]
	}

	args := make([]ast.BaseTerm, len(fact.Args))
	for i, raw := range fact.Args {
		expected := expectedArgType(decl, i)
		term, err := convertValueToTypedTerm(raw, expected)
		if err != nil {
			return ast.Atom{}, fmt.Errorf("mangle: predicate %s arg %d: %w", fact.Predicate, i, err)
		}
		args[i] = term
	}
	return ast.Atom{Predicate: sym, Args: args}, nil
}

func expectedArgType(decl *ast.Decl, index int) ast.ConstantType {
	if decl == nil || len(decl.Bounds) == 0 {
		return -1
	}
	bounds := decl.Bounds[0].Bounds
	if len(bounds) <= index {
		return -1
	}
	c, ok := bounds[index].(ast.Constant)
	if !ok {
		return -1
	}
	switch c.Symbol {
	case "/name":
		return ast.NameType
	case "/string":
		return ast.StringType
	case "/number":
		return ast.NumberType
	}
	return -1
}

func convertValueToTypedTerm(value interface{}, expected ast.ConstantType) (ast.BaseTerm, error) {
	if expected == ast.NameType {
		if s, ok := value.(string); ok {
			if !strings.HasPrefix(s, "/") {
				return ast.Name("/" + s)
			}
			return ast.Name(s)
		}
	}
	if expected == ast.StringType {
		if s, ok := value.(string); ok {
			return ast.String(s), nil
		}
	}

	switch v := value.(type) {
	case ast.BaseTerm:
		return v, nil
	case string:
		if strings.HasPrefix(v, "/") {
			return ast.Name(v)
		}
		return ast.String(v), nil
	case int:
		return ast.Number(int64(v)), nil
	case int64:
		return ast.Number(v), nil
	case float64:
		return ast.Float64(v), nil
	case bool:
		if v {
			return ast.TrueConstant, nil
		}
		return ast.FalseConstant, nil
	default:
		return nil, fmt.Errorf("unsupported fact argument type %T", v)
	}
}

// QueryResult is the outcome of a single Query call.
type QueryResult struct {
	Bindings []map[string]interface{}
	Duration time.Duration
}

// Query evaluates a Mangle query atom such as "calls(X, \"main\")" against
// the current program and fact store, returning one row per matching
// binding of its free variables.
func (e *Engine) Query(ctx context.Context, query string) (*QueryResult, error) {
	shape, err := parseQueryShape(query)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	queryContext := e.queryContext
	if queryContext == nil {
		e.mu.RUnlock()
		return nil, fmt.Errorf("mangle: no schema loaded; cannot query")
	}
	decl, ok := queryContext.PredToDecl[shape.atom.Predicate]
	if !ok {
		e.mu.RUnlock()
		return nil, fmt.Errorf("mangle: predicate %s is not declared", shape.atom.Predicate.Symbol)
	}
	if len(decl.Modes()) == 0 {
		e.mu.RUnlock()
		return nil, fmt.Errorf("mangle: predicate %s has no modes declared", shape.atom.Predicate.Symbol)
	}
	mode := decl.Modes()[0]
	e.mu.RUnlock()

	timeout := time.Duration(e.config.QueryTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resultChan := make(chan []map[string]interface{}, 1)
	errChan := make(chan error, 1)

	go func() {
		var results []map[string]interface{}
		err := queryContext.EvalQuery(shape.atom, mode, unionfind.New(), func(fact ast.Atom) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			row := make(map[string]interface{}, len(shape.variables))
			for _, v := range shape.variables {
				if v.Index < len(fact.Args) {
					row[v.Name] = convertBaseTermToInterface(fact.Args[v.Index])
				}
			}
			results = append(results, row)
			return nil
		})
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- results
	}()

	select {
	case results := <-resultChan:
		return &QueryResult{Bindings: results, Duration: time.Since(start)}, nil
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("mangle: query timed out after %v: %w", time.Since(start), ctx.Err())
	}
}

// GetFacts returns every currently-stored fact for predicate, with no rule
// evaluation involved — used by validators to read back a derived
// predicate's extension directly rather than via Query's string parsing.
func (e *Engine) GetFacts(predicate string) ([]Fact, error) {
	e.mu.RLock()
	sym, ok := e.predicateIndex[predicate]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mangle: predicate %s is not declared", predicate)
	}

	var results []Fact
	err := e.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		args := make([]interface{}, len(atom.Args))
		for i, arg := range atom.Args {
			args[i] = convertBaseTermToInterface(arg)
		}
		results = append(results, Fact{Predicate: predicate, Args: args})
		return nil
	})
	return results, err
}

// Clear drops every stored fact, keeping the loaded schema.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseStore = factstore.NewSimpleInMemoryStore()
	e.store = factstore.NewConcurrentFactStore(e.baseStore)
	e.factCount = 0
}

type queryVariable struct {
	Name  string
	Index int
}

type queryShape struct {
	atom      ast.Atom
	variables []queryVariable
}

func parseQueryShape(query string) (*queryShape, error) {
	clean := strings.TrimSpace(query)
	if clean == "" {
		return nil, fmt.Errorf("mangle: empty query")
	}
	clean = strings.TrimPrefix(clean, "?")
	clean = strings.TrimSpace(clean)
	clean = strings.TrimSuffix(clean, ".")

	atom, err := parse.Atom(strings.TrimSpace(clean))
	if err != nil {
		return nil, fmt.Errorf("mangle: parsing query %q: %w", query, err)
	}

	variables := make([]queryVariable, 0, len(atom.Args))
	for idx, arg := range atom.Args {
		if v, ok := arg.(ast.Variable); ok {
			variables = append(variables, queryVariable{Name: v.Symbol, Index: idx})
		}
	}
	return &queryShape{atom: atom, variables: variables}, nil
}

func convertBaseTermToInterface(term ast.BaseTerm) interface{} {
	switch v := term.(type) {
	case ast.Constant:
		return constantToInterface(v)
	case ast.Variable:
		return v.Symbol
	default:
		return fmt.Sprintf("%v", term)
	}
}

func constantToInterface(c ast.Constant) interface{} {
	switch c.Type {
	case ast.StringType, ast.NameType, ast.BytesType:
		return c.Symbol
	case ast.NumberType:
		return c.NumValue
	case ast.Float64Type:
		return math.Float64frombits(uint64(c.NumValue))
	default:
		return c.String()
	}
}
