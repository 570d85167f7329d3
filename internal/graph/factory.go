package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"codekg/internal/semid"
)

// Factory is the sole place of truth for minting node ids and applying
// kind-specific required-field defaults. Every create_<kind> constructor
// goes through it so that a malformed record never reaches the storage
// facade undetected.
type Factory struct{}

// NewFactory returns a Factory. It carries no state: ids are a pure
// function of their inputs (semid.Compute), so a Factory value is freely
// shareable across goroutines.
func NewFactory() *Factory { return &Factory{} }

// CreateFunction builds a FUNCTION node.
func (f *Factory) CreateFunction(name string, ctx semid.Context, line, col, endCol int) (Node, error) {
	id, err := semid.Compute(NodeFunction, name, ctx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeFunction, Name: name, File: ctx.File, Line: line, Column: col, EndColumn: endCol}, nil
}

// CreateClass builds a CLASS node. Its file attribute is the *basename* of
// the declaring file, not the root-prefixed module path every other node
// kind uses — the scope tracker's historical convention for class
// declarations. ClassFileBasename reproduces this same basename so any
// builder recomputing a target CLASS id (an INSTANCE_OF or DERIVES_FROM
// edge's dst) gets back exactly the id minted here instead of a dangling
// one built from the full module path.
func (f *Factory) CreateClass(name string, ctx semid.Context, line, col, endCol int) (Node, error) {
	classCtx := semid.Context{File: ClassFileBasename(ctx.File), ScopePath: ctx.ScopePath}
	id, err := semid.Compute(NodeClass, name, classCtx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeClass, Name: name, File: classCtx.File, Line: line, Column: col, EndColumn: endCol}, nil
}

// ClassFileBasename converts a module's root-prefixed file path to the
// basename a CLASS node's file attribute and id always carry. Exported so
// callers outside this package (the assignment builder's dangling-target
// fallback for `new C()`, enrichment passes reconciling a cross-file
// INSTANCE_OF) recompute the exact same id CreateClass minted rather than
// guessing from the rooted path.
func ClassFileBasename(file string) string {
	return filepath.Base(file)
}

// CreateVariable builds a VARIABLE node. isClassProperty is stashed in
// metadata so the data-flow validator can exempt uninitialized class fields
// from the missing-assignment check.
func (f *Factory) CreateVariable(name string, ctx semid.Context, line, col int, isClassProperty bool) (Node, error) {
	id, err := semid.Compute(NodeVariable, name, ctx)
	if err != nil {
		return Node{}, err
	}
	n := Node{ID: id, Type: NodeVariable, Name: name, File: ctx.File, Line: line, Column: col}
	if isClassProperty {
		n.Metadata = map[string]any{"is_class_property": true}
	}
	return n, nil
}

// CreateConstant builds a CONSTANT node.
func (f *Factory) CreateConstant(name string, ctx semid.Context, line, col int) (Node, error) {
	id, err := semid.Compute(NodeConstant, name, ctx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeConstant, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateParameter builds a PARAMETER node, discriminated by position when a
// function has repeated destructured names.
func (f *Factory) CreateParameter(name string, ctx semid.Context, position, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeParameter, name, ctx, semid.Options{Discriminator: fmt.Sprintf("%d", position)})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeParameter, Name: name, File: ctx.File, Line: line, Column: col,
		Metadata: map[string]any{"position": position}}, nil
}

// CreateCall builds a CALL node. discriminator disambiguates repeat calls to
// the same name in one scope (e.g. two `foo()` calls in the same function).
func (f *Factory) CreateCall(name string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeCall, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeCall, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateMethodCall builds a METHOD_CALL node.
func (f *Factory) CreateMethodCall(name string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeMethodCall, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeMethodCall, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateLiteral builds a LITERAL node. discriminator is typically a line:col
// tag since literal values rarely carry a stable name.
func (f *Factory) CreateLiteral(value string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeLiteral, value, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeLiteral, Name: value, File: ctx.File, Line: line, Column: col}, nil
}

// CreateExpression builds a synthetic EXPRESSION node standing in for a
// complex RHS (binary/conditional/unary/template/logical/member). kind is
// recorded in metadata so enrichment can reason about expression shape
// without re-traversing the AST.
func (f *Factory) CreateExpression(kind string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeExpression, kind, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeExpression, Name: kind, File: ctx.File, Line: line, Column: col,
		Metadata: map[string]any{"kind": kind}}, nil
}

// CreateImport builds an IMPORT node for one specifier. column/endColumn are
// exclusive-end source ranges used by cursor-lookup tooling.
func (f *Factory) CreateImport(specifierName string, ctx semid.Context, source string, line, col, endCol int) (Node, error) {
	id, err := semid.Compute(NodeImport, specifierName, ctx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeImport, Name: specifierName, File: ctx.File, Line: line, Column: col, EndColumn: endCol,
		Metadata: map[string]any{"source": source}}, nil
}

// CreateExport builds an EXPORT node.
func (f *Factory) CreateExport(name string, ctx semid.Context, line, col int) (Node, error) {
	id, err := semid.Compute(NodeExport, name, ctx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeExport, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateInterface builds an INTERFACE node.
func (f *Factory) CreateInterface(name string, ctx semid.Context, line, col int) (Node, error) {
	id, err := semid.Compute(NodeInterface, name, ctx)
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeInterface, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateUpdateExpression builds an UPDATE_EXPRESSION node for `++`/`--`.
func (f *Factory) CreateUpdateExpression(operandName string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeUpdateExpr, operandName, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeUpdateExpr, Name: operandName, File: ctx.File, Line: line, Column: col}, nil
}

// CreateLoop builds a LOOP node. kind is the loop form (for/for_in/while/...)
// and becomes the node name since loops rarely carry a user-given name.
func (f *Factory) CreateLoop(kind string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeLoop, kind, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeLoop, Name: kind, File: ctx.File, Line: line, Column: col,
		Metadata: map[string]any{"kind": kind}}, nil
}

// CreateBranch builds a BRANCH node for an if/else-if or switch statement.
func (f *Factory) CreateBranch(kind string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeBranch, kind, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeBranch, Name: kind, File: ctx.File, Line: line, Column: col,
		Metadata: map[string]any{"kind": kind}}, nil
}

// CreateCase builds a CASE node for one switch case/default clause.
func (f *Factory) CreateCase(label string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeCase, label, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeCase, Name: label, File: ctx.File, Line: line, Column: col}, nil
}

// CreateTry builds a TRY node for one try/catch/finally construct.
func (f *Factory) CreateTry(ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeTry, "try", ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeTry, Name: "try", File: ctx.File, Line: line, Column: col}, nil
}

// CreateCatch builds a CATCH node, named after its bound parameter when one
// is present (`catch (e)`), or "catch" for a parameterless catch.
func (f *Factory) CreateCatch(paramName string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	name := paramName
	if name == "" {
		name = "catch"
	}
	id, err := semid.ComputeWith(NodeCatch, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeCatch, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateFinally builds a FINALLY node.
func (f *Factory) CreateFinally(ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeFinally, "finally", ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeFinally, Name: "finally", File: ctx.File, Line: line, Column: col}, nil
}

// CreateModule builds a MODULE node for one analyzed file.
func (f *Factory) CreateModule(file string) (Node, error) {
	id, err := semid.Compute(NodeModule, file, semid.Context{File: file})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeModule, Name: file, File: file}, nil
}

// CreateHTTPRequest builds an HTTP_REQUEST node for one call-site that
// reaches the network (fetch, axios, http.request, a raw socket connect...).
// name is the callee as written (e.g. "fetch", "axios.get").
func (f *Factory) CreateHTTPRequest(name string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeHTTPRequest, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeHTTPRequest, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateFSOperation builds an FS_OPERATION node for one call-site that reads
// or writes the filesystem (fs.readFile, os.Open...).
func (f *Factory) CreateFSOperation(name string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeFSOperation, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeFSOperation, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateDBQuery builds a DB_QUERY node for one call-site that issues a
// database query (client.query, db.exec...).
func (f *Factory) CreateDBQuery(name string, ctx semid.Context, discriminator string, line, col int) (Node, error) {
	id, err := semid.ComputeWith(NodeDBQuery, name, ctx, semid.Options{Discriminator: discriminator})
	if err != nil {
		return Node{}, err
	}
	return Node{ID: id, Type: NodeDBQuery, Name: name, File: ctx.File, Line: line, Column: col}, nil
}

// CreateNetRequestSingleton returns the fixed-id singleton node for the
// external network resource. Calling it twice returns deeply equal records.
func (f *Factory) CreateNetRequestSingleton() Node {
	return Node{ID: NetRequestSingletonID, Type: NodeNetRequest, Name: "network"}
}

// CreateStdioSingleton returns the fixed-id singleton node for stdio.
func (f *Factory) CreateStdioSingleton() Node {
	return Node{ID: StdioSingletonID, Type: NodeNetStdio, Name: "stdio"}
}

// Validate returns an empty slice on success, or a list of specific
// violations: wrong type tag, malformed id, singleton id mismatch, or a
// missing required field. Storage facades in strict mode must consult this
// before accepting a write.
func Validate(n Node) []string {
	var errs []string
	if n.ID == "" {
		errs = append(errs, "missing id")
	}
	if n.Type == "" {
		errs = append(errs, "missing type")
	}
	if n.Name == "" {
		errs = append(errs, "missing name")
	}

	if n.ID == NetRequestSingletonID || n.ID == StdioSingletonID {
		wantType := NodeNetRequest
		if n.ID == StdioSingletonID {
			wantType = NodeNetStdio
		}
		if n.Type != wantType {
			errs = append(errs, fmt.Sprintf("singleton id %q used with mismatched type %q", n.ID, n.Type))
		}
		return errs
	}

	if n.File == "" {
		errs = append(errs, "missing file")
	}
	if !strings.HasPrefix(n.ID, n.File) {
		errs = append(errs, fmt.Sprintf("id %q does not start with file prefix %q", n.ID, n.File))
	}
	if !strings.Contains(n.ID, "->"+string(n.Type)+"->") {
		errs = append(errs, fmt.Sprintf("id %q does not encode declared type %q", n.ID, n.Type))
	}
	return errs
}
