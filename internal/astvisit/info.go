package astvisit

import "codekg/internal/semid"

// RHSKind classifies the right-hand side of an assignment, return, or yield
// so a builder can pick the right edge shape without re-walking the AST.
type RHSKind string

const (
	RHSLiteral        RHSKind = "literal"
	RHSVariableRef    RHSKind = "variable_ref"
	RHSCall           RHSKind = "call"
	RHSMethodCall     RHSKind = "method_call"
	RHSMemberExpr     RHSKind = "member_expression"
	RHSBinary         RHSKind = "binary"
	RHSConditional    RHSKind = "conditional"
	RHSUnary          RHSKind = "unary"
	RHSTemplate       RHSKind = "template"
	RHSLogical        RHSKind = "logical"
	RHSNewExpression  RHSKind = "new_expression"
)

// RHS captures a classified right-hand side expression: either a simple
// reference (VariableRef/Call/MethodCall carry a Name to resolve against),
// or a complex shape whose referenced identifiers are listed in Refs so the
// builder can synthesize an EXPRESSION node with a DERIVES_FROM edge to
// each one without re-traversing the source tree.
type RHS struct {
	Kind RHSKind
	// Name is the referenced variable/function/method name for simple RHS
	// kinds (literal RHS leaves this empty; the literal text lives on the
	// owning info record instead).
	Name string
	// Refs lists every identifier a complex RHS (binary/conditional/unary/
	// template/logical/member, or an unclassified shape) reads from; a new
	// expression carries its constructor name in Name instead.
	Refs []string
	// Discriminator distinguishes an EXPRESSION node synthesized for this
	// RHS from any other at the same scope/name (typically a source
	// position tag).
	Discriminator string
}

// FunctionInfo describes one function, method, or arrow declaration.
type FunctionInfo struct {
	Name        string
	Context     semid.Context
	IsMethod    bool
	IsArrow     bool
	IsAsync     bool
	IsGenerator bool
	Line, Col, EndCol int
}

// ScopeInfo describes one lexical scope frame (block, loop body, etc.) that
// is not itself a function or class.
type ScopeInfo struct {
	Name    string
	Kind    ScopeKind
	Context semid.Context
	Line    int
}

// ParameterInfo describes one function parameter. Position disambiguates
// repeated destructured names in one parameter list.
type ParameterInfo struct {
	Name     string
	Context  semid.Context
	Position int
	Line, Col int
}

// VariableDeclarationInfo describes one `let`/`const`/`var` binding, or one
// class field declaration (IsClassProperty true).
type VariableDeclarationInfo struct {
	Name            string
	Context         semid.Context
	IsConst         bool
	IsClassProperty bool
	Line, Col       int
}

// VariableAssignmentInfo describes one `x = <rhs>` assignment, keyed by the
// variable's resolved node id once the builder looks it up in scope.
type VariableAssignmentInfo struct {
	VariableName string
	Context      semid.Context
	RHS          RHS
	Line, Col    int
}

// CallSiteInfo describes one bare function call, e.g. `foo()`. Args lists
// the identifiers referenced in the argument list, in source order, so the
// builder can emit PASSES_ARGUMENT/RECEIVES_ARGUMENT without re-parsing.
type CallSiteInfo struct {
	CalleeName    string
	Args          []string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// MethodCallInfo describes one `receiver.method()` call.
type MethodCallInfo struct {
	ReceiverName  string
	MethodName    string
	Args          []string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ReturnStatementInfo describes one `return <rhs>` in a function body.
type ReturnStatementInfo struct {
	EnclosingFunction string
	Context           semid.Context
	RHS               RHS
	Line, Col         int
}

// YieldExpressionInfo describes one `yield`/`yield*` expression.
type YieldExpressionInfo struct {
	EnclosingFunction string
	Context           semid.Context
	RHS               RHS
	IsDelegating      bool
	Line, Col         int
}

// ClassDeclarationInfo describes one class (or class expression).
type ClassDeclarationInfo struct {
	Name       string
	Context    semid.Context
	ExtendsOf  string
	Implements []string
	IsExpr     bool
	Line, Col, EndCol int
}

// ClassInstantiationInfo describes one `new C(...)` expression.
type ClassInstantiationInfo struct {
	ClassName     string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ImportSpecifierInfo describes one named/default/namespace specifier in an
// import statement. Column/EndCol are exclusive-end source ranges, falling
// back to 0 when the parser has no column info.
type ImportSpecifierInfo struct {
	LocalName string
	Source    string
	Context   semid.Context
	Line, Col, EndCol int
}

// ImportInfo groups the specifiers of one `import ... from "source"`.
type ImportInfo struct {
	Source      string
	Context     semid.Context
	Specifiers  []ImportSpecifierInfo
	Line        int
}

// ExportInfo describes one export, including re-exports (Source non-empty).
type ExportInfo struct {
	Name    string
	Source  string
	Context semid.Context
	Line    int
}

// LoopInfo describes one for/for-in/for-of/while/do-while loop.
type LoopInfo struct {
	Kind          string
	Context       semid.Context
	IteratesOver  string
	Discriminator string
	Line, Col     int
}

// BranchInfo describes one if/else-if/switch branch.
type BranchInfo struct {
	Kind          string
	Context       semid.Context
	ConditionRHS  RHS
	Discriminator string
	Line, Col     int
}

// TryBlockInfo describes one try/catch/finally construct.
type TryBlockInfo struct {
	Context        semid.Context
	HasCatch       bool
	HasFinally     bool
	CatchParamName string
	Discriminator  string
	Line, Col      int
}

// LiteralInfo describes one primitive literal value.
type LiteralInfo struct {
	Value         string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ObjectLiteralInfo describes one object literal's property names, without
// recursing into each property's value (values become their own LiteralInfo
// or ExpressionInfo records at the point they're used).
type ObjectLiteralInfo struct {
	PropertyNames []string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ArrayLiteralInfo describes one array literal.
type ArrayLiteralInfo struct {
	ElementCount  int
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// UpdateExpressionInfo describes one `x++`/`--x` expression.
type UpdateExpressionInfo struct {
	OperandName   string
	Operator      string
	IsPrefix      bool
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// PromiseResolutionInfo describes one `.then`/`.catch`/`await` site.
type PromiseResolutionInfo struct {
	Kind          string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ExpressionInfo captures the referenced-identifier shape of a complex RHS
// that was not attached inline to an assignment/return/yield record (e.g. a
// bare expression statement), so the builder can still emit DERIVES_FROM
// edges for it.
type ExpressionInfo struct {
	Kind          string
	Refs          []string
	Context       semid.Context
	Discriminator string
	Line, Col     int
}

// ASTCollections is the complete bag of info records produced by analyzing
// one module. It is handed to the graph builder and discarded afterward.
type ASTCollections struct {
	Functions            []FunctionInfo
	Scopes               []ScopeInfo
	VariableDeclarations []VariableDeclarationInfo
	Parameters           []ParameterInfo
	CallSites            []CallSiteInfo
	MethodCalls          []MethodCallInfo
	VariableAssignments  []VariableAssignmentInfo
	Returns              []ReturnStatementInfo
	YieldExpressions     []YieldExpressionInfo
	ClassDeclarations    []ClassDeclarationInfo
	ClassInstantiations  []ClassInstantiationInfo
	Imports              []ImportInfo
	Exports              []ExportInfo
	Loops                []LoopInfo
	Branches             []BranchInfo
	TryBlocks            []TryBlockInfo
	Literals             []LiteralInfo
	ObjectLiterals       []ObjectLiteralInfo
	ArrayLiterals        []ArrayLiteralInfo
	UpdateExpressions    []UpdateExpressionInfo
	PromiseResolutions   []PromiseResolutionInfo
	Expressions          []ExpressionInfo
}
