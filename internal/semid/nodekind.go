package semid

// NodeType is a tag from the closed set of semantic code-entity kinds. It
// lives here rather than in package graph because Compute/Parse need it and
// graph already depends on this package for id construction — defining it
// the other way round would make the two packages import each other.
type NodeType string

const (
	NodeModule        NodeType = "MODULE"
	NodeFunction      NodeType = "FUNCTION"
	NodeClass         NodeType = "CLASS"
	NodeVariable      NodeType = "VARIABLE"
	NodeConstant      NodeType = "CONSTANT"
	NodeParameter     NodeType = "PARAMETER"
	NodeCall          NodeType = "CALL"
	NodeMethodCall    NodeType = "METHOD_CALL"
	NodeLiteral       NodeType = "LITERAL"
	NodeArrayLiteral  NodeType = "ARRAY_LITERAL"
	NodeObjectLiteral NodeType = "OBJECT_LITERAL"
	NodeExpression    NodeType = "EXPRESSION"
	NodeImport        NodeType = "IMPORT"
	NodeExport        NodeType = "EXPORT"
	NodeScope         NodeType = "SCOPE"
	NodeLoop          NodeType = "LOOP"
	NodeBranch        NodeType = "BRANCH"
	NodeCase          NodeType = "CASE"
	NodeTry           NodeType = "TRY"
	NodeCatch         NodeType = "CATCH"
	NodeFinally       NodeType = "FINALLY"
	NodeInterface     NodeType = "INTERFACE"
	NodeType_         NodeType = "TYPE"
	NodeEnum          NodeType = "ENUM"
	NodeDecorator     NodeType = "DECORATOR"
	NodeTypeParameter NodeType = "TYPE_PARAMETER"
	NodeEventListener NodeType = "EVENT_LISTENER"
	NodeHTTPRequest   NodeType = "HTTP_REQUEST"
	NodeNetRequest    NodeType = "NET_REQUEST"
	NodeNetStdio      NodeType = "NET_STDIO"
	NodeFSOperation   NodeType = "FS_OPERATION"
	NodeDBQuery       NodeType = "DB_QUERY"
	NodeUpdateExpr    NodeType = "UPDATE_EXPRESSION"

	// Framework-specific tags.
	NodeReactComponent      NodeType = "react:component"
	NodeReactEffect         NodeType = "react:effect"
	NodeReactState          NodeType = "react:state"
	NodeBrowserTimer        NodeType = "browser:timer"
	NodeIssueStaleClosure   NodeType = "issue:stale-closure"
	NodeIssueMissingCleanup NodeType = "issue:missing-cleanup"
)

// Singleton ids are fixed literals outside the id scheme Compute/Parse
// implement.
const (
	NetRequestSingletonID = "singleton->NET_REQUEST->network"
	StdioSingletonID      = "singleton->NET_STDIO->stdio"
)
