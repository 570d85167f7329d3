// Package graph defines the node and edge types of the code knowledge graph
// and the node factory that is the sole place of truth for id construction
// and required-field validation per node kind.
package graph

import "codekg/internal/semid"

// NodeType is a tag from the closed set of semantic code-entity kinds. It is
// an alias for semid.NodeType: semid.Compute/Parse need the type tag to
// build and decompose ids, and this package depends on semid for that, so
// the tag itself has to live on semid's side to avoid the two packages
// importing each other.
type NodeType = semid.NodeType

const (
	NodeModule        = semid.NodeModule
	NodeFunction      = semid.NodeFunction
	NodeClass         = semid.NodeClass
	NodeVariable      = semid.NodeVariable
	NodeConstant      = semid.NodeConstant
	NodeParameter     = semid.NodeParameter
	NodeCall          = semid.NodeCall
	NodeMethodCall    = semid.NodeMethodCall
	NodeLiteral       = semid.NodeLiteral
	NodeArrayLiteral  = semid.NodeArrayLiteral
	NodeObjectLiteral = semid.NodeObjectLiteral
	NodeExpression    = semid.NodeExpression
	NodeImport        = semid.NodeImport
	NodeExport        = semid.NodeExport
	NodeScope         = semid.NodeScope
	NodeLoop          = semid.NodeLoop
	NodeBranch        = semid.NodeBranch
	NodeCase          = semid.NodeCase
	NodeTry           = semid.NodeTry
	NodeCatch         = semid.NodeCatch
	NodeFinally       = semid.NodeFinally
	NodeInterface     = semid.NodeInterface
	NodeType_         = semid.NodeType_
	NodeEnum          = semid.NodeEnum
	NodeDecorator     = semid.NodeDecorator
	NodeTypeParameter = semid.NodeTypeParameter
	NodeEventListener = semid.NodeEventListener
	NodeHTTPRequest   = semid.NodeHTTPRequest
	NodeNetRequest    = semid.NodeNetRequest
	NodeNetStdio      = semid.NodeNetStdio
	NodeFSOperation   = semid.NodeFSOperation
	NodeDBQuery       = semid.NodeDBQuery
	NodeUpdateExpr    = semid.NodeUpdateExpr

	// Framework-specific tags.
	NodeReactComponent      = semid.NodeReactComponent
	NodeReactEffect         = semid.NodeReactEffect
	NodeReactState          = semid.NodeReactState
	NodeBrowserTimer        = semid.NodeBrowserTimer
	NodeIssueStaleClosure   = semid.NodeIssueStaleClosure
	NodeIssueMissingCleanup = semid.NodeIssueMissingCleanup
)

// Node is the minimum shape every code-graph node carries.
type Node struct {
	ID        string         `json:"id"`
	Type      NodeType       `json:"type"`
	Name      string         `json:"name"`
	File      string         `json:"file"`
	Line      int            `json:"line,omitempty"`
	Column    int            `json:"column,omitempty"`
	EndColumn int            `json:"end_column,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Singleton ids are fixed literals outside the semantic-id scheme.
const (
	NetRequestSingletonID = semid.NetRequestSingletonID
	StdioSingletonID      = semid.StdioSingletonID
)
