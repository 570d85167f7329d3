package mangle

import (
	"strings"

	"codekg/internal/graph"
)

// GraphSchema declares the predicates the validation phase and the CLI's
// ad-hoc `query` verb both build on: node/edge mirror the committed graph
// one fact per record, and reaches is the transitive closure of the two
// data-flow edge kinds a variable can derive its value through. Letting
// Mangle compute the closure means a validator never hand-rolls graph
// traversal — it loads the graph as facts once and reads the derived
// predicate back.
const GraphSchema = `
Decl node(Id, Type) bound [/string, /name].
Decl edge(Type, Src, Dst) bound [/name, /string, /string].
Decl flow(X, Y) bound [/string, /string].
Decl reaches(X, Y) bound [/string, /string].

flow(X, Y) :- edge(/assigned_from, X, Y).
flow(X, Y) :- edge(/derives_from, X, Y).
reaches(X, Y) :- flow(X, Y).
reaches(X, Z) :- flow(X, Y), reaches(Y, Z).
`

// NodeFact converts a graph node into a fact against the node predicate.
func NodeFact(n graph.Node) Fact {
	return Fact{Predicate: "node", Args: []interface{}{n.ID, nodeTypeName(n.Type)}}
}

// EdgeFact converts a graph edge into a fact against the edge predicate.
func EdgeFact(e graph.Edge) Fact {
	return Fact{Predicate: "edge", Args: []interface{}{edgeTypeName(e.Type), e.Src, e.Dst}}
}

// nodeTypeName renders a NodeType as the lowercase, slash-free Mangle name
// literal its Decl bound [/name] expects: "VARIABLE" -> "/variable",
// "react:component" -> "/react_component".
func nodeTypeName(t graph.NodeType) string {
	return "/" + sanitizeNameSegment(string(t))
}

func edgeTypeName(t graph.EdgeType) string {
	return "/" + sanitizeNameSegment(string(t))
}

func sanitizeNameSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// LoadGraph loads every node and edge the store currently holds as facts,
// so a validator's reaches queries see the whole committed graph. Call
// once per validation run against a freshly constructed Engine.
func LoadGraph(e *Engine, nodes []graph.Node, edges []graph.Edge) error {
	if err := e.LoadSchemaString(GraphSchema); err != nil {
		return err
	}
	facts := make([]Fact, 0, len(nodes)+len(edges))
	for _, n := range nodes {
		facts = append(facts, NodeFact(n))
	}
	for _, e2 := range edges {
		facts = append(facts, EdgeFact(e2))
	}
	return e.AddFacts(facts)
}
