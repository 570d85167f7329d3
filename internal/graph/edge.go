package graph

// EdgeType is a tag from the closed set of relations between nodes.
type EdgeType string

const (
	EdgeContains        EdgeType = "CONTAINS"
	EdgeHasParent       EdgeType = "HAS_PARENT"
	EdgeCalls           EdgeType = "CALLS"
	EdgeInstanceOf      EdgeType = "INSTANCE_OF"
	EdgeDerivesFrom      EdgeType = "DERIVES_FROM"
	EdgeExtends         EdgeType = "EXTENDS"
	EdgeImplements      EdgeType = "IMPLEMENTS"
	EdgeAssignedFrom    EdgeType = "ASSIGNED_FROM"
	EdgeReturns         EdgeType = "RETURNS"
	EdgeYields          EdgeType = "YIELDS"
	EdgeDelegatesTo     EdgeType = "DELEGATES_TO"
	EdgeResolvesTo      EdgeType = "RESOLVES_TO"
	EdgePassesArgument  EdgeType = "PASSES_ARGUMENT"
	EdgeReceivesArgument EdgeType = "RECEIVES_ARGUMENT"
	EdgeFlowsInto       EdgeType = "FLOWS_INTO"
	EdgeReadsFrom       EdgeType = "READS_FROM"
	EdgeModifies        EdgeType = "MODIFIES"
	EdgeImportsFrom     EdgeType = "IMPORTS_FROM"
	EdgeExportsFrom     EdgeType = "EXPORTS_FROM"
	EdgeReExports       EdgeType = "RE_EXPORTS"
	EdgeUsesBinding     EdgeType = "USES_BINDING"
	EdgeThrows          EdgeType = "THROWS"
	EdgeCatchesFrom     EdgeType = "CATCHES_FROM"
	EdgeRejects         EdgeType = "REJECTS"
	EdgeHasParameter    EdgeType = "HAS_PARAMETER"
	EdgeHasTypeParameter EdgeType = "HAS_TYPE_PARAMETER"
	EdgeHasBody         EdgeType = "HAS_BODY"
	EdgeIteratesOver    EdgeType = "ITERATES_OVER"
	EdgeHasCondition    EdgeType = "HAS_CONDITION"
	EdgeHasDiscriminant EdgeType = "HAS_DISCRIMINANT"
	EdgeHasConsequent   EdgeType = "HAS_CONSEQUENT"
	EdgeHasAlternate    EdgeType = "HAS_ALTERNATE"
	EdgeHasTest         EdgeType = "HAS_TEST"
	EdgeHandledBy       EdgeType = "HANDLED_BY"
	EdgeOriginatesFrom  EdgeType = "ORIGINATES_FROM"
	EdgeInteractsWith   EdgeType = "INTERACTS_WITH"
	EdgeWritesTo        EdgeType = "WRITES_TO"
	EdgeRenders         EdgeType = "RENDERS"
	EdgePassesProp      EdgeType = "PASSES_PROP"
	EdgeDecoratedBy     EdgeType = "DECORATED_BY"
	EdgeGoverns         EdgeType = "GOVERNS"
	EdgeViolates        EdgeType = "VIOLATES"
)

// Edge is a (type, src, dst) triple with optional metadata.
type Edge struct {
	Type     EdgeType       `json:"type"`
	Src      string         `json:"src"`
	Dst      string         `json:"dst"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
