package model

// GraphNode is one deduplicated node in a graph projection. ID is the
// store's native element identifier and is unique within one projection.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
}

// GraphEdge is one relationship in a graph projection. Edges are not
// deduplicated; parallel relationships between the same node pair each
// produce their own entry.
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// GraphView is a bounded projection of the knowledge graph for rendering.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
