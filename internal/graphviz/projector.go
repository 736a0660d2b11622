package graphviz

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Diluksha-Upeka/Neurospace/internal/driver"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

const chunkLabelRunes = 20

// Projector renders a bounded, deduplicated view of the knowledge graph
// for a downstream visualizer. The limit caps response size only; it is not
// a pagination cursor and repeated calls may see different subsets.
type Projector struct {
	Driver driver.GraphDriver
}

func NewProjector(d driver.GraphDriver) *Projector {
	return &Projector{Driver: d}
}

func (p *Projector) Project(ctx context.Context, limit int) (*model.GraphView, error) {
	if limit <= 0 {
		limit = 100
	}

	log.Printf("Fetching graph projection (limit %d)...", limit)

	result, err := p.Driver.ExecuteQuery(ctx, driver.ProjectGraphQuery, map[string]interface{}{
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("graph projection query failed: %w", err)
	}

	seen := make(map[string]bool)
	view := &model.GraphView{
		Nodes: []model.GraphNode{},
		Edges: []model.GraphEdge{},
	}

	for _, record := range result.Records {
		nVal, _ := record.Get("n")
		rVal, _ := record.Get("r")
		mVal, _ := record.Get("m")

		n, okN := nVal.(neo4j.Node)
		r, okR := rVal.(neo4j.Relationship)
		m, okM := mVal.(neo4j.Node)
		if !okN || !okR || !okM {
			continue
		}

		addNode(view, seen, n)
		addNode(view, seen, m)

		// Edges are deliberately not deduplicated: parallel relationships
		// between the same pair each get their own entry.
		view.Edges = append(view.Edges, model.GraphEdge{
			ID:     r.ElementId,
			Source: n.ElementId,
			Target: m.ElementId,
			Label:  r.Type,
		})
	}

	return view, nil
}

// addNode inserts a node unless its element id was already seen; the first
// occurrence's label and group win.
func addNode(view *model.GraphView, seen map[string]bool, node neo4j.Node) {
	if seen[node.ElementId] {
		return
	}
	seen[node.ElementId] = true

	group := "Unknown"
	if len(node.Labels) > 0 {
		group = node.Labels[0]
	}

	view.Nodes = append(view.Nodes, model.GraphNode{
		ID:    node.ElementId,
		Label: displayLabel(node, group),
		Group: group,
	})
}

// displayLabel picks the best text to show for a node: a name property,
// else an id property, else a placeholder. Chunk nodes are labeled by the
// head of their text instead, since a generic id tells the viewer nothing.
func displayLabel(node neo4j.Node, group string) string {
	if group == "Chunk" {
		text, _ := node.Props["text"].(string)
		runes := []rune(text)
		if len(runes) > chunkLabelRunes {
			runes = runes[:chunkLabelRunes]
		}
		return string(runes) + "..."
	}

	if name, ok := node.Props["name"].(string); ok && name != "" {
		return name
	}
	if id, ok := node.Props["id"].(string); ok && id != "" {
		return id
	}
	return "Node"
}
