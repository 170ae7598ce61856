package graph

import (
	"fmt"

	"github.com/relayhq/relay/internal/catalog"
)

// Node is one placed element of the editor canvas: either the workflow's
// single trigger (action kind) or one downstream effect (reaction kind).
// Kind, service and catalog item are fixed at creation; only Values changes.
type Node struct {
	ID           string            `json:"id"`
	Kind         catalog.Kind      `json:"kind"`
	ServiceID    string            `json:"service_id"`
	ServiceName  string            `json:"service_name"`
	ServiceColor string            `json:"service_color,omitempty"`
	Item         catalog.Item      `json:"item"`
	Values       map[string]string `json:"values"`
}

// Connection is a directed edge from an action node to a reaction node.
type Connection struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// IDAllocator produces a node id from the node's kind, its catalog item id
// and a per-graph monotonic sequence number. Keeping the clock out of id
// generation makes graph construction deterministic.
type IDAllocator func(kind catalog.Kind, itemID string, seq int) string

// DefaultAllocator formats ids as "<kind>-<itemID>-<seq>".
func DefaultAllocator(kind catalog.Kind, itemID string, seq int) string {
	return fmt.Sprintf("%s-%s-%d", kind, itemID, seq)
}

// Graph holds the nodes and connections being edited. It is a permissive
// container: structural legality (one action, linkage, field completeness)
// is the Validator's job at submit time, not enforced on mutation. Not safe
// for concurrent use; the builder applies mutations from a single goroutine.
type Graph struct {
	nodes       []*Node
	connections []Connection
	alloc       IDAllocator
	seq         int
}

// New creates an empty graph using DefaultAllocator.
func New() *Graph {
	return NewWithAllocator(DefaultAllocator)
}

// NewWithAllocator creates an empty graph with a custom id allocator.
func NewWithAllocator(alloc IDAllocator) *Graph {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	return &Graph{alloc: alloc}
}

// AddNode appends a node for the given service and catalog item, with an
// empty values map. Adding a second action node is not blocked here; the
// validator rejects it at submit time.
func (g *Graph) AddNode(kind catalog.Kind, svc catalog.Service, item catalog.Item) *Node {
	n := &Node{
		ID:           g.alloc(kind, item.ID, g.seq),
		Kind:         kind,
		ServiceID:    svc.ID,
		ServiceName:  svc.Name,
		ServiceColor: svc.Color,
		Item:         item,
		Values:       map[string]string{},
	}
	g.seq++
	g.nodes = append(g.nodes, n)
	return n
}

// ConfigureNode replaces the node's values map wholesale. Unknown ids are
// ignored. Keys outside the item's field schema are kept here; they are
// dropped at serialization time.
func (g *Graph) ConfigureNode(id string, values map[string]string) {
	n := g.node(id)
	if n == nil {
		return
	}
	if values == nil {
		values = map[string]string{}
	}
	n.Values = values
}

// RemoveNode deletes the node and every connection referencing it.
func (g *Graph) RemoveNode(id string) {
	kept := g.nodes[:0]
	for _, n := range g.nodes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	g.nodes = kept

	conns := g.connections[:0]
	for _, c := range g.connections {
		if c.SourceID != id && c.TargetID != id {
			conns = append(conns, c)
		}
	}
	g.connections = conns
}

// Connect inserts a directed connection. Reconnecting an already-connected
// pair is an idempotent upsert: the existing connection is returned and no
// duplicate edge is created. Kind legality is not checked here.
func (g *Graph) Connect(sourceID, targetID string) Connection {
	for _, c := range g.connections {
		if c.SourceID == sourceID && c.TargetID == targetID {
			return c
		}
	}
	c := Connection{
		ID:       fmt.Sprintf("%s->%s", sourceID, targetID),
		SourceID: sourceID,
		TargetID: targetID,
	}
	g.connections = append(g.connections, c)
	return c
}

// Disconnect removes the connection between the given pair, if present.
func (g *Graph) Disconnect(sourceID, targetID string) {
	conns := g.connections[:0]
	for _, c := range g.connections {
		if c.SourceID != sourceID || c.TargetID != targetID {
			conns = append(conns, c)
		}
	}
	g.connections = conns
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Connections returns the current connections.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// ActionNode returns the first action-kind node, or nil.
func (g *Graph) ActionNode() *Node {
	for _, n := range g.nodes {
		if n.Kind == catalog.KindAction {
			return n
		}
	}
	return nil
}

// ReactionNodes returns all reaction-kind nodes in insertion order.
func (g *Graph) ReactionNodes() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == catalog.KindReaction {
			out = append(out, n)
		}
	}
	return out
}

// LinkedReactions returns the reaction nodes that have a connection from the
// action node, in node insertion order (not connection creation order).
// These are the only reactions eligible for the persisted payload.
func (g *Graph) LinkedReactions() []*Node {
	action := g.ActionNode()
	if action == nil {
		return nil
	}
	var out []*Node
	for _, n := range g.ReactionNodes() {
		if g.linked(action.ID, n.ID) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) linked(sourceID, targetID string) bool {
	for _, c := range g.connections {
		if c.SourceID == sourceID && c.TargetID == targetID {
			return true
		}
	}
	return false
}

func (g *Graph) node(id string) *Node {
	for _, n := range g.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
