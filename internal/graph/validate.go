package graph

import (
	"fmt"
	"strings"

	"github.com/relayhq/relay/internal/catalog"
)

// ValidationError is a user-correctable structural problem found at submit
// time. It is surfaced to the editor one at a time and never logged.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func problemf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate runs the structural checks in order and returns the first
// failure as a *ValidationError, or nil if the graph is submittable:
//
//  1. the graph is not empty
//  2. exactly one action node exists
//  3. at least one reaction node exists
//  4. every schema field of every node has a non-blank value
//     (node insertion order, then field schema order)
//  5. every reaction node is linked from the action node
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return problemf("workflow is empty: add one action and at least one reaction")
	}

	var actions int
	for _, n := range g.nodes {
		if n.Kind == catalog.KindAction {
			actions++
		}
	}
	switch {
	case actions == 0:
		return problemf("workflow needs exactly one action")
	case actions > 1:
		return problemf("only one action is allowed per workflow")
	}

	if len(g.ReactionNodes()) == 0 {
		return problemf("workflow needs at least one reaction")
	}

	for _, n := range g.nodes {
		for _, field := range n.Item.Fields {
			if strings.TrimSpace(n.Values[field]) == "" {
				return problemf("field %q of %s is empty", field, n.Item.Name)
			}
		}
	}

	action := g.ActionNode()
	for _, n := range g.ReactionNodes() {
		if !g.linked(action.ID, n.ID) {
			return problemf("reaction %q must be linked from the action %q", n.Item.Name, action.Item.Name)
		}
	}

	return nil
}
