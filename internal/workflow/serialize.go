package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/graph"
)

// FromGraph flattens an editor graph into its persisted form. The caller is
// expected to have run g.Validate() first; the builder always does. The
// trigger comes from the single action node, the reactions from the nodes
// linked to it, in node insertion order. Values are filtered to each item's
// field schema so stray keys never reach the record.
func FromGraph(g *graph.Graph, toggle bool) *Workflow {
	w := &Workflow{Toggle: toggle, Reactions: []Reaction{}}

	if action := g.ActionNode(); action != nil {
		w.Trigger = Trigger{
			ServiceID: action.ServiceID,
			ActionID:  action.Item.ID,
			Body:      schemaBody(action),
		}
	}

	for _, n := range g.LinkedReactions() {
		w.Reactions = append(w.Reactions, Reaction{
			ServiceID:  n.ServiceID,
			ReactionID: n.Item.ID,
			Body:       schemaBody(n),
		})
	}
	return w
}

// schemaBody copies the node's values restricted to its field schema.
func schemaBody(n *graph.Node) Body {
	body := make(Body, len(n.Item.Fields))
	for _, field := range n.Item.Fields {
		if v, ok := n.Values[field]; ok {
			body[field] = v
		}
	}
	return body
}

// ToGraph reconstructs an editor graph from a persisted workflow, resolving
// services and items against the catalog. A missing catalog item or service
// is not an error: the editor must stay usable for workflows referencing
// definitions a service no longer advertises, so placeholders are
// synthesized instead. Node ids are regenerated deterministically from the
// graph's allocator sequence, and every reaction is connected to the
// trigger unconditionally (persisted reactions are always linked).
func ToGraph(ctx context.Context, w *Workflow, resolver catalog.Resolver) (*graph.Graph, error) {
	g := graph.New()

	svc, item, err := resolve(ctx, resolver, w.Trigger.ServiceID, w.Trigger.ActionID, catalog.KindAction)
	if err != nil {
		return nil, err
	}
	action := g.AddNode(catalog.KindAction, svc, item)
	g.ConfigureNode(action.ID, map[string]string(w.Trigger.Body))

	for _, reaction := range w.Reactions {
		svc, item, err := resolve(ctx, resolver, reaction.ServiceID, reaction.ReactionID, catalog.KindReaction)
		if err != nil {
			return nil, err
		}
		n := g.AddNode(catalog.KindReaction, svc, item)
		g.ConfigureNode(n.ID, map[string]string(reaction.Body))
		g.Connect(action.ID, n.ID)
	}

	return g, nil
}

// resolve looks up a service and item, falling back to placeholders on
// catalog gaps. Transport errors still propagate.
func resolve(ctx context.Context, resolver catalog.Resolver, serviceID, itemID string, kind catalog.Kind) (catalog.Service, catalog.Item, error) {
	var svc catalog.Service
	switch got, err := resolver.Service(ctx, serviceID); {
	case err == nil:
		svc = *got
	case errors.Is(err, catalog.ErrNotFound):
		svc = catalog.Service{ID: serviceID, Name: serviceID}
	default:
		return catalog.Service{}, catalog.Item{}, fmt.Errorf("resolving service %s: %w", serviceID, err)
	}

	var item catalog.Item
	switch got, err := resolver.Item(ctx, serviceID, itemID, kind); {
	case err == nil:
		item = *got
	case errors.Is(err, catalog.ErrNotFound):
		item = placeholderItem(itemID, kind)
	default:
		return catalog.Service{}, catalog.Item{}, fmt.Errorf("resolving item %s/%s: %w", serviceID, itemID, err)
	}

	return svc, item, nil
}

// placeholderItem stands in for a catalog item that is no longer
// advertised. Its empty field schema keeps the node vacuously complete, so
// stale workflows still validate and resubmit.
func placeholderItem(itemID string, kind catalog.Kind) catalog.Item {
	name := "Action " + itemID
	if kind == catalog.KindReaction {
		name = "Reaction " + itemID
	}
	return catalog.Item{
		ID:   itemID,
		Name: name,
		Kind: kind,
	}
}
