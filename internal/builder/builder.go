package builder

import (
	"context"
	"fmt"

	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/graph"
	"github.com/relayhq/relay/internal/workflow"
)

// WorkflowService persists workflows. Satisfied by workflow.Client for
// remote builders and workflow.StoreService in-process.
type WorkflowService interface {
	Create(ctx context.Context, w *workflow.Workflow) (*workflow.Workflow, error)
	Update(ctx context.Context, id string, w *workflow.Workflow) (*workflow.Workflow, error)
	Get(ctx context.Context, id string) (*workflow.Workflow, error)
}

// Controller orchestrates one editing session: catalog picks become nodes,
// canvas edits become connections, and Submit ties the validator, the
// serializer and the persistence service together. All mutations are
// applied from a single goroutine (the editor event loop), so the graph
// needs no locking.
type Controller struct {
	g          *graph.Graph
	resolver   catalog.Resolver
	workflows  WorkflowService
	workflowID string
	toggle     bool
}

// New creates a controller over an empty graph.
func New(resolver catalog.Resolver, workflows WorkflowService) *Controller {
	return &Controller{
		g:         graph.New(),
		resolver:  resolver,
		workflows: workflows,
	}
}

// LoadByID fetches a persisted workflow and loads it for editing.
func (c *Controller) LoadByID(ctx context.Context, id string) error {
	w, err := c.workflows.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading workflow %s: %w", id, err)
	}
	return c.Load(ctx, w)
}

// Load reconstructs the editing graph from a persisted workflow.
// Subsequent Submit calls update that record instead of creating one.
func (c *Controller) Load(ctx context.Context, w *workflow.Workflow) error {
	g, err := workflow.ToGraph(ctx, w, c.resolver)
	if err != nil {
		return err
	}
	c.g = g
	c.workflowID = w.ID
	c.toggle = w.Toggle
	return nil
}

// Graph exposes the current graph to the rendering layer.
func (c *Controller) Graph() *graph.Graph { return c.g }

// WorkflowID returns the id of the record being edited, or "" for a new
// workflow.
func (c *Controller) WorkflowID() string { return c.workflowID }

// CanAddAction reports whether the add-action affordance should be enabled.
// This is a usability guard on top of the validator's authoritative
// exactly-one-action check, not a replacement for it.
func (c *Controller) CanAddAction() bool { return c.g.ActionNode() == nil }

// AddAction resolves a catalog pick and places the trigger node.
func (c *Controller) AddAction(ctx context.Context, serviceID, itemID string) (*graph.Node, error) {
	if !c.CanAddAction() {
		return nil, fmt.Errorf("workflow already has an action")
	}
	return c.addNode(ctx, catalog.KindAction, serviceID, itemID)
}

// AddReaction resolves a catalog pick and places a reaction node.
func (c *Controller) AddReaction(ctx context.Context, serviceID, itemID string) (*graph.Node, error) {
	return c.addNode(ctx, catalog.KindReaction, serviceID, itemID)
}

func (c *Controller) addNode(ctx context.Context, kind catalog.Kind, serviceID, itemID string) (*graph.Node, error) {
	svc, err := c.resolver.Service(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("resolving service %s: %w", serviceID, err)
	}
	item, err := c.resolver.Item(ctx, serviceID, itemID, kind)
	if err != nil {
		return nil, fmt.Errorf("resolving %s %s/%s: %w", kind, serviceID, itemID, err)
	}
	return c.g.AddNode(kind, *svc, *item), nil
}

// Configure replaces a node's field values (node editor save).
func (c *Controller) Configure(nodeID string, values map[string]string) {
	c.g.ConfigureNode(nodeID, values)
}

// Remove deletes a node and its connections.
func (c *Controller) Remove(nodeID string) {
	c.g.RemoveNode(nodeID)
}

// Connect links two nodes (canvas edge draw).
func (c *Controller) Connect(sourceID, targetID string) {
	c.g.Connect(sourceID, targetID)
}

// Disconnect removes an edge (canvas edge delete).
func (c *Controller) Disconnect(sourceID, targetID string) {
	c.g.Disconnect(sourceID, targetID)
}

// SetToggle sets the active state submitted with the workflow.
func (c *Controller) SetToggle(toggle bool) { c.toggle = toggle }

// Submit validates the graph, serializes it and persists it. A
// *graph.ValidationError is returned as-is for the editor to surface; a
// persistence failure leaves the graph untouched, so retrying Submit is
// always safe (validation reruns every time).
func (c *Controller) Submit(ctx context.Context) error {
	if err := c.g.Validate(); err != nil {
		return err
	}

	dto := workflow.FromGraph(c.g, c.toggle)

	if c.workflowID == "" {
		created, err := c.workflows.Create(ctx, dto)
		if err != nil {
			return fmt.Errorf("saving workflow: %w", err)
		}
		c.workflowID = created.ID
		return nil
	}

	dto.ID = c.workflowID
	if _, err := c.workflows.Update(ctx, c.workflowID, dto); err != nil {
		return fmt.Errorf("saving workflow: %w", err)
	}
	return nil
}
