package builder

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/graph"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// editEvent is the incoming WebSocket message format. Fields are used
// depending on Type.
type editEvent struct {
	Type      string            `json:"type"` // add_node, configure, connect, disconnect, remove_node, toggle, graph, submit
	Kind      catalog.Kind      `json:"kind,omitempty"`
	ServiceID string            `json:"service_id,omitempty"`
	ItemID    string            `json:"item_id,omitempty"`
	NodeID    string            `json:"node_id,omitempty"`
	SourceID  string            `json:"source_id,omitempty"`
	TargetID  string            `json:"target_id,omitempty"`
	Values    map[string]string `json:"values,omitempty"`
	Toggle    bool              `json:"toggle,omitempty"`
}

// editResponse is the outgoing WebSocket message format.
type editResponse struct {
	Type         string             `json:"type"` // graph, error, submitted
	Message      string             `json:"message,omitempty"`
	WorkflowID   string             `json:"workflow_id,omitempty"`
	Nodes        []*graph.Node      `json:"nodes,omitempty"`
	Connections  []graph.Connection `json:"connections,omitempty"`
	CanAddAction bool               `json:"can_add_action,omitempty"`
}

// Gateway upgrades editor connections and runs one builder session per
// connection. Events are read and applied sequentially on the connection's
// goroutine, which is what makes the lock-free graph safe.
type Gateway struct {
	resolver  catalog.Resolver
	workflows WorkflowService
}

// NewGateway creates a gateway building sessions from the given
// dependencies.
func NewGateway(resolver catalog.Resolver, workflows WorkflowService) *Gateway {
	return &Gateway{resolver: resolver, workflows: workflows}
}

// HandleWebSocket is the /ws/builder endpoint. The optional `workflow`
// query parameter loads an existing record for editing.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("builder: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctrl := New(g.resolver, g.workflows)
	if id := r.URL.Query().Get("workflow"); id != "" {
		if err := ctrl.LoadByID(r.Context(), id); err != nil {
			g.sendError(conn, err.Error())
			return
		}
	}
	g.sendGraph(conn, ctrl)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("builder: websocket read: %v", err)
			}
			return
		}

		var ev editEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			g.sendError(conn, "invalid message format")
			continue
		}

		g.apply(conn, r, ctrl, ev)
	}
}

func (g *Gateway) apply(conn *websocket.Conn, r *http.Request, ctrl *Controller, ev editEvent) {
	ctx := r.Context()

	switch ev.Type {
	case "add_node":
		var err error
		switch ev.Kind {
		case catalog.KindAction:
			_, err = ctrl.AddAction(ctx, ev.ServiceID, ev.ItemID)
		case catalog.KindReaction:
			_, err = ctrl.AddReaction(ctx, ev.ServiceID, ev.ItemID)
		default:
			err = errors.New("kind must be action or reaction")
		}
		if err != nil {
			g.sendError(conn, err.Error())
			return
		}
		g.sendGraph(conn, ctrl)

	case "configure":
		ctrl.Configure(ev.NodeID, ev.Values)
		g.sendGraph(conn, ctrl)

	case "connect":
		ctrl.Connect(ev.SourceID, ev.TargetID)
		g.sendGraph(conn, ctrl)

	case "disconnect":
		ctrl.Disconnect(ev.SourceID, ev.TargetID)
		g.sendGraph(conn, ctrl)

	case "remove_node":
		ctrl.Remove(ev.NodeID)
		g.sendGraph(conn, ctrl)

	case "toggle":
		ctrl.SetToggle(ev.Toggle)
		g.sendGraph(conn, ctrl)

	case "graph":
		g.sendGraph(conn, ctrl)

	case "submit":
		if err := ctrl.Submit(ctx); err != nil {
			g.sendError(conn, err.Error())
			return
		}
		g.send(conn, editResponse{Type: "submitted", WorkflowID: ctrl.WorkflowID()})

	default:
		g.sendError(conn, "unknown event type: "+ev.Type)
	}
}

func (g *Gateway) sendGraph(conn *websocket.Conn, ctrl *Controller) {
	g.send(conn, editResponse{
		Type:         "graph",
		Nodes:        ctrl.Graph().Nodes(),
		Connections:  ctrl.Graph().Connections(),
		CanAddAction: ctrl.CanAddAction(),
	})
}

func (g *Gateway) sendError(conn *websocket.Conn, message string) {
	g.send(conn, editResponse{Type: "error", Message: message})
}

func (g *Gateway) send(conn *websocket.Conn, resp editResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("builder: websocket write: %v", err)
	}
}
