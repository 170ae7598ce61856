package builder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/relayhq/relay/internal/catalog"
)

func setupGatewayServer(t *testing.T) (*httptest.Server, *fakeService) {
	t.Helper()
	svc := newFakeService()
	gw := NewGateway(catalog.NewFileResolver(testSeeds), svc)

	r := chi.NewRouter()
	RegisterRoutes(r, gw)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, svc
}

func dialBuilder(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/builder" + query
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) editResponse {
	t.Helper()
	var resp editResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	return resp
}

func TestGatewaySendsInitialGraph(t *testing.T) {
	server, _ := setupGatewayServer(t)
	conn := dialBuilder(t, server, "")

	resp := readResponse(t, conn)
	if resp.Type != "graph" {
		t.Fatalf("type = %q, want graph", resp.Type)
	}
	if len(resp.Nodes) != 0 || !resp.CanAddAction {
		t.Errorf("initial graph = %+v", resp)
	}
}

func TestGatewayBuildAndSubmit(t *testing.T) {
	server, svc := setupGatewayServer(t)
	conn := dialBuilder(t, server, "")
	readResponse(t, conn) // initial graph

	send := func(ev editEvent) editResponse {
		t.Helper()
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("writing %s: %v", ev.Type, err)
		}
		return readResponse(t, conn)
	}

	resp := send(editEvent{Type: "add_node", Kind: catalog.KindAction, ServiceID: "github", ItemID: "new_issue"})
	if resp.Type != "graph" || len(resp.Nodes) != 1 {
		t.Fatalf("after add action: %+v", resp)
	}
	if resp.CanAddAction {
		t.Error("can_add_action should be false after placing the action")
	}
	actionID := resp.Nodes[0].ID

	resp = send(editEvent{Type: "add_node", Kind: catalog.KindReaction, ServiceID: "slack", ItemID: "post_message"})
	if len(resp.Nodes) != 2 {
		t.Fatalf("after add reaction: %+v", resp)
	}
	reactionID := resp.Nodes[1].ID

	send(editEvent{Type: "configure", NodeID: actionID, Values: map[string]string{"repo": "relayhq/relay"}})
	send(editEvent{Type: "configure", NodeID: reactionID, Values: map[string]string{"channel": "#dev", "text": "hi"}})

	resp = send(editEvent{Type: "connect", SourceID: actionID, TargetID: reactionID})
	if len(resp.Connections) != 1 {
		t.Fatalf("after connect: %+v", resp)
	}

	resp = send(editEvent{Type: "submit"})
	if resp.Type != "submitted" {
		t.Fatalf("submit response = %+v", resp)
	}
	if resp.WorkflowID == "" {
		t.Error("expected workflow id in submit response")
	}
	if len(svc.created) != 1 {
		t.Errorf("got %d creates, want 1", len(svc.created))
	}
}

func TestGatewaySubmitSurfacesValidation(t *testing.T) {
	server, svc := setupGatewayServer(t)
	conn := dialBuilder(t, server, "")
	readResponse(t, conn)

	if err := conn.WriteJSON(editEvent{Type: "submit"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp := readResponse(t, conn)
	if resp.Type != "error" {
		t.Fatalf("type = %q, want error", resp.Type)
	}
	if !strings.Contains(resp.Message, "empty") {
		t.Errorf("message = %q, want empty-workflow problem", resp.Message)
	}
	if len(svc.created) != 0 {
		t.Error("invalid submit must not persist")
	}
}

func TestGatewayUnknownEvent(t *testing.T) {
	server, _ := setupGatewayServer(t)
	conn := dialBuilder(t, server, "")
	readResponse(t, conn)

	if err := conn.WriteJSON(editEvent{Type: "teleport"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp := readResponse(t, conn)
	if resp.Type != "error" || !strings.Contains(resp.Message, "teleport") {
		t.Fatalf("response = %+v", resp)
	}
}

func TestGatewayLoadsExistingWorkflow(t *testing.T) {
	server, svc := setupGatewayServer(t)

	// Seed a stored record through a first session.
	conn := dialBuilder(t, server, "")
	readResponse(t, conn)
	steps := []editEvent{
		{Type: "add_node", Kind: catalog.KindAction, ServiceID: "github", ItemID: "new_issue"},
		{Type: "add_node", Kind: catalog.KindReaction, ServiceID: "slack", ItemID: "post_message"},
	}
	var ids []string
	for _, ev := range steps {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
		resp := readResponse(t, conn)
		ids = append(ids, resp.Nodes[len(resp.Nodes)-1].ID)
	}
	for _, ev := range []editEvent{
		{Type: "configure", NodeID: ids[0], Values: map[string]string{"repo": "r"}},
		{Type: "configure", NodeID: ids[1], Values: map[string]string{"channel": "#c", "text": "t"}},
		{Type: "connect", SourceID: ids[0], TargetID: ids[1]},
		{Type: "submit"},
	} {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
		readResponse(t, conn)
	}
	if len(svc.created) != 1 {
		t.Fatalf("setup submit did not persist")
	}

	// A second session opens the stored workflow for editing.
	conn2 := dialBuilder(t, server, "?workflow=wf-1")
	resp := readResponse(t, conn2)
	if resp.Type != "graph" {
		t.Fatalf("type = %q, want graph", resp.Type)
	}
	if len(resp.Nodes) != 2 || len(resp.Connections) != 1 {
		t.Errorf("loaded graph: %d nodes, %d connections", len(resp.Nodes), len(resp.Connections))
	}
	if resp.CanAddAction {
		t.Error("loaded workflow already has an action")
	}
}
