package graphqlws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygo/gqlengine/transport/graphqlws"
)

type testHandler struct {
	conn       *graphqlws.Connection
	startedIDs chan string
	stoppedIDs chan string
}

func (h *testHandler) HandleInit(parameters json.RawMessage) error { return nil }

func (h *testHandler) HandleStart(id string, query string, variables map[string]interface{}, operationName string) {
	h.startedIDs <- id
	h.conn.SendData(context.Background(), id, map[string]interface{}{"data": map[string]interface{}{"echo": query}})
	h.conn.SendComplete(context.Background(), id)
}

func (h *testHandler) HandleStop(id string) { h.stoppedIDs <- id }
func (h *testHandler) LogError(err error)    {}
func (h *testHandler) Cancel()               {}
func (h *testHandler) HandleClose()          {}

func newTestServer(t *testing.T) (*httptest.Server, *testHandler) {
	handler := &testHandler{startedIDs: make(chan string, 10), stoppedIDs: make(chan string, 10)}
	upgrader := websocket.Upgrader{
		Subprotocols: []string{graphqlws.SubprotocolJSON, graphqlws.SubprotocolMsgpack},
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		c := &graphqlws.Connection{Handler: handler}
		handler.conn = c
		c.Serve(conn, conn.Subprotocol())
	}))
	t.Cleanup(ts.Close)
	return ts, handler
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	dialer := &websocket.Dialer{
		HandshakeTimeout: time.Second,
		Subprotocols:     []string{graphqlws.SubprotocolJSON},
	}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConnectionInitAckAndKeepAlive(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(&graphqlws.Message{Type: graphqlws.MessageTypeConnectionInit}))

	var msg graphqlws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, graphqlws.MessageTypeConnectionAck, msg.Type)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, graphqlws.MessageTypeConnectionKeepAlive, msg.Type)
}

func TestStartRunsOperationAndCompletes(t *testing.T) {
	ts, handler := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(&graphqlws.Message{Type: graphqlws.MessageTypeConnectionInit}))
	var msg graphqlws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.NoError(t, conn.ReadJSON(&msg))

	startPayload, err := json.Marshal(graphqlws.StartPayload{Query: "{ foo }"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(&graphqlws.Message{Id: "op1", Type: graphqlws.MessageTypeStart, Payload: startPayload}))

	select {
	case id := <-handler.startedIDs:
		assert.Equal(t, "op1", id)
	case <-time.After(time.Second):
		t.Fatal("HandleStart was never called")
	}

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, graphqlws.MessageTypeData, msg.Type)
	assert.Equal(t, "op1", msg.Id)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, graphqlws.MessageTypeComplete, msg.Type)
	assert.Equal(t, "op1", msg.Id)
}

func TestStopInvokesHandleStop(t *testing.T) {
	ts, handler := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(&graphqlws.Message{Type: graphqlws.MessageTypeConnectionInit}))
	var msg graphqlws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.NoError(t, conn.ReadJSON(&msg))

	require.NoError(t, conn.WriteJSON(&graphqlws.Message{Id: "op2", Type: graphqlws.MessageTypeStop}))

	select {
	case id := <-handler.stoppedIDs:
		assert.Equal(t, "op2", id)
	case <-time.After(time.Second):
		t.Fatal("HandleStop was never called")
	}

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, graphqlws.MessageTypeComplete, msg.Type)
}
