package graphqlws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Subprotocol names this package negotiates during the WebSocket handshake.
const (
	SubprotocolJSON    = "graphql-ws"
	SubprotocolMsgpack = "graphql-msgpack-ws"
)

type codec struct {
	frameType int
	marshal   func(v interface{}) ([]byte, error)
	unmarshal func(data []byte, v interface{}) error
}

var jsonCodec = codec{frameType: websocket.TextMessage, marshal: json.Marshal, unmarshal: json.Unmarshal}
var msgpackCodec = codec{frameType: websocket.BinaryMessage, marshal: msgpack.Marshal, unmarshal: msgpack.Unmarshal}

func codecForSubprotocol(name string) codec {
	if name == SubprotocolMsgpack {
		return msgpackCodec
	}
	return jsonCodec
}

// Connection is a server-side graphql-ws (or graphql-msgpack-ws) connection.
// It frames and deframes protocol messages; it knows nothing about parsing
// or executing GraphQL requests, which remain the Handler's responsibility
// (consistent with this module's execution-engine-only scope).
type Connection struct {
	Handler ConnectionHandler

	conn              *websocket.Conn
	codec             codec
	readLoopDone      chan struct{}
	writeLoopDone     chan struct{}
	outgoing          chan []byte
	close             chan struct{}
	closeReceived     chan struct{}
	closeMessage      chan []byte
	beginClosingOnce  sync.Once
	finishClosingOnce sync.Once
	didInit           bool
}

// ConnectionHandler methods may be invoked on a separate goroutine, but
// invocations are never made concurrently with each other.
type ConnectionHandler interface {
	// HandleInit is called when the client sends connection_init. If it
	// returns an error, that error is sent to the client and the connection
	// is closed.
	HandleInit(parameters json.RawMessage) error

	// HandleStart is called when the client starts an operation. The query
	// string is handed over unparsed — the handler is expected to parse,
	// validate, build a gqlengine.Request, and call SendData/SendComplete
	// (once for a query/mutation, repeatedly for a subscription) itself.
	HandleStart(id string, query string, variables map[string]interface{}, operationName string)

	// HandleStop is called when the client wants to cancel a running
	// subscription.
	HandleStop(id string)

	// LogError is called for unexpected protocol/transport errors.
	LogError(err error)

	// Cancel is called once the connection begins closing; in-flight
	// operations should be canceled.
	Cancel()

	// HandleClose is called once the connection has fully closed.
	HandleClose()
}

const connectionSendBufferSize = 100

// Serve takes ownership of conn and begins its read/write loops. subprotocol
// is the negotiated WebSocket subprotocol (SubprotocolJSON or
// SubprotocolMsgpack); an unrecognized value falls back to JSON.
func (c *Connection) Serve(conn *websocket.Conn, subprotocol string) {
	c.conn = conn
	c.codec = codecForSubprotocol(subprotocol)
	c.readLoopDone = make(chan struct{})
	c.writeLoopDone = make(chan struct{})
	c.outgoing = make(chan []byte, connectionSendBufferSize)
	c.close = make(chan struct{})
	c.closeReceived = make(chan struct{})
	c.closeMessage = make(chan []byte, 1)
	conn.SetCloseHandler(func(code int, text string) error {
		select {
		case <-c.closeReceived:
		default:
			close(c.closeReceived)
		}
		return nil
	})
	go c.readLoop()
	go c.writeLoop()
}

// SendData sends a GraphQL response (as, e.g., a *gqlengine.Response) to the
// client for the operation named id.
func (c *Connection) SendData(ctx context.Context, id string, response interface{}) error {
	buf, err := c.codec.marshal(response)
	if err != nil {
		return errors.Wrap(err, "unable to marshal graphql response")
	}
	return c.sendMessage(ctx, &Message{Id: id, Type: MessageTypeData, Payload: buf})
}

// SendComplete tells the client that the operation named id has finished.
func (c *Connection) SendComplete(ctx context.Context, id string) error {
	return c.sendMessage(ctx, &Message{Id: id, Type: MessageTypeComplete})
}

// Close begins and waits for the connection to close cleanly. It must not be
// called from a ConnectionHandler method.
func (c *Connection) Close() error {
	c.beginClosing(websocket.CloseNormalClosure, "close requested by application")
	c.finishClosing()
	return nil
}

func (c *Connection) sendMessage(ctx context.Context, msg *Message) error {
	data, err := c.codec.marshal(msg)
	if err != nil {
		return errors.Wrap(err, "error marshaling message")
	}
	select {
	case c.outgoing <- data:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (c *Connection) readLoop() {
	defer close(c.readLoopDone)
	defer c.beginClosing(websocket.CloseInternalServerErr, "read error")

	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if _, ok := err.(*websocket.CloseError); !ok {
				select {
				case <-c.close:
				default:
					c.Handler.LogError(errors.Wrap(err, "websocket read error"))
				}
			}
			return
		}
		c.handleMessage(context.Background(), p)
	}
}

func (c *Connection) handleMessage(ctx context.Context, data []byte) {
	var msg Message
	if err := c.codec.unmarshal(data, &msg); err != nil {
		// ignore malformed messages, same as the teacher's transport
		return
	}

	switch msg.Type {
	case MessageTypeConnectionInit:
		c.handleConnectionInit(ctx, msg)
	case MessageTypeStart:
		c.handleStart(msg)
	case MessageTypeStop:
		c.handleStop(ctx, msg)
	case MessageTypeConnectionTerminate:
		c.beginClosing(websocket.CloseNormalClosure, "terminate requested by client")
	default:
		// ignore unknown message types
	}
}

func (c *Connection) handleConnectionInit(ctx context.Context, msg Message) {
	if err := c.Handler.HandleInit(msg.Payload); err != nil {
		payload, marshalErr := c.codec.marshal(struct {
			Message string `json:"message" msgpack:"message"`
		}{Message: err.Error()})
		if marshalErr != nil {
			c.Handler.LogError(errors.Wrap(marshalErr, "unable to marshal connection error payload"))
		} else if sendErr := c.sendMessage(ctx, &Message{Id: msg.Id, Type: MessageTypeConnectionError, Payload: payload}); sendErr != nil {
			c.Handler.LogError(errors.Wrap(sendErr, "unable to send connection error"))
		}
		c.beginClosing(websocket.CloseInternalServerErr, "connection init error")
		return
	}

	c.didInit = true
	if err := c.sendMessage(ctx, &Message{Id: msg.Id, Type: MessageTypeConnectionAck}); err != nil {
		c.Handler.LogError(errors.Wrap(err, "unable to send connection ack"))
		c.beginClosing(websocket.CloseInternalServerErr, "ack send error")
		return
	}
	if err := c.sendMessage(ctx, &Message{Type: MessageTypeConnectionKeepAlive}); err != nil {
		c.Handler.LogError(errors.Wrap(err, "unable to send initial keep-alive"))
		c.beginClosing(websocket.CloseInternalServerErr, "keep-alive send error")
	}
}

func (c *Connection) handleStart(msg Message) {
	if !c.didInit {
		return
	}
	var payload StartPayload
	if err := c.codec.unmarshal(msg.Payload, &payload); err != nil {
		// ignore malformed messages
		return
	}
	c.Handler.HandleStart(msg.Id, payload.Query, payload.Variables, payload.OperationName)
}

func (c *Connection) handleStop(ctx context.Context, msg Message) {
	if !c.didInit {
		return
	}
	c.Handler.HandleStop(msg.Id)
	if err := c.sendMessage(ctx, &Message{Id: msg.Id, Type: MessageTypeComplete}); err != nil {
		c.Handler.LogError(errors.Wrap(err, "unable to send stop response"))
	}
}

func (c *Connection) writeLoop() {
	defer c.finishClosing()
	defer close(c.writeLoopDone)
	defer c.conn.Close()

	keepAliveTicker := time.NewTicker(15 * time.Second)
	defer keepAliveTicker.Stop()

	keepAlive, err := c.codec.marshal(&Message{Type: MessageTypeConnectionKeepAlive})
	if err != nil {
		c.Handler.LogError(errors.Wrap(err, "error marshaling keep-alive message"))
		return
	}

	for {
		var data []byte
		select {
		case outgoing := <-c.outgoing:
			data = outgoing
		case <-keepAliveTicker.C:
			data = keepAlive
		case msg := <-c.closeMessage:
			c.drainAndClose(msg)
			return
		case <-c.closeReceived:
			if err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "close requested by client")); err != nil {
				c.Handler.LogError(errors.Wrap(err, "websocket control write error"))
			}
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(c.codec.frameType, data); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseGoingAway) && err != websocket.ErrCloseSent {
				c.Handler.LogError(errors.Wrap(err, "websocket write error"))
			}
			return
		}
	}
}

// drainAndClose flushes any already-queued outgoing messages (e.g. a
// connection_error reply) before initiating the close handshake.
func (c *Connection) drainAndClose(closeMsg []byte) {
	for done := false; !done; {
		select {
		case data := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(time.Second))
			if err := c.conn.WriteMessage(c.codec.frameType, data); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseGoingAway) && err != websocket.ErrCloseSent {
					c.Handler.LogError(errors.Wrap(err, "websocket write error"))
				}
				done = true
			}
		default:
			done = true
		}
	}

	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		c.Handler.LogError(errors.Wrap(err, "websocket control write error"))
	}
	select {
	case <-c.closeReceived:
	case <-c.readLoopDone:
	case <-time.After(time.Second):
	}
}

func (c *Connection) beginClosing(code int, text string) {
	c.beginClosingOnce.Do(func() {
		c.closeMessage <- websocket.FormatCloseMessage(code, text)
		close(c.close)
		c.Handler.Cancel()
	})
}

func (c *Connection) finishClosing() {
	<-c.readLoopDone
	<-c.writeLoopDone
	invokeHandler := false
	c.finishClosingOnce.Do(func() {
		invokeHandler = true
	})
	if invokeHandler {
		c.Handler.HandleClose()
	}
}
