// Package graphqlws implements the `graphql-ws` WebSocket subprotocol over a
// github.com/gorilla/websocket connection. It is a transport concern the
// execution engine itself has no contract for: the package does not call
// gqlengine itself; a ConnectionHandler runs operations (e.g. by consuming
// gqlengine.Subscribe's response stream) and sends each response back
// through Connection.SendData.
package graphqlws

import "encoding/json"

// MessageType identifies a graphql-ws protocol message.
type MessageType string

const (
	MessageTypeConnectionInit      MessageType = "connection_init"
	MessageTypeConnectionAck       MessageType = "connection_ack"
	MessageTypeConnectionError     MessageType = "connection_error"
	MessageTypeConnectionKeepAlive MessageType = "ka"
	MessageTypeConnectionTerminate MessageType = "connection_terminate"
	MessageTypeStart               MessageType = "start"
	MessageTypeData                MessageType = "data"
	MessageTypeError               MessageType = "error"
	MessageTypeComplete            MessageType = "complete"
	MessageTypeStop                MessageType = "stop"
)

// Message is a single graphql-ws protocol frame. It's used for both client
// and server messages; Payload's shape depends on Type.
type Message struct {
	Id      string          `json:"id,omitempty"`
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StartPayload is the payload of a "start" message: the operation the client
// wants to begin.
type StartPayload struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}
