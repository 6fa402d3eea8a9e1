package devserver

import (
	json "github.com/goccy/go-json"
)

// MessageType identifies a WebSocket message.
type MessageType string

const (
	// TypeClick invokes the click handler of the element with ID.
	TypeClick MessageType = "click"

	// TypeUpdate merges Partial into the session's store.
	TypeUpdate MessageType = "update"

	// TypeRender carries the rendered tree.
	TypeRender MessageType = "render"

	// TypeError reports a failed request. The session stays open.
	TypeError MessageType = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Partial json.RawMessage `json:"partial,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    MessageType `json:"type"`
	Session string      `json:"session,omitempty"`
	HTML    string      `json:"html,omitempty"`
	Version uint64      `json:"version,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Error: err.Error()}
}
