package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace-engine/internal/domain/shared"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypePing MessageType = "ping"

	// Server to Client message types
	MessageTypeNotification MessageType = "notification"
	MessageTypeError        MessageType = "error"
	MessageTypePong         MessageType = "pong"
)

var (
	ErrMessageTypeRequired = fmt.Errorf("%w: message type is required", shared.ErrInvalidArgument)
	ErrUnknownMessageType  = fmt.Errorf("%w: unknown message type", shared.ErrInvalidArgument)
)

// ClientMessage is a keepalive frame sent over the socket. The feed is
// push-only; reads and writes of engine state go through the REST API.
type ClientMessage struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Data      any         `json:"data,omitempty"`
	Error     *string     `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func NewServerMessage(msgType MessageType, requestID string, data any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		RequestID: requestID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, requestID string) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		RequestID: requestID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse client message: %v", shared.ErrInvalidArgument, err)
	}

	if msg.Type == "" {
		return nil, ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	if m.Type != MessageTypePing {
		return ErrUnknownMessageType
	}
	return nil
}
