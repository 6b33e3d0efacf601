package ws

import (
	"errors"
	"net/http"
	"slices"
	"sync"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages push connections. Each connection is bound to the
// authenticated user and receives that user's dispatched notifications.
type WsHandler struct {
	clients       map[string]*WsClient // clientID -> Client
	clientsMu     sync.RWMutex
	eventChannels map[string]chan outbound.Event // clientID -> local event channel
	channelsMu    sync.RWMutex
	upgrader      websocket.Upgrader
	userService   inbound.UserService
	broadcaster   outbound.Broadcaster
	logger        zerolog.Logger
}
type WsHandlerParams struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	UserService     inbound.UserService
	Broadcaster     outbound.Broadcaster
	Logger          zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	origins := params.AllowedOrigins
	upgrader := websocket.Upgrader{
		ReadBufferSize:  params.ReadBufferSize,
		WriteBufferSize: params.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(origins) == 0 || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}

	return &WsHandler{
		clients:       make(map[string]*WsClient),
		eventChannels: make(map[string]chan outbound.Event),
		upgrader:      upgrader,
		userService:   params.UserService,
		broadcaster:   params.Broadcaster,
		logger:        params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// Connect upgrades an authenticated request into a push connection
func (handler *WsHandler) Connect(w http.ResponseWriter, r *http.Request, principal *shared.Principal) {
	user, err := handler.userService.GetProfile(r.Context(), principal)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		UserID: user.ID,
		Conn:   conn,
		Logger: handler.logger,
	})

	handler.registerClient(client)
	eventChan := handler.createEventChannel(client.id)

	if err := handler.broadcaster.Subscribe(client.ctx, user.ID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe client to notifications")
		handler.unregisterClient(client)
		return
	}

	client.Start()
	go handler.listenForClientEvents(client, eventChan)

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Str("user_id", client.userID.String()).Msg("WebSocket client connected")
}

// createEventChannel creates a local event channel for a client
func (handler *WsHandler) createEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, 100)
	handler.eventChannels[clientID] = eventChan
	return eventChan
}

func (handler *WsHandler) removeEventChannel(clientID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	delete(handler.eventChannels, clientID)
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	_, known := handler.clients[client.id]
	delete(handler.clients, client.id)
	remaining := len(handler.clients)
	handler.clientsMu.Unlock()

	if !known {
		return
	}

	// the broadcaster stops writing to the event channel once unsubscribed
	if err := handler.broadcaster.Unsubscribe(client.ctx, client.userID, client.id); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to unsubscribe client")
	}

	client.Stop()
	handler.removeEventChannel(client.id)

	handler.logger.Info().Str("client_id", client.id).Str("user_id", client.userID.String()).Int("total_clients", remaining).Msg("WebSocket client disconnected")
}

// listenForClientEvents forwards broadcaster events to the socket
func (handler *WsHandler) listenForClientEvents(client *WsClient, eventChan chan outbound.Event) {
	for {
		select {
		case event := <-eventChan:
			if err := client.Send(handler.convertEventToMessage(event)); err != nil {
				handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to send event to WebSocket client")
			}

		case <-client.ctx.Done():
			return
		}
	}
}

func (handler *WsHandler) convertEventToMessage(event outbound.Event) *ServerMessage {
	switch event.Type {
	case outbound.EventTypeNotification:
		return &ServerMessage{Type: MessageTypeNotification, Data: event.Data, Timestamp: event.Timestamp}
	default:
		msg := NewErrorMessage("unsupported event", "")
		msg.Timestamp = event.Timestamp
		return msg
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}
