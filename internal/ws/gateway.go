package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"realtime-service/internal/auth"
	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/service"
	"realtime-service/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway is the single entry and exit point for realtime traffic. It
// validates the closed set of inbound events, resolves the acting user
// through the session registry and dispatches to the owning service.
type Gateway struct {
	hub      *Hub
	sessions store.SessionRegistry
	users    store.UserStore
	verifier auth.TokenVerifier
	presence *service.PresenceService
	friends  *service.FriendService
	chats    *service.ChatService
	router   *service.MessageRouter
	calls    *service.CallService
}

// NewGateway constructs a Gateway.
func NewGateway(
	hub *Hub,
	sessions store.SessionRegistry,
	users store.UserStore,
	verifier auth.TokenVerifier,
	presence *service.PresenceService,
	friends *service.FriendService,
	chats *service.ChatService,
	router *service.MessageRouter,
	calls *service.CallService,
) *Gateway {
	return &Gateway{
		hub:      hub,
		sessions: sessions,
		users:    users,
		verifier: verifier,
		presence: presence,
		friends:  friends,
		chats:    chats,
		router:   router,
		calls:    calls,
	}
}

// Handle upgrades the connection and runs its read loop until disconnect.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("realtime-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := newClient(conn, info)
	g.hub.add(client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "realtime.ws", observability.EventEnvelope{
		EventType: "ws_lifecycle",
		EventName: "ws_connect",
		Payload:   g.lifecyclePayload(client, ""),
	})
	slog.Info("websocket connected", "conn_id", info.ConnID, "ip", info.IP)

	go client.writePump()
	g.readLoop(ctx, client)
}

func (g *Gateway) readLoop(ctx context.Context, client *Client) {
	defer g.disconnect(ctx, client)
	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read error", "conn_id", client.info.ConnID, "error", err)
			}
			return
		}

		var event models.ClientEvent
		if err := json.Unmarshal(payload, &event); err != nil || event.Type == "" {
			g.fail(client, "parse", "malformed event")
			continue
		}
		g.dispatch(client, event)
	}
}

// disconnect tears the session down as one synchronous sequence: unregister,
// offline transition with friend fan-out, then forget the connection. No
// window remains where a peer resolves a connection that cannot receive.
func (g *Gateway) disconnect(ctx context.Context, client *Client) {
	payload := g.lifecyclePayload(client, "peer closed")
	if userID, ok := g.sessions.Unregister(client.info.ConnID); ok {
		g.presence.HandleOffline(userID)
		slog.Info("user disconnected", "conn_id", client.info.ConnID, "user_id", userID)
	}
	g.hub.remove(client.info.ConnID)
	client.close()

	observability.DecWSActive()
	observability.IncWSEvent("ws_disconnect")
	_ = observability.PublishEvent(ctx, "realtime.ws", observability.EventEnvelope{
		EventType: "ws_lifecycle",
		EventName: "ws_disconnect",
		Payload:   payload,
	})
}

func (g *Gateway) dispatch(client *Client, event models.ClientEvent) {
	observability.IncWSEvent(event.Type)

	if event.Type == models.EventAuthenticate {
		g.authenticate(client, event.Token)
		return
	}

	userID, ok := g.sessions.ResolveUser(client.info.ConnID)
	if !ok {
		g.hub.ToConn(client.info.ConnID, models.ServerEvent{
			Type: models.EventAuthError,
			Data: models.AuthErrorPayload{Error: "not authenticated"},
		})
		return
	}

	switch event.Type {
	case models.EventSendMessage:
		if event.ChatID == "" {
			g.fail(client, event.Type, "chat_id required")
			return
		}
		if _, err := g.router.SendMessage(userID, event.ChatID, event.Text); err != nil {
			g.fail(client, event.Type, reasonFor(err))
		}

	case models.EventStartCall:
		if event.ChatID == "" {
			g.fail(client, event.Type, "chat_id required")
			return
		}
		callType := event.CallType
		if callType == "" {
			callType = "audio"
		}
		if _, err := g.calls.Start(userID, event.ChatID, callType); err != nil {
			g.fail(client, event.Type, reasonFor(err))
		}

	case models.EventAcceptCall:
		if event.CallID == "" {
			g.fail(client, event.Type, "call_id required")
			return
		}
		if _, err := g.calls.Accept(userID, event.CallID); err != nil {
			g.fail(client, event.Type, reasonFor(err))
		}

	case models.EventRejectCall:
		if event.CallID == "" {
			g.fail(client, event.Type, "call_id required")
			return
		}
		if err := g.calls.Reject(userID, event.CallID); err != nil {
			g.fail(client, event.Type, reasonFor(err))
		}

	case models.EventEndCall:
		if event.CallID == "" {
			g.fail(client, event.Type, "call_id required")
			return
		}
		if err := g.calls.End(userID, event.CallID); err != nil {
			g.fail(client, event.Type, reasonFor(err))
		}

	default:
		g.fail(client, event.Type, "unknown event")
	}
}

// authenticate binds the connection to the verified user, evicting any prior
// connection of the same user, and replies with the login snapshots.
func (g *Gateway) authenticate(client *Client, token string) {
	userID, err := g.verifier.Verify(token)
	if err != nil {
		g.hub.ToConn(client.info.ConnID, models.ServerEvent{
			Type: models.EventAuthError,
			Data: models.AuthErrorPayload{Error: "invalid token"},
		})
		return
	}
	user, err := g.users.Get(userID)
	if err != nil {
		g.hub.ToConn(client.info.ConnID, models.ServerEvent{
			Type: models.EventAuthError,
			Data: models.AuthErrorPayload{Error: "unknown user"},
		})
		return
	}

	if evictedConnID, evicted := g.sessions.Register(client.info.ConnID, userID); evicted {
		if old := g.hub.remove(evictedConnID); old != nil {
			old.close()
		}
		slog.Info("evicted stale connection", "user_id", userID, "conn_id", evictedConnID)
	}
	g.presence.HandleOnline(userID)
	slog.Info("user authenticated", "conn_id", client.info.ConnID, "user_id", userID)

	connID := client.info.ConnID
	g.hub.ToConn(connID, models.ServerEvent{Type: models.EventAuthenticated, Data: models.AuthenticatedPayload{User: user}})
	g.hub.ToConn(connID, models.ServerEvent{Type: models.EventFriendsList, Data: g.friends.FriendsOf(userID)})
	g.hub.ToConn(connID, models.ServerEvent{Type: models.EventFriendRequests, Data: g.friends.PendingRequests(userID)})
	g.hub.ToConn(connID, models.ServerEvent{Type: models.EventChatsList, Data: g.chats.Summaries(userID)})
}

// fail is the explicit acknowledgment for any event that produced no success
// events. Nothing is dropped silently.
func (g *Gateway) fail(client *Client, op, reason string) {
	g.hub.ToConn(client.info.ConnID, models.ServerEvent{
		Type: models.EventOperationFailed,
		Data: models.OperationFailedPayload{Op: op, Reason: reason},
	})
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, store.ErrChatNotFound):
		return "chat not found"
	case errors.Is(err, store.ErrCallNotFound):
		return "call not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, service.ErrNotParticipant):
		return "not a participant"
	case errors.Is(err, service.ErrEmptyMessage):
		return "text required"
	default:
		return "operation failed"
	}
}

func (g *Gateway) lifecyclePayload(client *Client, reason string) map[string]any {
	userID, _ := g.sessions.ResolveUser(client.info.ConnID)
	return map[string]any{
		"conn_id":     client.info.ConnID,
		"user_id":     userID,
		"ip":          client.info.IP,
		"request_id":  client.info.RequestID,
		"trace_id":    client.info.TraceID,
		"duration_ms": time.Since(client.info.ConnectedAt).Milliseconds(),
		"reason":      reason,
	}
}
