package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/service"
	"realtime-service/internal/store"
)

type gatewayFixture struct {
	server   *httptest.Server
	verifier *mocks.VerifierMock
	users    store.UserStore
	friends  store.FriendStore
	chats    store.ChatStore
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gatewayFixture{
		verifier: new(mocks.VerifierMock),
		users:    store.NewUserStore(),
		friends:  store.NewFriendStore(),
		chats:    store.NewChatStore(),
	}
	sessions := store.NewSessionRegistry()
	calls := store.NewCallStore()
	hub := NewHub(sessions)

	presence := service.NewPresenceService(f.users, f.friends, sessions, hub)
	chatSvc := service.NewChatService(f.users, f.chats, hub)
	friendSvc := service.NewFriendService(f.users, f.friends, sessions, chatSvc, hub)
	router := service.NewMessageRouter(f.chats, hub)
	callSvc := service.NewCallService(f.users, f.chats, calls, hub)

	gateway := NewGateway(hub, sessions, f.users, f.verifier, presence, friendSvc, chatSvc, router, callSvc)

	engine := gin.New()
	engine.GET("/ws", gateway.Handle)
	f.server = httptest.NewServer(engine)
	t.Cleanup(f.server.Close)
	return f
}

func (f *gatewayFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type receivedEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) receivedEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var event receivedEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func sendEvent(t *testing.T, conn *websocket.Conn, event models.ClientEvent) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(event))
}

func authenticateAs(t *testing.T, f *gatewayFixture, conn *websocket.Conn, userID string) {
	t.Helper()
	token := "token-" + userID
	f.verifier.On("Verify", token).Return(userID, nil)
	sendEvent(t, conn, models.ClientEvent{Type: models.EventAuthenticate, Token: token})

	for _, want := range []string{
		models.EventAuthenticated,
		models.EventFriendsList,
		models.EventFriendRequests,
		models.EventChatsList,
	} {
		event := readEvent(t, conn)
		require.Equal(t, want, event.Type)
	}
}

func TestAuthenticateRepliesWithSnapshots(t *testing.T) {
	f := newGatewayFixture(t)
	f.users.Put(models.User{ID: "alice", Name: "Alice"})

	conn := f.dial(t)
	authenticateAs(t, f, conn, "alice")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	f := newGatewayFixture(t)
	f.verifier.On("Verify", "bad").Return("", assert.AnError)

	conn := f.dial(t)
	sendEvent(t, conn, models.ClientEvent{Type: models.EventAuthenticate, Token: "bad"})
	event := readEvent(t, conn)
	assert.Equal(t, models.EventAuthError, event.Type)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	f := newGatewayFixture(t)
	f.verifier.On("Verify", "orphan").Return("ghost", nil)

	conn := f.dial(t)
	sendEvent(t, conn, models.ClientEvent{Type: models.EventAuthenticate, Token: "orphan"})
	event := readEvent(t, conn)
	assert.Equal(t, models.EventAuthError, event.Type)
}

func TestUnauthenticatedEventsRejected(t *testing.T) {
	f := newGatewayFixture(t)

	conn := f.dial(t)
	sendEvent(t, conn, models.ClientEvent{Type: models.EventSendMessage, ChatID: "c1", Text: "hi"})
	event := readEvent(t, conn)
	assert.Equal(t, models.EventAuthError, event.Type)
}

func TestMalformedEventAcknowledged(t *testing.T) {
	f := newGatewayFixture(t)

	conn := f.dial(t)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	event := readEvent(t, conn)
	require.Equal(t, models.EventOperationFailed, event.Type)
	var payload models.OperationFailedPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "parse", payload.Op)
}

func TestSendMessageReachesPeerNotSender(t *testing.T) {
	f := newGatewayFixture(t)
	f.users.Put(models.User{ID: "alice", Name: "Alice"})
	f.users.Put(models.User{ID: "bob", Name: "Bob"})
	chat := store.NewChat("chat-ab", "ab", []string{"alice", "bob"}, time.Now())
	require.NoError(t, f.chats.Create(chat))

	alice := f.dial(t)
	authenticateAs(t, f, alice, "alice")
	bob := f.dial(t)
	authenticateAs(t, f, bob, "bob")

	sendEvent(t, alice, models.ClientEvent{Type: models.EventSendMessage, ChatID: "chat-ab", Text: "hello"})

	event := readEvent(t, bob)
	require.Equal(t, models.EventNewMessage, event.Type)
	var payload models.NewMessagePayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "hello", payload.Message.Text)
	assert.Equal(t, "alice", payload.Message.SenderID)

	// No echo for the sender.
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := alice.ReadMessage()
	assert.Error(t, err)
}

func TestSendMessageFailuresAcknowledged(t *testing.T) {
	f := newGatewayFixture(t)
	f.users.Put(models.User{ID: "alice", Name: "Alice"})

	conn := f.dial(t)
	authenticateAs(t, f, conn, "alice")

	sendEvent(t, conn, models.ClientEvent{Type: models.EventSendMessage, ChatID: "missing", Text: "hi"})
	event := readEvent(t, conn)
	require.Equal(t, models.EventOperationFailed, event.Type)
	var payload models.OperationFailedPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, models.EventSendMessage, payload.Op)
	assert.Equal(t, "chat not found", payload.Reason)
}

func TestSecondConnectionEvictsFirst(t *testing.T) {
	f := newGatewayFixture(t)
	f.users.Put(models.User{ID: "alice", Name: "Alice"})
	f.users.Put(models.User{ID: "bob", Name: "Bob"})
	chat := store.NewChat("chat-ab", "ab", []string{"alice", "bob"}, time.Now())
	require.NoError(t, f.chats.Create(chat))

	stale := f.dial(t)
	authenticateAs(t, f, stale, "alice")
	fresh := f.dial(t)
	authenticateAs(t, f, fresh, "alice")

	bob := f.dial(t)
	authenticateAs(t, f, bob, "bob")
	sendEvent(t, bob, models.ClientEvent{Type: models.EventSendMessage, ChatID: "chat-ab", Text: "ping"})

	event := readEvent(t, fresh)
	assert.Equal(t, models.EventNewMessage, event.Type)
}

func TestUnknownEventAcknowledged(t *testing.T) {
	f := newGatewayFixture(t)
	f.users.Put(models.User{ID: "alice", Name: "Alice"})

	conn := f.dial(t)
	authenticateAs(t, f, conn, "alice")

	sendEvent(t, conn, models.ClientEvent{Type: "time_travel"})
	event := readEvent(t, conn)
	require.Equal(t, models.EventOperationFailed, event.Type)
	var payload models.OperationFailedPayload
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "unknown event", payload.Reason)
}
