package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/mocks"
	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

type friendFixture struct {
	users   store.UserStore
	friends store.FriendStore
	chats   store.ChatStore
	emitter *mocks.EmitterMock
	svc     *FriendService
}

func newFriendFixture(userIDs ...string) *friendFixture {
	f := &friendFixture{
		users:   store.NewUserStore(),
		friends: store.NewFriendStore(),
		chats:   store.NewChatStore(),
		emitter: new(mocks.EmitterMock),
	}
	seedUsers(f.users, userIDs...)
	chatSvc := NewChatService(f.users, f.chats, f.emitter)
	f.svc = NewFriendService(f.users, f.friends, store.NewSessionRegistry(), chatSvc, f.emitter)
	return f
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e models.ServerEvent) bool { return e.Type == eventType })
}

func TestSendRequestNotifiesRecipient(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(true).Once()

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", req.FromUserID)
	assert.Equal(t, "bob", req.ToUserID)
	assert.Equal(t, models.RequestPending, req.Status)
	f.emitter.AssertExpectations(t)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	f := newFriendFixture("alice")
	_, err := f.svc.SendRequest("alice", "alice")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestUnknownRecipient(t *testing.T) {
	f := newFriendFixture("alice")
	_, err := f.svc.SendRequest("alice", "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(false).Once()

	_, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	_, err = f.svc.SendRequest("alice", "bob")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// The reverse direction counts as the same pending pair.
	_, err = f.svc.SendRequest("bob", "alice")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestAcceptRequestCreatesEdgeAndPrivateChat(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(true).Once()
	f.emitter.On("ToUser", "alice", eventOfType(models.EventFriendRequestAccepted)).Return(true).Once()
	f.emitter.On("ToUser", mock.Anything, eventOfType(models.EventChatCreated)).Return(true).Twice()

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	accepted, err := f.svc.AcceptRequest(req.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)

	assert.True(t, f.friends.AreFriends("alice", "bob"))
	assert.True(t, f.friends.AreFriends("bob", "alice"))

	// The private chat carries exactly one greeting, authored by the sender.
	chat, ok := f.chats.FindByParticipants([]string{"bob", "alice"})
	require.True(t, ok)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, "alice", chat.Messages[0].SenderID)

	// Once friends, a new request is a conflict.
	_, err = f.svc.SendRequest("alice", "bob")
	assert.ErrorIs(t, err, ErrAlreadyFriends)
	f.emitter.AssertExpectations(t)
}

func TestAcceptRequestReusesExistingChat(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", mock.Anything, mock.Anything).Return(true)

	existing, err := f.svc.chats.CreateChat("alice", []string{"bob"}, "old pals")
	require.NoError(t, err)

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = f.svc.AcceptRequest(req.ID, "bob")
	require.NoError(t, err)

	chat, ok := f.chats.FindByParticipants([]string{"alice", "bob"})
	require.True(t, ok)
	assert.Equal(t, existing.ChatID, chat.ID)
	assert.Empty(t, chat.Messages)
}

func TestAcceptRequestOnlyByRecipient(t *testing.T) {
	f := newFriendFixture("alice", "bob", "carol")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(true).Once()

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	_, err = f.svc.AcceptRequest(req.ID, "carol")
	assert.ErrorIs(t, err, store.ErrRequestNotFound)

	_, err = f.svc.AcceptRequest(req.ID, "alice")
	assert.ErrorIs(t, err, store.ErrRequestNotFound)
}

func TestRejectRequestLeavesGraphUntouched(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(true).Once()

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	require.NoError(t, f.svc.RejectRequest(req.ID, "bob"))
	assert.False(t, f.friends.AreFriends("alice", "bob"))
	assert.Empty(t, f.svc.PendingRequests("bob"))

	// A rejected request cannot be accepted afterwards.
	_, err = f.svc.AcceptRequest(req.ID, "bob")
	assert.ErrorIs(t, err, store.ErrRequestNotFound)
	f.emitter.AssertExpectations(t)
}

func TestRemoveFriendIsIdempotent(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.friends.AddEdge("alice", "bob")

	f.svc.RemoveFriend("alice", "bob")
	assert.False(t, f.friends.AreFriends("alice", "bob"))

	f.svc.RemoveFriend("alice", "bob")
	assert.False(t, f.friends.AreFriends("alice", "bob"))
}

func TestFriendsOfDerivesPresenceFromSessions(t *testing.T) {
	f := newFriendFixture("alice", "bob", "carol")
	f.friends.AddEdge("alice", "bob")
	f.friends.AddEdge("alice", "carol")

	sessions := store.NewSessionRegistry()
	sessions.Register("conn-bob", "bob")
	f.svc.sessions = sessions

	byID := map[string]models.User{}
	for _, u := range f.svc.FriendsOf("alice") {
		byID[u.ID] = u
	}
	require.Len(t, byID, 2)
	assert.Equal(t, models.StatusOnline, byID["bob"].Status)
	assert.Equal(t, models.StatusOffline, byID["carol"].Status)
}

func TestPendingRequestsIncludeSender(t *testing.T) {
	f := newFriendFixture("alice", "bob")
	f.emitter.On("ToUser", "bob", eventOfType(models.EventFriendRequest)).Return(false).Once()

	req, err := f.svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	views := f.svc.PendingRequests("bob")
	require.Len(t, views, 1)
	assert.Equal(t, req.ID, views[0].Request.ID)
	assert.Equal(t, "alice", views[0].From.ID)
	assert.Empty(t, f.svc.PendingRequests("alice"))
}
