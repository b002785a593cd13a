package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtime-service/internal/models"
)

func TestFriendStoreEdgeSymmetry(t *testing.T) {
	friends := NewFriendStore()

	friends.AddEdge("a", "b")
	assert.True(t, friends.AreFriends("a", "b"))
	assert.True(t, friends.AreFriends("b", "a"))

	friends.RemoveEdge("b", "a")
	assert.False(t, friends.AreFriends("a", "b"))
	assert.False(t, friends.AreFriends("b", "a"))
}

func TestFriendStoreRemoveEdgeAbsentIsNoop(t *testing.T) {
	friends := NewFriendStore()
	friends.RemoveEdge("a", "b")
	assert.False(t, friends.AreFriends("a", "b"))
}

func TestFriendStoreFriendsOf(t *testing.T) {
	friends := NewFriendStore()
	friends.AddEdge("a", "b")
	friends.AddEdge("a", "c")

	assert.ElementsMatch(t, []string{"b", "c"}, friends.FriendsOf("a"))
	assert.ElementsMatch(t, []string{"a"}, friends.FriendsOf("b"))
	assert.Empty(t, friends.FriendsOf("z"))
}

func TestFriendStoreRequests(t *testing.T) {
	friends := NewFriendStore()
	req := models.FriendRequest{
		ID:         "r1",
		FromUserID: "a",
		ToUserID:   "b",
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	}
	friends.CreateRequest(req)

	assert.True(t, friends.HasPending("a", "b"))
	assert.False(t, friends.HasPending("b", "a"))

	pending := friends.PendingFor("b")
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].ID)

	respondedAt := time.Now()
	require.NoError(t, friends.SetRequestStatus("r1", models.RequestAccepted, respondedAt))
	assert.False(t, friends.HasPending("a", "b"))
	assert.Empty(t, friends.PendingFor("b"))

	// Terminal requests stay queryable, never deleted.
	got, err := friends.GetRequest("r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, got.Status)
	require.NotNil(t, got.RespondedAt)

	assert.ErrorIs(t, friends.SetRequestStatus("nope", models.RequestRejected, time.Now()), ErrRequestNotFound)
}

func pendingRequest(id, from, to string) models.FriendRequest {
	return models.FriendRequest{
		ID:         id,
		FromUserID: from,
		ToUserID:   to,
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	}
}

func TestCreateRequestIfNoPendingBlocksBothDirections(t *testing.T) {
	friends := NewFriendStore()

	require.NoError(t, friends.CreateRequestIfNoPending(pendingRequest("r1", "a", "b")))
	assert.ErrorIs(t, friends.CreateRequestIfNoPending(pendingRequest("r2", "a", "b")), ErrRequestExists)
	assert.ErrorIs(t, friends.CreateRequestIfNoPending(pendingRequest("r3", "b", "a")), ErrRequestExists)

	// Unrelated pairs are unaffected.
	require.NoError(t, friends.CreateRequestIfNoPending(pendingRequest("r4", "a", "c")))

	// Once the pending request is terminal, the pair can try again.
	require.NoError(t, friends.SetRequestStatus("r1", models.RequestRejected, time.Now()))
	require.NoError(t, friends.CreateRequestIfNoPending(pendingRequest("r5", "b", "a")))
}

func TestCreateRequestIfNoPendingSingleWinnerUnderContention(t *testing.T) {
	friends := NewFriendStore()

	const attempts = 50
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- friends.CreateRequestIfNoPending(pendingRequest(fmt.Sprintf("r%d", i), "a", "b"))
		}(i)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrRequestExists)
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, friends.PendingFor("b"), 1)
}
