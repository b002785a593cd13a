package service

import (
	"time"

	"github.com/google/uuid"

	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

// CallService runs the per-call signaling state machine: calling -> active,
// with reject and end both deleting the record. Accept, reject and end all
// require membership: accept and reject against the owning chat, end against
// the call's recorded participants.
type CallService struct {
	users   store.UserStore
	chats   store.ChatStore
	calls   store.CallStore
	emitter Emitter
	now     func() time.Time
}

// NewCallService constructs a CallService.
func NewCallService(users store.UserStore, chats store.ChatStore, calls store.CallStore, emitter Emitter) *CallService {
	return &CallService{users: users, chats: chats, calls: calls, emitter: emitter, now: time.Now}
}

// Start creates a ringing call and notifies the other chat participants.
func (s *CallService) Start(callerID, chatID, callType string) (models.Call, error) {
	chat, err := s.chats.Get(chatID)
	if err != nil {
		return models.Call{}, err
	}
	if !chat.IsParticipant(callerID) {
		return models.Call{}, ErrNotParticipant
	}
	caller, err := s.users.Get(callerID)
	if err != nil {
		return models.Call{}, err
	}

	call := models.Call{
		ID:           uuid.NewString(),
		ChatID:       chatID,
		CallerID:     callerID,
		Type:         callType,
		Participants: []string{callerID},
		Status:       models.CallCalling,
		StartTime:    s.now(),
	}
	s.calls.Put(call)

	incoming := models.ServerEvent{
		Type: models.EventIncomingCall,
		Data: models.IncomingCallPayload{CallID: call.ID, ChatID: chatID, Caller: caller, CallType: callType},
	}
	for _, pid := range chat.Participants {
		if pid == callerID {
			continue
		}
		s.emitter.ToUser(pid, incoming)
	}
	s.emitter.ToUser(callerID, models.ServerEvent{
		Type: models.EventCallStarted,
		Data: models.CallStartedPayload{CallID: call.ID, Call: call},
	})
	return call, nil
}

// Accept joins the callee and activates the call. The accepted event goes to
// the call's participants only, not to every connected session.
func (s *CallService) Accept(calleeID, callID string) (models.Call, error) {
	call, err := s.calls.Get(callID)
	if err != nil {
		return models.Call{}, err
	}
	chat, err := s.chats.Get(call.ChatID)
	if err != nil {
		return models.Call{}, err
	}
	if !chat.IsParticipant(calleeID) {
		return models.Call{}, ErrNotParticipant
	}

	if _, err := s.calls.AddParticipant(callID, calleeID); err != nil {
		return models.Call{}, err
	}
	call, err = s.calls.SetStatus(callID, models.CallActive)
	if err != nil {
		return models.Call{}, err
	}

	accepted := models.ServerEvent{
		Type: models.EventCallAccepted,
		Data: models.CallAcceptedPayload{CallID: call.ID, UserID: calleeID, Call: call},
	}
	for _, pid := range call.Participants {
		s.emitter.ToUser(pid, accepted)
	}
	return call, nil
}

// Reject tears the call down before it became active and notifies the
// recorded participants.
func (s *CallService) Reject(userID, callID string) error {
	call, err := s.calls.Get(callID)
	if err != nil {
		return err
	}
	chat, err := s.chats.Get(call.ChatID)
	if err != nil {
		return err
	}
	if !chat.IsParticipant(userID) {
		return ErrNotParticipant
	}

	call, err = s.calls.Delete(callID)
	if err != nil {
		return err
	}
	rejected := models.ServerEvent{
		Type: models.EventCallRejected,
		Data: models.CallRejectedPayload{CallID: call.ID},
	}
	for _, pid := range call.Participants {
		s.emitter.ToUser(pid, rejected)
	}
	return nil
}

// End deletes the call whatever its status and reports the whole-second
// duration to every participant with a live connection.
func (s *CallService) End(userID, callID string) error {
	call, err := s.calls.Get(callID)
	if err != nil {
		return err
	}
	if !call.HasParticipant(userID) {
		return ErrNotParticipant
	}

	call, err = s.calls.Delete(callID)
	if err != nil {
		return err
	}
	duration := int64(s.now().Sub(call.StartTime) / time.Second)
	if duration < 0 {
		duration = 0
	}
	ended := models.ServerEvent{
		Type: models.EventCallEnded,
		Data: models.CallEndedPayload{CallID: call.ID, Duration: duration},
	}
	for _, pid := range call.Participants {
		s.emitter.ToUser(pid, ended)
	}
	return nil
}
