package service

import "errors"

var (
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrDuplicateRequest = errors.New("friend request already pending")
	ErrSelfRequest      = errors.New("cannot befriend yourself")
	ErrNotParticipant   = errors.New("user is not a participant")
	ErrEmptyMessage     = errors.New("message text is empty")
)
