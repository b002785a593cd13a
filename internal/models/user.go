package models

import "time"

// UserStatus is the stored presence state of a user.
type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
)

// User represents a registered user. Records are created by the registration
// collaborator; Status and LastSeen are mutated only by the presence tracker.
type User struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Avatar   string     `json:"avatar"`
	Status   UserStatus `json:"status"`
	LastSeen time.Time  `json:"last_seen"`
}
