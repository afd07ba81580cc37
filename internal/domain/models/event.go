package models

import "time"

// UserCreatedEvent is emitted by the identity provider when a user record
// is created. Delivery is at-least-once: consumers must tolerate
// duplicates of the same UserID.
type UserCreatedEvent struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
