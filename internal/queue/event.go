// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// AuthEventsQueue is the durable queue receiving authentication events.
const AuthEventsQueue = "auth.events"

// Event types published by the auth service.
const (
    EventUserRegistered = "user.registered"
    EventUserLoggedIn   = "user.logged_in"
    EventUserLoggedOut  = "user.logged_out"
)

// AuthEvent is published after a successful registration, login or logout.
// It carries identifiers only; no credentials or tokens.
type AuthEvent struct {
    Type       string    `json:"type"`
    UserID     string    `json:"user_id"`
    Role       string    `json:"role,omitempty"`
    Provider   string    `json:"provider,omitempty"`
    IP         string    `json:"ip,omitempty"`
    OccurredAt time.Time `json:"occurred_at"`
}
