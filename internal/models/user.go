package models

import (
	"time"
)

// User represents the identity returned by the catalog login mutation
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthPayload represents the result of login and signup
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session represents an authenticated browser session
type Session struct {
	ID        string    `json:"-"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// User returns the identity held by the session
func (s *Session) User() User {
	return User{ID: s.UserID, Email: s.Email}
}
