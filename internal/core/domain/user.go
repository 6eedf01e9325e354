package domain

import "time"

type UserID string

// Identity is the resolved identity of a connected user. It is immutable for
// the lifetime of a connection once the token has been verified.
type Identity struct {
	ID       UserID
	Username string
}

type User struct {
	ID           UserID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
