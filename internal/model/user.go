package model

import "time"

// User is an account in the user directory. PasswordHash is a bcrypt hash;
// it must never be serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
