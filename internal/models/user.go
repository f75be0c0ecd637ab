package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	UserID       int64     `json:"id" db:"user_id"`            // Primary key, assigned by the store
	FullName     string    `json:"full_name" db:"full_name"`   // Display name
	Email        string    `json:"email" db:"email"`           // Unique login key, stored lower-cased and trimmed
	PasswordHash string    `json:"-" db:"password_hash"`       // Salted hash, never the plaintext
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}
