// Package models defines the core data structures for users and stored passwords.
package models

import "time"

// User represents an application user. When loaded from storage, Login,
// Password, Name and Surname hold base64 envelopes encrypted under the
// user's own password; they carry plaintext only inside an authenticated
// request.
type User struct {
	// ID is assigned by storage on creation and immutable afterward.
	ID int64 `json:"id"`
	// Login is the username used to sign in.
	Login string `json:"login"`
	// Password is the user's password.
	Password string `json:"password"`
	// Name is the user's display name.
	Name string `json:"name"`
	// Surname is the user's family name.
	Surname string `json:"surname"`
}

// Secret is a stored credential entry. Login, Password, Name and Notes are
// encrypted at rest with the owning user's key; URL and the timestamps are
// plaintext metadata.
type Secret struct {
	// ID is assigned by storage on creation.
	ID int64 `json:"id"`
	// UserID is the owning user, set once at creation.
	UserID int64 `json:"userId"`
	// Login is the login stored in this entry.
	Login string `json:"login"`
	// Password is the password stored in this entry.
	Password string `json:"password"`
	// Name is the display name of the entry.
	Name string `json:"name"`
	// URL is the site this entry belongs to.
	URL string `json:"url"`
	// Notes holds free-form user notes.
	Notes string `json:"notes"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the last modification timestamp.
	UpdatedAt time.Time `json:"updatedAt"`
}
