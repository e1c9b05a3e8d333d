package model

import "time"

// User represents an application user record as stored in the `users`
// table. The bcrypt hash never leaves the process: it carries no JSON name.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name, not unique.
//	Email        – unique email address, stored lower-cased.
//	PasswordHash – bcrypt hash of the password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch lists the fields of a profile update. Nil fields are left
// untouched; Password holds plaintext and is hashed before it is stored.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// Author is the projection of a user attached to comments and ratings.
// An author that no longer exists is represented by the zero value, which
// serializes as an empty object.
type Author struct {
	ID   uint64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}
