package model

import "time"

// Role names stored in users.role and carried in the JWT "role" claim.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents an application account as stored in the `users` table.
// Email doubles as the login name and is unique.  Only the bcrypt hash of
// the password is stored.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	FullName     – display name.
//	Email        – unique email address used to log in.
//	Phone        – contact phone number (may be empty).
//	PasswordHash – bcrypt hashed password.
//	Role         – ADMIN or USER.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
