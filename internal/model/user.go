package model

import (
	"errors"
	"time"
)

// User represents a registered account. The password hash is never serialized.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SignupRequest represents the data needed to create an account.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SigninRequest carries either an email or a phone number as the identifier.
// FCMToken is optional; when present the device is registered for push.
type SigninRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	FCMToken   string `json:"fcmToken"`
}

// SigninResponse is the successful signin payload.
type SigninResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when signing up with an already registered email
	ErrEmailExists = errors.New("email already registered")

	// ErrPhoneExists is returned when signing up with an already registered phone
	ErrPhoneExists = errors.New("phone already registered")

	// ErrInvalidCredentials is returned when signin credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
