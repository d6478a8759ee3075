package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	BirthYear    int       `json:"birth_year"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	BirthYear int    `json:"birth_year"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

// UserUpdates carries the admin update_user payload. Only fields present
// in AllowedUserUpdateFields are ever written; anything else is dropped.
type UserUpdates map[string]interface{}

var AllowedUserUpdateFields = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"phone":      true,
	"email":      true,
	"birth_year": true,
}
