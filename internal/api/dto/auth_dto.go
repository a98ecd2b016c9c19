package dto

import "time"

// StudentRegisterRequest payload for self-registration.
type StudentRegisterRequest struct {
	Name          string `json:"name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Cedula        string `json:"cedula"`
	Matricula     string `json:"matricula"`
	PersonalEmail string `json:"personal_email"`
	Phone         string `json:"phone"`
	Career        string `json:"career"`
	Age           int    `json:"age"`
}

// LoginRequest payload for both portals.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
