package dto

import (
	"time"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

// UserResponse is the public view of an account. Password hashes never leave
// the service.
type UserResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	LastName           string            `json:"last_name"`
	FullName           string            `json:"full_name"`
	Email              string            `json:"email"`
	Role               domain.Role       `json:"role"`
	RoleLabel          string            `json:"role_label"`
	Cedula             string            `json:"cedula,omitempty"`
	Age                int               `json:"age,omitempty"`
	Matricula          string            `json:"matricula,omitempty"`
	PersonalEmail      string            `json:"personal_email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	Career             string            `json:"career,omitempty"`
	AssignedCategories []domain.Category `json:"assigned_categories,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// CreateStaffRequest payload for POST /admin/users. Omitting
// assigned_categories applies the role defaults.
type CreateStaffRequest struct {
	Name               string   `json:"name"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email"`
	Password           string   `json:"password"`
	Role               string   `json:"role"`
	Cedula             string   `json:"cedula"`
	Age                int      `json:"age"`
	AssignedCategories []string `json:"assigned_categories"`
}

// UpdateCategoriesRequest payload for PUT /admin/users/:id/categories.
type UpdateCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// UpdateProfileRequest payload for PATCH /me.
type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	PersonalEmail *string `json:"personal_email"`
	Career        *string `json:"career"`
	Password      *string `json:"password"`
}
