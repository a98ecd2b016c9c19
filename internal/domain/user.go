package domain

import (
	"strings"
	"time"
)

// StudentProfile holds the fields only students carry.
type StudentProfile struct {
	Cedula        string
	Matricula     string
	PersonalEmail string
	Phone         string
	Career        string
	Age           int
}

// StaffProfile holds the fields only staff members carry.
type StaffProfile struct {
	Cedula             string
	Age                int
	AssignedCategories []Category
}

// User is an account in the directory. Exactly one of Student or Staff is set,
// matching Role.
type User struct {
	ID           string
	Name         string
	LastName     string
	Email        string
	Role         Role
	PasswordHash string
	Student      *StudentProfile
	Staff        *StaffProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins name and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// IsStudent reports whether the user is a student.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// AssignedCategories returns the staff category set, or nil for students.
func (u *User) AssignedCategories() []Category {
	if u.Staff == nil {
		return nil
	}
	return u.Staff.AssignedCategories
}

// Matricula returns the student enrollment id, or "" for staff.
func (u *User) Matricula() string {
	if u.Student == nil {
		return ""
	}
	return u.Student.Matricula
}

// Capabilities is shorthand for CapabilitiesOf(u.Role).
func (u *User) Capabilities() RoleCapabilities {
	return CapabilitiesOf(u.Role)
}

// Clone returns a deep copy so callers never share profile slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Student != nil {
		s := *u.Student
		cp.Student = &s
	}
	if u.Staff != nil {
		s := *u.Staff
		s.AssignedCategories = append([]Category(nil), u.Staff.AssignedCategories...)
		cp.Staff = &s
	}
	return &cp
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
