package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/dto"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// AuthHandler exposes registration and the two login portals.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterStudent handles POST /auth/students/register.
func (h *AuthHandler) RegisterStudent(c *fiber.Ctx) error {
	var req dto.StudentRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.RegisterStudent(c.UserContext(), service.RegisterStudentInput{
		Name:          req.Name,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		Cedula:        req.Cedula,
		Matricula:     req.Matricula,
		PersonalEmail: req.PersonalEmail,
		Phone:         req.Phone,
		Career:        req.Career,
		Age:           req.Age,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(session)})
}

// StudentLogin handles POST /auth/students/login.
func (h *AuthHandler) StudentLogin(c *fiber.Ctx) error {
	return h.login(c, domain.PortalStudent)
}

// StaffLogin handles POST /auth/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	return h.login(c, domain.PortalStaff)
}

func (h *AuthHandler) login(c *fiber.Ctx, portal domain.Portal) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password, portal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(session)})
}

func authResponse(s *domain.Session) dto.AuthResponse {
	return dto.AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: userResponse(s.User)}
}
