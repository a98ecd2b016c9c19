package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/dto"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

func userResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if s := u.Student; s != nil {
		resp.Cedula = s.Cedula
		resp.Age = s.Age
		resp.Matricula = s.Matricula
		resp.PersonalEmail = s.PersonalEmail
		resp.Phone = s.Phone
		resp.Career = s.Career
	}
	if s := u.Staff; s != nil {
		resp.Cedula = s.Cedula
		resp.Age = s.Age
		resp.AssignedCategories = append([]domain.Category{}, s.AssignedCategories...)
	}
	return resp
}

func ticketSummary(t *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            t.ID,
		Number:        t.Number(),
		Title:         t.Title,
		Category:      t.Category,
		CategoryLabel: t.Category.Label(),
		Status:        t.Status,
		StatusLabel:   t.Status.Label(),
		Priority:      t.Priority,
		PriorityLabel: t.Priority.Label(),
		RequesterID:   t.RequesterID,
		RequesterName: t.RequesterName,
		AssignedTo:    t.AssignedTo,
		AssignedName:  t.AssignedName,
		NoteCount:     len(t.Notes),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(t *domain.Ticket) dto.TicketDetailResponse {
	notes := make([]dto.NoteResponse, 0, len(t.Notes))
	for _, n := range t.Notes {
		notes = append(notes, noteResponse(n))
	}
	return dto.TicketDetailResponse{
		TicketSummary:  ticketSummary(t),
		Description:    t.Description,
		RequesterEmail: t.RequesterEmail,
		Matricula:      t.Matricula,
		ProblemType:    t.ProblemType,
		Advisory:       t.Advisory,
		ResolvedAt:     t.ResolvedAt,
		ResolvedBy:     t.ResolvedBy,
		ResolvedByName: t.ResolvedByName,
		Notes:          notes,
	}
}

func noteResponse(n domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         n.ID,
		Text:       n.Text,
		AuthorName: n.AuthorName,
		AuthorID:   n.AuthorID,
		AuthorRole: n.AuthorRole,
		IsSystem:   n.IsSystem(),
		CreatedAt:  n.CreatedAt,
	}
}

func statsResponse(s domain.TicketStats) dto.StatsResponse {
	return dto.StatsResponse(s)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseCategory(value string) (domain.Category, error) {
	category, ok := domain.ParseCategory(value)
	if !ok {
		return "", apperrors.NewValidationError("invalid category", map[string]any{"category": value})
	}
	return category, nil
}

func parseCategories(values []string) ([]domain.Category, error) {
	if values == nil {
		return nil, nil
	}
	categories := make([]domain.Category, 0, len(values))
	for _, v := range values {
		category, err := parseCategory(v)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}
