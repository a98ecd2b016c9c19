package dto

import (
	"time"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

// CreateTicketRequest payload. Priority is an optional hint such as "Alta".
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	ProblemType string `json:"problem_type"`
}

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// PriorityUpdateRequest payload.
type PriorityUpdateRequest struct {
	Priority string `json:"priority"`
}

// TransferRequest payload.
type TransferRequest struct {
	Category string `json:"category"`
}

// NoteRequest payload.
type NoteRequest struct {
	Text string `json:"text"`
}

// NoteResponse represents one timeline entry.
type NoteResponse struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	AuthorName string      `json:"author_name"`
	AuthorID   string      `json:"author_id"`
	AuthorRole domain.Role `json:"author_role"`
	IsSystem   bool        `json:"is_system"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TicketSummary response for listings.
type TicketSummary struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	Title         string                `json:"title"`
	Category      domain.Category       `json:"category"`
	CategoryLabel string                `json:"category_label"`
	Status        domain.TicketStatus   `json:"status"`
	StatusLabel   string                `json:"status_label"`
	Priority      domain.TicketPriority `json:"priority"`
	PriorityLabel string                `json:"priority_label"`
	RequesterID   string                `json:"requester_id"`
	RequesterName string                `json:"requester_name"`
	AssignedTo    *string               `json:"assigned_to"`
	AssignedName  *string               `json:"assigned_name"`
	NoteCount     int                   `json:"note_count"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description    string         `json:"description"`
	RequesterEmail string         `json:"requester_email"`
	Matricula      string         `json:"matricula"`
	ProblemType    string         `json:"problem_type"`
	Advisory       string         `json:"advisory"`
	ResolvedAt     *time.Time     `json:"resolved_at"`
	ResolvedBy     *string        `json:"resolved_by"`
	ResolvedByName *string        `json:"resolved_by_name"`
	Notes          []NoteResponse `json:"notes"`
}

// TicketReportResponse is the read model handed to report formatters.
type TicketReportResponse struct {
	Ticket    TicketDetailResponse `json:"ticket"`
	Requester *UserResponse        `json:"requester"`
}

// StatsResponse mirrors domain.TicketStats.
type StatsResponse struct {
	Total         int `json:"total"`
	Open          int `json:"open"`
	InProgress    int `json:"in_progress"`
	Resolved      int `json:"resolved"`
	Closed        int `json:"closed"`
	TodayCreated  int `json:"today_created"`
	TodayResolved int `json:"today_resolved"`
}
