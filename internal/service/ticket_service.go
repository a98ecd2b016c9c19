package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/access"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/triage"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets  repository.TicketRepository
	users    repository.UserRepository
	analyzer triage.Analyzer
	events   eventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	// Analyzer is optional. Without it tickets get no advisory and default
	// to MEDIUM when the caller gives no priority hint.
	Analyzer triage.Analyzer
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewTicketService constructs service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		analyzer: deps.Analyzer,
		events:   newEventPublisher(deps.Dispatcher, logger, now),
		logger:   logger,
		now:      now,
	}
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title       string
	Description string
	Category    domain.Category
	// PriorityHint is free text such as "alta"; empty defers to triage.
	PriorityHint string
	// Advisory overrides the triage advisory when set.
	Advisory    string
	ProblemType string
}

// TicketReport is the printable view of a ticket.
type TicketReport struct {
	Ticket    *domain.Ticket
	Requester *domain.User
}

// Create opens a ticket on behalf of a student.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsStudent() {
		return nil, apperrors.NewForbidden("only students can create tickets")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if err := requireFields(field{"title", title}, field{"description", description}, field{"category", string(input.Category)}); err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}

	priority := domain.TicketPriorityMedium
	advisory := strings.TrimSpace(input.Advisory)
	if s.analyzer != nil {
		suggestion := s.analyzer.Analyze(description, input.Category)
		priority = suggestion.Priority
		if advisory == "" {
			advisory = suggestion.Advisory()
		}
	}
	if hint := strings.TrimSpace(input.PriorityHint); hint != "" {
		priority = domain.PriorityFromHint(hint)
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		RequesterID:    actor.ID,
		RequesterName:  actor.FullName(),
		RequesterEmail: actor.Email,
		Matricula:      actor.Matricula(),
		Title:          title,
		Description:    description,
		Category:       input.Category,
		Status:         domain.TicketStatusOpen,
		Priority:       priority,
		ProblemType:    strings.TrimSpace(input.ProblemType),
		Advisory:       advisory,
		Notes:          []domain.Note{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("number", ticket.Number()),
		zap.String("category", string(ticket.Category)),
		zap.String("priority", string(ticket.Priority)),
	)
	s.events.publish(ctx, events.EventTicketCreated, ticket.ID, actor, events.TicketCreatedPayload{
		Number:   ticket.Number(),
		Category: ticket.Category,
		Priority: ticket.Priority,
		Title:    ticket.Title,
	})
	return ticket, nil
}

// SetStatus moves a ticket through its lifecycle.
func (s *TicketService) SetStatus(ctx context.Context, id string, status domain.TicketStatus, actor *domain.User) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var previous domain.TicketStatus
	ticket, err := s.tickets.Mutate(ctx, id, func(t *domain.Ticket) error {
		if !access.CanManage(actor, t) {
			return apperrors.NewForbidden("you cannot manage this ticket")
		}
		previous = t.Status
		now := s.now()
		t.Status = status
		t.UpdatedAt = now
		switch status {
		case domain.TicketStatusResolved:
			t.MarkResolved(now, actor.ID, actor.FullName())
		case domain.TicketStatusOpen, domain.TicketStatusInProgress:
			t.ClearResolution()
		}
		t.AppendNote(systemNote(actor, statusNoteText(status, actor.FullName()), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.EventTicketStatusChanged, ticket.ID, actor, events.TicketStatusChangedPayload{
		OldStatus: previous,
		NewStatus: status,
	})
	return ticket, nil
}

// UpdatePriority changes a ticket's priority.
func (s *TicketService) UpdatePriority(ctx context.Context, id string, priority domain.TicketPriority, actor *domain.User) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	var previous domain.TicketPriority
	ticket, err := s.tickets.Mutate(ctx, id, func(t *domain.Ticket) error {
		if !access.CanManage(actor, t) {
			return apperrors.NewForbidden("you cannot manage this ticket")
		}
		previous = t.Priority
		now := s.now()
		t.Priority = priority
		t.UpdatedAt = now
		t.AppendNote(systemNote(actor, priorityNoteText(priority, actor.FullName()), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.EventTicketPriorityChanged, ticket.ID, actor, events.TicketPriorityChangedPayload{
		OldPriority: previous,
		NewPriority: priority,
	})
	return ticket, nil
}

// AddNote appends a user note to the ticket timeline.
func (s *TicketService) AddNote(ctx context.Context, id, text string, actor *domain.User) (domain.Note, error) {
	if actor == nil {
		return domain.Note{}, apperrors.NewUnauthorized("authentication required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Note{}, apperrors.NewValidationError("note text is required", nil)
	}

	var note domain.Note
	ticket, err := s.tickets.Mutate(ctx, id, func(t *domain.Ticket) error {
		if !access.CanSeeTicket(actor, t) {
			return apperrors.NewForbidden("you cannot access this ticket")
		}
		if actor.IsStudent() && t.Status == domain.TicketStatusClosed {
			return apperrors.NewForbidden("closed tickets do not accept new notes")
		}
		note = userNote(actor, text, s.now())
		t.AppendNote(note)
		return nil
	})
	if err != nil {
		return domain.Note{}, err
	}

	s.events.publish(ctx, events.EventTicketNoteAdded, ticket.ID, actor, events.TicketNoteAddedPayload{
		NoteID:      note.ID,
		IsSystem:    note.IsSystem(),
		TextPreview: stringPreview(note.Text, 80),
	})
	return note, nil
}

// Delete removes a ticket. Its number is never handed out again.
func (s *TicketService) Delete(ctx context.Context, id string, actor *domain.User) (bool, error) {
	if actor == nil {
		return false, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Capabilities().CanDeleteTickets {
		return false, apperrors.NewForbidden("your role cannot delete tickets")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return false, err
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id), zap.String("actor_id", actor.ID))
	s.events.publish(ctx, events.EventTicketDeleted, id, actor, nil)
	return true, nil
}

// AllVisibleTo lists every ticket the user may see, newest first.
func (s *TicketService) AllVisibleTo(ctx context.Context, user *domain.User) ([]domain.Ticket, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(access.VisibleTickets(user, tickets)), nil
}

// Get returns a ticket if the actor may see it.
func (s *TicketService) Get(ctx context.Context, id string, actor *domain.User) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanSeeTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("you cannot access this ticket")
	}
	return ticket, nil
}

// ByID is an unfiltered lookup for internal callers.
func (s *TicketService) ByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ByRequester lists tickets opened by a user. Unfiltered.
func (s *TicketService) ByRequester(ctx context.Context, requesterID string) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{RequesterID: &requesterID})
}

// ByStatus lists tickets in a status. Unfiltered.
func (s *TicketService) ByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	return s.list(ctx, repository.TicketFilter{Status: &status})
}

// ByCategory lists tickets in a category. Unfiltered.
func (s *TicketService) ByCategory(ctx context.Context, category domain.Category) ([]domain.Ticket, error) {
	if !category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": category})
	}
	return s.list(ctx, repository.TicketFilter{Category: &category})
}

// Search combines the lookups for administrators who can view every ticket.
func (s *TicketService) Search(ctx context.Context, filter repository.TicketFilter, actor *domain.User) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Capabilities().CanViewAllTickets {
		return nil, apperrors.NewForbidden("your role cannot view all tickets")
	}
	return s.list(ctx, filter)
}

func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(tickets), nil
}

// Stats counts every ticket.
func (s *TicketService) Stats(ctx context.Context) (domain.TicketStats, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return domain.TicketStats{}, err
	}
	return domain.ComputeStats(tickets, s.now()), nil
}

// StatsFor counts the tickets visible to user.
func (s *TicketService) StatsFor(ctx context.Context, user *domain.User) (domain.TicketStats, error) {
	tickets, err := s.AllVisibleTo(ctx, user)
	if err != nil {
		return domain.TicketStats{}, err
	}
	return domain.ComputeStats(tickets, s.now()), nil
}

// Report assembles the ticket and its requester for printing.
func (s *TicketService) Report(ctx context.Context, id string, actor *domain.User) (*TicketReport, error) {
	ticket, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	report := &TicketReport{Ticket: ticket}
	if s.users == nil {
		return report, nil
	}
	requester, err := s.users.GetByID(ctx, ticket.RequesterID)
	switch {
	case err == nil:
		requester.PasswordHash = ""
		report.Requester = requester
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		// account removed since; the ticket keeps its copied display fields
	default:
		return nil, err
	}
	return report, nil
}

func emptyIfNil(tickets []domain.Ticket) []domain.Ticket {
	if tickets == nil {
		return []domain.Ticket{}
	}
	return tickets
}
