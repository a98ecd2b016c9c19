package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/access"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// AssignmentService handles ticket ownership: claiming and transferring.
type AssignmentService struct {
	tickets repository.TicketRepository
	events  eventPublisher
	logger  *zap.Logger
	now     func() time.Time
}

// AssignmentDependencies bundles collaborators for assignment.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewAssignmentService builds service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AssignmentService{
		tickets: deps.TicketRepo,
		events:  newEventPublisher(deps.Dispatcher, logger, now),
		logger:  logger,
		now:     now,
	}
}

// Assign lets a staff member claim an unassigned ticket. Two concurrent
// claims on the same ticket resolve to exactly one winner; the loser gets a
// conflict and the ticket is untouched.
func (s *AssignmentService) Assign(ctx context.Context, id string, actor *domain.User) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("only staff can take tickets")
	}

	name := actor.FullName()
	ticket, err := s.tickets.Mutate(ctx, id, func(t *domain.Ticket) error {
		if t.IsAssigned() {
			return apperrors.NewConflict("ticket is already assigned", map[string]any{
				"assigned_to": t.AssignedToID(),
			})
		}
		now := s.now()
		t.AssignTo(actor.ID, name)
		t.Status = domain.TicketStatusInProgress
		t.ClearResolution()
		t.UpdatedAt = now
		t.AppendNote(systemNote(actor, assignedNoteText(name), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket assigned", zap.String("ticket_id", ticket.ID), zap.String("assignee_id", actor.ID))
	s.events.publish(ctx, events.EventTicketAssigned, ticket.ID, actor, events.TicketAssignedPayload{
		AssigneeID:   actor.ID,
		AssigneeName: name,
	})
	return ticket, nil
}

// Transfer moves a ticket to another category and releases it back to the
// queue.
func (s *AssignmentService) Transfer(ctx context.Context, id string, category domain.Category, actor *domain.User) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": category})
	}

	var from domain.Category
	ticket, err := s.tickets.Mutate(ctx, id, func(t *domain.Ticket) error {
		if !access.CanManage(actor, t) {
			return apperrors.NewForbidden("you cannot manage this ticket")
		}
		from = t.Category
		now := s.now()
		t.Category = category
		t.Unassign()
		t.Status = domain.TicketStatusOpen
		t.ClearResolution()
		t.UpdatedAt = now
		t.AppendNote(systemNote(actor, transferredNoteText(category, actor.FullName()), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket transferred",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(from)),
		zap.String("to", string(category)),
	)
	s.events.publish(ctx, events.EventTicketTransferred, ticket.ID, actor, events.TicketTransferredPayload{
		FromCategory: from,
		ToCategory:   category,
	})
	return ticket, nil
}
