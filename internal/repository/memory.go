package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// MemoryUserRepository keeps accounts in process memory. It backs tests and
// deployments without POSTGRES_DSN.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	order   []string
	now     func() time.Time
}

// NewMemoryUserRepository builds an empty directory.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return apperrors.NewValidationError("user already exists", map[string]any{"email": email})
	}
	if _, exists := r.byID[user.ID]; exists {
		return apperrors.NewValidationError("user already exists", map[string]any{"id": user.ID})
	}

	now := r.now()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user.Clone()
	r.byEmail[email] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
	}
	user.Email = stored.Email
	user.Role = stored.Role
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = r.now()
	r.byID[user.ID] = user.Clone()
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	delete(r.byID, id)
	delete(r.byEmail, stored.Email)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return user.Clone(), nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryUserRepository) List(_ context.Context, filter UserFilter) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		user := r.byID[id]
		switch {
		case filter.Kind == UserKindStudents && !user.IsStudent():
			continue
		case filter.Kind == UserKindStaff && user.IsStudent():
			continue
		case filter.Role != nil && user.Role != *filter.Role:
			continue
		}
		result = append(result, *user.Clone())
	}
	return result, nil
}

// MemoryTicketRepository keeps tickets in process memory. A single mutex
// serializes every mutation, which gives the same claim-if-unassigned
// guarantee as the row lock in Postgres.
type MemoryTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	seq     int64
}

// NewMemoryTicketRepository builds an empty store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ID]; exists {
		return apperrors.NewValidationError("ticket already exists", map[string]any{"id": ticket.ID})
	}
	r.seq++
	ticket.Sequence = r.seq
	if ticket.Notes == nil {
		ticket.Notes = []domain.Note{}
	}
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket.Clone(), nil
}

func (r *MemoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if filter.RequesterID != nil && t.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		result = append(result, *t.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence > result[j].Sequence })
	return result, nil
}

func (r *MemoryTicketRepository) Mutate(_ context.Context, id string, fn MutateFunc) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	working := stored.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if len(working.Notes) < len(stored.Notes) {
		return nil, apperrors.NewInternalError(errors.New("mutation removed notes"))
	}
	working.ID = stored.ID
	working.Sequence = stored.Sequence
	working.Notes = append(append([]domain.Note(nil), stored.Notes...), working.Notes[len(stored.Notes):]...)
	r.tickets[id] = working.Clone()
	return working, nil
}

func (r *MemoryTicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[id]; !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	delete(r.tickets, id)
	return nil
}
