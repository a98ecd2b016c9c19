package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	users      *repository.MemoryUserRepository
	tickets    *repository.MemoryTicketRepository
	dispatcher events.Dispatcher
	recorded   *recordedEvents
	directory  *DirectoryService
	ticketSvc  *TicketService
	assignSvc  *AssignmentService
	clock      *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:      repository.NewMemoryUserRepository(),
		tickets:    repository.NewMemoryTicketRepository(),
		dispatcher: events.NewInMemoryDispatcher(nil),
		recorded:   &recordedEvents{},
		clock:      &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
	}
	f.dispatcher.SubscribeTopic(events.TopicTickets, f.recorded.handle)
	f.dispatcher.SubscribeTopic(events.TopicUsers, f.recorded.handle)

	f.directory = NewDirectoryService(DirectoryDependencies{
		UserRepo:    f.users,
		Dispatcher:  f.dispatcher,
		BcryptCost:  bcrypt.MinCost,
		EmailDomain: "itla.edu.do",
		Now:         f.clock.Now,
	})
	f.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo: f.tickets,
		UserRepo:   f.users,
		Dispatcher: f.dispatcher,
		Now:        f.clock.Now,
	})
	f.assignSvc = NewAssignmentService(AssignmentDependencies{
		TicketRepo: f.tickets,
		Dispatcher: f.dispatcher,
		Now:        f.clock.Now,
	})
	return f
}

func (f *fixture) seed(t *testing.T, role domain.Role, email string, categories ...domain.Category) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Test", LastName: string(role), Email: email, Role: role}
	if role.IsStaff() {
		user.Staff = &domain.StaffProfile{AssignedCategories: categories}
	} else {
		user.Student = &domain.StudentProfile{Matricula: "2024-0001"}
	}
	if err := f.directory.Bootstrap(context.Background(), user, "secreto123"); err != nil {
		t.Fatalf("bootstrap %s: %v", email, err)
	}
	return user
}

// reload fetches the stored copy, as the auth middleware would per request.
func (f *fixture) reload(t *testing.T, user *domain.User) *domain.User {
	t.Helper()
	fresh, err := f.users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reload %s: %v", user.ID, err)
	}
	return fresh
}

func (f *fixture) openTicket(t *testing.T, student *domain.User, category domain.Category) *domain.Ticket {
	t.Helper()
	ticket, err := f.ticketSvc.Create(context.Background(), student, CreateTicketInput{
		Title:       "No puedo entrar",
		Description: "La contraseña no funciona",
		Category:    category,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
