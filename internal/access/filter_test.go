package access

import (
	"testing"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

func student(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleStudent, Student: &domain.StudentProfile{}}
}

func staff(id string, role domain.Role, cats ...domain.Category) *domain.User {
	return &domain.User{ID: id, Role: role, Staff: &domain.StaffProfile{AssignedCategories: cats}}
}

func ticket(id, requester string, cat domain.Category, assignee string) domain.Ticket {
	t := domain.Ticket{ID: id, RequesterID: requester, Category: cat, Status: domain.TicketStatusOpen}
	if assignee != "" {
		t.AssignTo(assignee, assignee)
	}
	return t
}

func ids(tickets []domain.Ticket) map[string]bool {
	out := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		out[t.ID] = true
	}
	return out
}

func fixture() []domain.Ticket {
	return []domain.Ticket{
		ticket("t1", "s1", domain.CategoryEmailPass, ""),
		ticket("t2", "s2", domain.CategoryRedes, ""),
		ticket("t3", "s1", domain.CategorySoftware, "x"),
		ticket("t4", "s3", domain.CategoryOther, ""),
	}
}

func TestVisibleTicketsStudent(t *testing.T) {
	got := ids(VisibleTickets(student("s1"), fixture()))
	if len(got) != 2 || !got["t1"] || !got["t3"] {
		t.Fatalf("student sees %v, want t1 and t3", got)
	}
}

func TestVisibleTicketsTopTier(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleSupremoDigital, domain.RoleGlobalizador} {
		if got := VisibleTickets(staff("a", role), fixture()); len(got) != 4 {
			t.Errorf("%s sees %d tickets, want 4", role, len(got))
		}
	}
}

func TestVisibleTicketsDepartmentCategory(t *testing.T) {
	tickets := []domain.Ticket{
		ticket("email", "s1", domain.CategoryEmailPass, ""),
		ticket("redes", "s1", domain.CategoryRedes, ""),
	}
	got := VisibleTickets(staff("c", domain.RoleCiberseguridad, domain.CategoryEmailPass), tickets)
	if len(got) != 1 || got[0].ID != "email" {
		t.Fatalf("department sees %v, want only email", ids(got))
	}
}

func TestVisibleTicketsDepartmentIncludesAssigned(t *testing.T) {
	got := ids(VisibleTickets(staff("x", domain.RoleDTE), fixture()))
	if len(got) != 1 || !got["t3"] {
		t.Fatalf("staff with no categories sees %v, want only assigned t3", got)
	}
}

func TestVisibleTicketsPreservesOrder(t *testing.T) {
	got := VisibleTickets(staff("a", domain.RoleSupremoDigital), fixture())
	for i, want := range []string{"t1", "t2", "t3", "t4"} {
		if got[i].ID != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestCanManage(t *testing.T) {
	assigned := ticket("t", "s1", domain.CategoryRedes, "x")
	unassigned := ticket("u", "s1", domain.CategoryRedes, "")

	tests := []struct {
		name string
		user *domain.User
		t    domain.Ticket
		want bool
	}{
		{"assignee", staff("x", domain.RoleOperacionesTICs), assigned, true},
		{"assignee without categories", staff("x", domain.RolePasantes), assigned, true},
		{"other department", staff("y", domain.RoleOperacionesTICs, domain.CategoryRedes), assigned, false},
		{"category only", staff("y", domain.RoleOperacionesTICs, domain.CategoryRedes), unassigned, false},
		{"view all", staff("a", domain.RoleGlobalizador), unassigned, true},
		{"requester", student("s1"), assigned, false},
	}
	for _, tt := range tests {
		if got := CanManage(tt.user, &tt.t); got != tt.want {
			t.Errorf("%s: CanManage = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanSeeTicket(t *testing.T) {
	tk := ticket("t", "s1", domain.CategoryRedes, "")
	tests := []struct {
		name string
		user *domain.User
		want bool
	}{
		{"requester", student("s1"), true},
		{"other student", student("s2"), false},
		{"category staff", staff("y", domain.RoleOperacionesTICs, domain.CategoryRedes), true},
		{"unrelated staff", staff("z", domain.RoleDTE, domain.CategoryVirtualPass), false},
		{"super", staff("a", domain.RoleSupremoDigital), true},
	}
	for _, tt := range tests {
		if got := CanSeeTicket(tt.user, &tk); got != tt.want {
			t.Errorf("%s: CanSeeTicket = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNilUserSeesNothing(t *testing.T) {
	if got := VisibleTickets(nil, fixture()); len(got) != 0 {
		t.Fatalf("nil user sees %d tickets", len(got))
	}
	tk := fixture()[0]
	if CanManage(nil, &tk) || CanSeeTicket(nil, &tk) {
		t.Fatal("nil user granted access")
	}
}
