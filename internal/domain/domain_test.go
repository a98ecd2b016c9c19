package domain

import (
	"testing"
	"time"
)

func TestCapabilitiesOfSuperRoles(t *testing.T) {
	for _, role := range []Role{RoleSupremoDigital, RoleGlobalizador} {
		caps := CapabilitiesOf(role)
		if !caps.CanManageUsers || !caps.CanAssignCategories || !caps.CanViewAllTickets || !caps.CanDeleteTickets {
			t.Errorf("%s: expected every capability, got %+v", role, caps)
		}
	}
}

func TestCapabilitiesOfNonSuperRoles(t *testing.T) {
	roles := []Role{RoleStudent, RoleOperacionesTICs, RoleTecnologiaIT, RoleDTE, RoleCiberseguridad, RolePasantes}
	for _, role := range roles {
		caps := CapabilitiesOf(role)
		if caps.CanManageUsers || caps.CanAssignCategories || caps.CanViewAllTickets || caps.CanDeleteTickets {
			t.Errorf("%s: expected no capabilities, got %+v", role, caps)
		}
	}
}

func TestCapabilitiesOfUnknownRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown role")
		}
	}()
	CapabilitiesOf(Role("JANITOR"))
}

func TestCapabilitiesOfReturnsCopy(t *testing.T) {
	caps := CapabilitiesOf(RoleCiberseguridad)
	caps.DefaultCategories[0] = CategoryOther
	if got := CapabilitiesOf(RoleCiberseguridad).DefaultCategories[0]; got != CategoryEmailPass {
		t.Fatalf("table mutated through returned slice: %q", got)
	}
}

func TestCanCreateRole(t *testing.T) {
	tests := []struct {
		creator Role
		target  Role
		want    bool
	}{
		{RoleSupremoDigital, RoleSupremoDigital, true},
		{RoleSupremoDigital, RolePasantes, true},
		{RoleGlobalizador, RoleSupremoDigital, false},
		{RoleGlobalizador, RoleGlobalizador, true},
		{RoleGlobalizador, RoleDTE, true},
		{RoleDTE, RolePasantes, false},
		{RoleSupremoDigital, RoleStudent, false},
		{RoleStudent, RolePasantes, false},
	}
	for _, tt := range tests {
		if got := CanCreateRole(tt.creator, tt.target); got != tt.want {
			t.Errorf("CanCreateRole(%s, %s) = %v, want %v", tt.creator, tt.target, got, tt.want)
		}
	}
}

func TestCanDeleteRole(t *testing.T) {
	tests := []struct {
		actor  Role
		target Role
		want   bool
	}{
		{RoleSupremoDigital, RoleGlobalizador, true},
		{RoleSupremoDigital, RoleStudent, true},
		{RoleGlobalizador, RoleSupremoDigital, false},
		{RoleGlobalizador, RoleStudent, true},
		{RoleCiberseguridad, RoleSupremoDigital, false},
		{RoleCiberseguridad, RoleStudent, false},
	}
	for _, tt := range tests {
		if got := CanDeleteRole(tt.actor, tt.target); got != tt.want {
			t.Errorf("CanDeleteRole(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}

func TestParsers(t *testing.T) {
	if c, ok := ParseCategory("Correo Institucional"); !ok || c != CategoryEmailPass {
		t.Errorf("ParseCategory(label) = %q, %v", c, ok)
	}
	if c, ok := ParseCategory("redes"); !ok || c != CategoryRedes {
		t.Errorf("ParseCategory(code) = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("PRINTERS"); ok {
		t.Error("ParseCategory accepted unknown value")
	}
	if s, ok := ParseStatus("En Proceso"); !ok || s != TicketStatusInProgress {
		t.Errorf("ParseStatus(label) = %q, %v", s, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Error("ParseRole accepted unknown role")
	}
}

func TestPriorityFromHint(t *testing.T) {
	tests := map[string]TicketPriority{
		"Alta":   TicketPriorityHigh,
		"media":  TicketPriorityMedium,
		"LOW":    TicketPriorityLow,
		"":       TicketPriorityMedium,
		"urgent": TicketPriorityMedium,
	}
	for hint, want := range tests {
		if got := PriorityFromHint(hint); got != want {
			t.Errorf("PriorityFromHint(%q) = %q, want %q", hint, got, want)
		}
	}
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]Category{CategoryOther, CategoryRedes, CategoryOther})
	if len(got) != 2 || got[0] != CategoryRedes || got[1] != CategoryOther {
		t.Fatalf("NormalizeCategories = %v", got)
	}
	if got := NormalizeCategories(nil); got == nil || len(got) != 0 {
		t.Fatalf("NormalizeCategories(nil) = %#v, want empty non-nil", got)
	}
}

func TestFormatTicketNumber(t *testing.T) {
	if got := FormatTicketNumber(1); got != "000001" {
		t.Errorf("FormatTicketNumber(1) = %q", got)
	}
	if got := FormatTicketNumber(1234567); got != "1234567" {
		t.Errorf("FormatTicketNumber(1234567) = %q", got)
	}
}

func TestUserFullName(t *testing.T) {
	u := &User{Name: "Juan", LastName: "Pérez"}
	if got := u.FullName(); got != "Juan Pérez" {
		t.Errorf("FullName = %q", got)
	}
	u.LastName = ""
	if got := u.FullName(); got != "Juan" {
		t.Errorf("FullName without last name = %q", got)
	}
}

func TestTicketCloneIsDeep(t *testing.T) {
	orig := &Ticket{Notes: []Note{{ID: "n1"}}}
	orig.AssignTo("staff-1", "Rosa")
	cp := orig.Clone()
	*cp.AssignedTo = "other"
	cp.Notes[0].ID = "changed"
	if orig.AssignedToID() != "staff-1" || orig.Notes[0].ID != "n1" {
		t.Fatal("clone shares state with original")
	}
}

func TestNoteIsSystem(t *testing.T) {
	if !(Note{AuthorID: SystemAuthorID}).IsSystem() {
		t.Error("system sentinel not detected")
	}
	if (Note{AuthorID: "u1"}).IsSystem() {
		t.Error("user note reported as system")
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	resolvedToday := now.Add(-time.Hour)

	tickets := []Ticket{
		{Status: TicketStatusOpen, CreatedAt: now},
		{Status: TicketStatusInProgress, CreatedAt: yesterday},
		{Status: TicketStatusResolved, CreatedAt: yesterday, ResolvedAt: &resolvedToday},
		{Status: TicketStatusClosed, CreatedAt: yesterday, ResolvedAt: &yesterday},
	}
	got := ComputeStats(tickets, now)
	want := TicketStats{Total: 4, Open: 1, InProgress: 1, Resolved: 1, Closed: 1, TodayCreated: 1, TodayResolved: 1}
	if got != want {
		t.Fatalf("ComputeStats = %+v, want %+v", got, want)
	}
}

func TestPortalAdmits(t *testing.T) {
	if !PortalStudent.Admits(RoleStudent) || PortalStudent.Admits(RoleDTE) {
		t.Error("student portal policy wrong")
	}
	if !PortalStaff.Admits(RolePasantes) || PortalStaff.Admits(RoleStudent) {
		t.Error("staff portal policy wrong")
	}
}

func TestIsStaffRequiresKnownRole(t *testing.T) {
	for _, role := range StaffRoles() {
		if !role.IsStaff() {
			t.Errorf("%s should be staff", role)
		}
	}
	for _, role := range []Role{RoleStudent, "", "JANITOR"} {
		if role.IsStaff() {
			t.Errorf("%q should not be staff", role)
		}
	}
}
