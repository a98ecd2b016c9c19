package service

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/triage"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

func TestCreateFirstTicket(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")

	ticket, err := f.ticketSvc.Create(context.Background(), student, CreateTicketInput{
		Title:        "Correo bloqueado",
		Description:  "No puedo entrar al correo",
		Category:     domain.CategoryEmailPass,
		PriorityHint: "Media",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Number() != "000001" {
		t.Errorf("Number = %q, want 000001", ticket.Number())
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("Status = %s", ticket.Status)
	}
	if len(ticket.Notes) != 0 {
		t.Errorf("Notes = %d, want 0", len(ticket.Notes))
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Errorf("Priority = %s", ticket.Priority)
	}
	if !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if ticket.RequesterName != student.FullName() || ticket.Matricula != "2024-0001" {
		t.Errorf("requester fields not copied: %+v", ticket)
	}
	if got := f.recorded.types(); got[len(got)-1] != events.EventTicketCreated {
		t.Errorf("last event = %s, want ticket_created", got[len(got)-1])
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	staff := f.seed(t, domain.RoleDTE, "dte@itla.edu.do")
	ctx := context.Background()

	_, err := f.ticketSvc.Create(ctx, student, CreateTicketInput{Title: "x", Category: domain.CategoryRedes})
	wantCode(t, err, apperrors.CodeValidation)

	_, err = f.ticketSvc.Create(ctx, student, CreateTicketInput{Title: "x", Description: "y", Category: "PRINTER"})
	wantCode(t, err, apperrors.CodeValidation)

	_, err = f.ticketSvc.Create(ctx, staff, CreateTicketInput{Title: "x", Description: "y", Category: domain.CategoryRedes})
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestCreateUsesTriageWithoutHint(t *testing.T) {
	f := newFixture(t)
	f.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo: f.tickets,
		Analyzer:   triage.NewKeywordAnalyzer(),
		Now:        f.clock.Now,
	})
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")

	ticket, err := f.ticketSvc.Create(context.Background(), student, CreateTicketInput{
		Title:       "Examen",
		Description: "Tengo un examen hoy y es urgente",
		Category:    domain.CategoryVirtualPass,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Priority != domain.TicketPriorityHigh {
		t.Errorf("Priority = %s, want HIGH", ticket.Priority)
	}
	if ticket.Advisory == "" {
		t.Error("expected triage advisory")
	}

	hinted, err := f.ticketSvc.Create(context.Background(), student, CreateTicketInput{
		Title:        "Examen",
		Description:  "Tengo un examen hoy y es urgente",
		Category:     domain.CategoryVirtualPass,
		PriorityHint: "baja",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if hinted.Priority != domain.TicketPriorityLow {
		t.Errorf("hinted Priority = %s, want LOW", hinted.Priority)
	}
}

func TestNumbersNeverReused(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")
	ctx := context.Background()

	first := f.openTicket(t, student, domain.CategoryRedes)
	second := f.openTicket(t, student, domain.CategoryRedes)
	if ok, err := f.ticketSvc.Delete(ctx, second.ID, admin); err != nil || !ok {
		t.Fatalf("Delete: %v %v", ok, err)
	}
	third := f.openTicket(t, student, domain.CategoryRedes)

	if !(first.Sequence < second.Sequence && second.Sequence < third.Sequence) {
		t.Fatalf("numbers not strictly increasing: %d %d %d", first.Sequence, second.Sequence, third.Sequence)
	}
	if third.Number() != "000003" {
		t.Errorf("third number = %s, want 000003", third.Number())
	}
}

func TestDeleteRequiresCapability(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	staff := f.seed(t, domain.RoleOperacionesTICs, "ops@itla.edu.do", domain.CategoryRedes)
	ticket := f.openTicket(t, student, domain.CategoryRedes)

	_, err := f.ticketSvc.Delete(context.Background(), ticket.ID, staff)
	wantCode(t, err, apperrors.CodeForbidden)
	if _, err := f.ticketSvc.ByID(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ticket should survive: %v", err)
	}
}

func TestSetStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	admin := f.seed(t, domain.RoleGlobalizador, "glob@itla.edu.do")
	ticket := f.openTicket(t, student, domain.CategorySoftware)
	ctx := context.Background()

	resolved, err := f.ticketSvc.SetStatus(ctx, ticket.ID, domain.TicketStatusResolved, admin)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ResolvedAt == nil || *resolved.ResolvedBy != admin.ID || *resolved.ResolvedByName != admin.FullName() {
		t.Fatalf("resolution not stamped: %+v", resolved)
	}
	last := resolved.Notes[len(resolved.Notes)-1]
	if !last.IsSystem() || last.Text != "Caso marcado como RESUELTO por "+admin.FullName()+". Solución aplicada exitosamente." {
		t.Errorf("resolved note = %+v", last)
	}

	closed, err := f.ticketSvc.SetStatus(ctx, ticket.ID, domain.TicketStatusClosed, admin)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.ResolvedAt == nil {
		t.Error("closing must keep the resolution stamp")
	}

	reopened, err := f.ticketSvc.SetStatus(ctx, ticket.ID, domain.TicketStatusOpen, admin)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.ResolvedAt != nil || reopened.ResolvedBy != nil {
		t.Error("reopening must clear the resolution stamp")
	}
	want := "Estado actualizado a \"Abierto\" por " + admin.FullName() + "."
	if got := reopened.Notes[len(reopened.Notes)-1].Text; got != want {
		t.Errorf("status note = %q, want %q", got, want)
	}
	if len(reopened.Notes) != 3 {
		t.Errorf("notes = %d, want 3", len(reopened.Notes))
	}
}

func TestSetStatusRequiresManage(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	staff := f.seed(t, domain.RoleCiberseguridad, "ciber@itla.edu.do", domain.CategoryEmailPass)
	ticket := f.openTicket(t, student, domain.CategoryEmailPass)

	// visible through category affinity, but not owned
	_, err := f.ticketSvc.SetStatus(context.Background(), ticket.ID, domain.TicketStatusResolved, staff)
	wantCode(t, err, apperrors.CodeForbidden)

	_, err = f.ticketSvc.SetStatus(context.Background(), ticket.ID, domain.TicketStatusResolved, student)
	wantCode(t, err, apperrors.CodeForbidden)

	stored, _ := f.ticketSvc.ByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusOpen || len(stored.Notes) != 0 {
		t.Errorf("rejected mutation changed state: %+v", stored)
	}
}

func TestContinuityOfOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")
	staffX := f.seed(t, domain.RoleTecnologiaIT, "x@itla.edu.do", domain.CategorySigeiPass)
	ticket := f.openTicket(t, student, domain.CategorySigeiPass)

	if _, err := f.assignSvc.Assign(ctx, ticket.ID, staffX); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := f.directory.UpdateAssignedCategories(ctx, staffX.ID, []domain.Category{}, admin); err != nil {
		t.Fatalf("UpdateAssignedCategories: %v", err)
	}

	resolved, err := f.ticketSvc.SetStatus(ctx, ticket.ID, domain.TicketStatusResolved, f.reload(t, staffX))
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != staffX.ID {
		t.Errorf("ResolvedBy = %v, want %s", resolved.ResolvedBy, staffX.ID)
	}
}

func TestUpdatePriority(t *testing.T) {
	f := newFixture(t)
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")
	ticket := f.openTicket(t, student, domain.CategoryOther)

	updated, err := f.ticketSvc.UpdatePriority(context.Background(), ticket.ID, domain.TicketPriorityHigh, admin)
	if err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}
	if updated.Priority != domain.TicketPriorityHigh {
		t.Errorf("Priority = %s", updated.Priority)
	}
	want := "Prioridad actualizada a \"Alta\" por " + admin.FullName() + "."
	if got := updated.Notes[0].Text; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}

	_, err = f.ticketSvc.UpdatePriority(context.Background(), ticket.ID, "URGENT", admin)
	wantCode(t, err, apperrors.CodeValidation)
}

func TestAddNoteKeepsPrefix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	staff := f.seed(t, domain.RoleDTE, "dte@itla.edu.do", domain.CategoryVirtualPass)
	ticket := f.openTicket(t, student, domain.CategoryVirtualPass)

	if _, err := f.assignSvc.Assign(ctx, ticket.ID, staff); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	before, _ := f.ticketSvc.ByID(ctx, ticket.ID)

	note, err := f.ticketSvc.AddNote(ctx, ticket.ID, "  Ya lo intenté  ", student)
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if note.Text != "Ya lo intenté" || note.AuthorID != student.ID || note.IsSystem() {
		t.Errorf("note = %+v", note)
	}

	after, _ := f.ticketSvc.ByID(ctx, ticket.ID)
	if len(after.Notes) != len(before.Notes)+1 {
		t.Fatalf("notes = %d, want %d", len(after.Notes), len(before.Notes)+1)
	}
	if !reflect.DeepEqual(after.Notes[:len(before.Notes)], before.Notes) {
		t.Error("earlier notes were modified")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("UpdatedAt not advanced")
	}
}

func TestAddNoteRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	other := f.seed(t, domain.RoleStudent, "luis@itla.edu.do")
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")
	ticket := f.openTicket(t, student, domain.CategoryRedes)

	_, err := f.ticketSvc.AddNote(ctx, ticket.ID, "   ", student)
	wantCode(t, err, apperrors.CodeValidation)

	_, err = f.ticketSvc.AddNote(ctx, ticket.ID, "hola", other)
	wantCode(t, err, apperrors.CodeForbidden)

	if _, err := f.ticketSvc.SetStatus(ctx, ticket.ID, domain.TicketStatusClosed, admin); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = f.ticketSvc.AddNote(ctx, ticket.ID, "sigue fallando", student)
	wantCode(t, err, apperrors.CodeForbidden)

	if _, err := f.ticketSvc.AddNote(ctx, ticket.ID, "seguimiento interno", admin); err != nil {
		t.Fatalf("staff note on closed ticket: %v", err)
	}

	_, err = f.ticketSvc.AddNote(ctx, "missing", "hola", admin)
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestQueriesAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	luis := f.seed(t, domain.RoleStudent, "luis@itla.edu.do")
	ciber := f.seed(t, domain.RoleCiberseguridad, "ciber@itla.edu.do", domain.CategoryEmailPass)
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")

	mail := f.openTicket(t, ana, domain.CategoryEmailPass)
	redes := f.openTicket(t, luis, domain.CategoryRedes)

	visible, err := f.ticketSvc.AllVisibleTo(ctx, ciber)
	if err != nil {
		t.Fatalf("AllVisibleTo: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != mail.ID {
		t.Fatalf("ciber sees %+v, want only the EMAIL_PASS ticket", visible)
	}

	all, _ := f.ticketSvc.AllVisibleTo(ctx, admin)
	if len(all) != 2 || all[0].ID != redes.ID {
		t.Fatalf("admin sees %d tickets, newest first expected", len(all))
	}

	mine, _ := f.ticketSvc.AllVisibleTo(ctx, luis)
	if len(mine) != 1 || mine[0].ID != redes.ID {
		t.Fatalf("luis sees %+v", mine)
	}

	byReq, _ := f.ticketSvc.ByRequester(ctx, ana.ID)
	if len(byReq) != 1 || byReq[0].ID != mail.ID {
		t.Errorf("ByRequester = %+v", byReq)
	}
	byCat, _ := f.ticketSvc.ByCategory(ctx, domain.CategoryRedes)
	if len(byCat) != 1 || byCat[0].ID != redes.ID {
		t.Errorf("ByCategory = %+v", byCat)
	}
	byStatus, _ := f.ticketSvc.ByStatus(ctx, domain.TicketStatusResolved)
	if byStatus == nil || len(byStatus) != 0 {
		t.Errorf("ByStatus(RESOLVED) = %#v, want empty slice", byStatus)
	}

	_, err = f.ticketSvc.Get(ctx, redes.ID, ciber)
	wantCode(t, err, apperrors.CodeForbidden)
	_, err = f.ticketSvc.Get(ctx, "missing", ciber)
	wantCode(t, err, apperrors.CodeNotFound)
	if _, err := f.ticketSvc.Get(ctx, mail.ID, ciber); err != nil {
		t.Errorf("Get visible ticket: %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	admin := f.seed(t, domain.RoleSupremoDigital, "admin@itla.edu.do")

	first := f.openTicket(t, ana, domain.CategoryRedes)
	f.openTicket(t, ana, domain.CategoryOther)
	if _, err := f.ticketSvc.SetStatus(ctx, first.ID, domain.TicketStatusResolved, admin); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	stats, err := f.ticketSvc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := domain.TicketStats{Total: 2, Open: 1, Resolved: 1, TodayCreated: 2, TodayResolved: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}

	other := f.seed(t, domain.RoleStudent, "luis@itla.edu.do")
	mine, err := f.ticketSvc.StatsFor(ctx, other)
	if err != nil {
		t.Fatalf("StatsFor: %v", err)
	}
	if mine.Total != 0 {
		t.Errorf("StatsFor(other).Total = %d", mine.Total)
	}
}

func TestReportIncludesRequester(t *testing.T) {
	f := newFixture(t)
	ana := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	ticket := f.openTicket(t, ana, domain.CategoryAcademicRequest)

	report, err := f.ticketSvc.Report(context.Background(), ticket.ID, ana)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Requester == nil || report.Requester.ID != ana.ID {
		t.Fatalf("Requester = %+v", report.Requester)
	}
	if report.Requester.PasswordHash != "" {
		t.Error("report leaks password hash")
	}
}

func TestConcurrentNotesAreAllKept(t *testing.T) {
	f := newFixture(t)
	ana := f.seed(t, domain.RoleStudent, "ana@itla.edu.do")
	ticket := f.openTicket(t, ana, domain.CategoryOther)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ticketSvc.AddNote(context.Background(), ticket.ID, "nota", ana); err != nil {
				t.Errorf("AddNote: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, _ := f.ticketSvc.ByID(context.Background(), ticket.ID)
	if len(stored.Notes) != 20 {
		t.Fatalf("notes = %d, want 20", len(stored.Notes))
	}
}
