package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

var statusLabels = map[TicketStatus]string{
	TicketStatusOpen:       "Abierto",
	TicketStatusInProgress: "En Proceso",
	TicketStatusResolved:   "Resuelto",
	TicketStatusClosed:     "Cerrado",
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display text for s.
func (s TicketStatus) Label() string {
	return statusLabels[s]
}

// ParseStatus accepts either the code or the display label.
func ParseStatus(value string) (TicketStatus, bool) {
	value = strings.TrimSpace(value)
	if s := TicketStatus(strings.ToUpper(value)); s.Valid() {
		return s, true
	}
	for s, label := range statusLabels {
		if strings.EqualFold(label, value) {
			return s, true
		}
	}
	return "", false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

var priorityLabels = map[TicketPriority]string{
	TicketPriorityLow:    "Baja",
	TicketPriorityMedium: "Media",
	TicketPriorityHigh:   "Alta",
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the display text for p.
func (p TicketPriority) Label() string {
	return priorityLabels[p]
}

// ParsePriority accepts the code or the display label, case-insensitively.
func ParsePriority(value string) (TicketPriority, bool) {
	value = strings.TrimSpace(value)
	if p := TicketPriority(strings.ToUpper(value)); p.Valid() {
		return p, true
	}
	for p, label := range priorityLabels {
		if strings.EqualFold(label, value) {
			return p, true
		}
	}
	return "", false
}

// PriorityFromHint maps an opaque triage hint to a priority, defaulting to medium.
func PriorityFromHint(hint string) TicketPriority {
	if p, ok := ParsePriority(hint); ok {
		return p
	}
	return TicketPriorityMedium
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	Sequence       int64
	RequesterID    string
	RequesterName  string
	RequesterEmail string
	Matricula      string
	AssignedTo     *string
	AssignedName   *string
	Title          string
	Description    string
	Category       Category
	Status         TicketStatus
	Priority       TicketPriority
	ProblemType    string
	Advisory       string
	Notes          []Note
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
	ResolvedBy     *string
	ResolvedByName *string
}

// FormatTicketNumber renders a sequence as the zero-padded display number.
func FormatTicketNumber(seq int64) string {
	return fmt.Sprintf("%06d", seq)
}

// Number returns the display number.
func (t *Ticket) Number() string {
	return FormatTicketNumber(t.Sequence)
}

// IsAssigned reports whether a staff member currently owns the ticket.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}

// AssignedToID returns the assignee id or "".
func (t *Ticket) AssignedToID() string {
	if t.AssignedTo == nil {
		return ""
	}
	return *t.AssignedTo
}

// AssignTo sets the owner.
func (t *Ticket) AssignTo(id, name string) {
	t.AssignedTo = &id
	t.AssignedName = &name
}

// Unassign clears the owner.
func (t *Ticket) Unassign() {
	t.AssignedTo = nil
	t.AssignedName = nil
}

// MarkResolved stamps resolution metadata.
func (t *Ticket) MarkResolved(at time.Time, byID, byName string) {
	t.ResolvedAt = &at
	t.ResolvedBy = &byID
	t.ResolvedByName = &byName
}

// ClearResolution drops resolution metadata when the ticket is reopened.
func (t *Ticket) ClearResolution() {
	t.ResolvedAt = nil
	t.ResolvedBy = nil
	t.ResolvedByName = nil
}

// AppendNote adds n to the timeline and bumps UpdatedAt.
func (t *Ticket) AppendNote(n Note) {
	t.Notes = append(t.Notes, n)
	if n.CreatedAt.After(t.UpdatedAt) {
		t.UpdatedAt = n.CreatedAt
	}
}

// Clone returns a deep copy.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	cp.AssignedTo = clonePtr(t.AssignedTo)
	cp.AssignedName = clonePtr(t.AssignedName)
	cp.ResolvedBy = clonePtr(t.ResolvedBy)
	cp.ResolvedByName = clonePtr(t.ResolvedByName)
	cp.ResolvedAt = clonePtr(t.ResolvedAt)
	cp.Notes = append([]Note(nil), t.Notes...)
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
