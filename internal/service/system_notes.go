package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

func assignedNoteText(name string) string {
	return fmt.Sprintf("%s ha tomado este caso y comenzará a trabajar en la solución.", name)
}

func statusChangeNoteText(status domain.TicketStatus, name string) string {
	return fmt.Sprintf("Estado actualizado a \"%s\" por %s.", status.Label(), name)
}

func transferredNoteText(category domain.Category, name string) string {
	return fmt.Sprintf("Caso transferido a \"%s\" por %s para mejor atención.", category.Label(), name)
}

func resolvedNoteText(name string) string {
	return fmt.Sprintf("Caso marcado como RESUELTO por %s. Solución aplicada exitosamente.", name)
}

func closedNoteText(name string) string {
	return fmt.Sprintf("Caso CERRADO por %s. Gracias por usar el sistema de soporte ITLA.", name)
}

func priorityNoteText(priority domain.TicketPriority, name string) string {
	return fmt.Sprintf("Prioridad actualizada a \"%s\" por %s.", priority.Label(), name)
}

// statusNoteText picks the timeline text for a status change.
func statusNoteText(status domain.TicketStatus, name string) string {
	switch status {
	case domain.TicketStatusResolved:
		return resolvedNoteText(name)
	case domain.TicketStatusClosed:
		return closedNoteText(name)
	default:
		return statusChangeNoteText(status, name)
	}
}

// systemNote records an action taken by actor under the system author.
func systemNote(actor *domain.User, text string, at time.Time) domain.Note {
	return domain.Note{
		ID:         uuid.NewString(),
		Text:       text,
		AuthorName: domain.SystemAuthorName,
		AuthorID:   domain.SystemAuthorID,
		AuthorRole: actor.Role,
		CreatedAt:  at,
	}
}

func userNote(actor *domain.User, text string, at time.Time) domain.Note {
	return domain.Note{
		ID:         uuid.NewString(),
		Text:       text,
		AuthorName: actor.FullName(),
		AuthorID:   actor.ID,
		AuthorRole: actor.Role,
		CreatedAt:  at,
	}
}
