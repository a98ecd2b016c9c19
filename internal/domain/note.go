package domain

import "time"

const (
	// SystemAuthorID marks notes generated by the service itself.
	SystemAuthorID = "system"
	// SystemAuthorName is the display name of generated notes.
	SystemAuthorName = "Sistema"
)

// Note is an append-only timeline entry on a ticket.
type Note struct {
	ID         string
	Text       string
	AuthorName string
	AuthorID   string
	AuthorRole Role
	CreatedAt  time.Time
}

// IsSystem reports whether the note was generated by the service.
func (n Note) IsSystem() bool {
	return n.AuthorID == SystemAuthorID
}
