package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// TicketFilter captures unfiltered lookup parameters. Access rules are
// applied above the repository.
type TicketFilter struct {
	RequesterID *string
	Status      *domain.TicketStatus
	Category    *domain.Category
}

// MutateFunc edits a ticket in place. It may change ticket fields and append
// notes; existing notes must be left untouched. Returning an error aborts the
// whole mutation.
type MutateFunc func(ticket *domain.Ticket) error

// TicketRepository encapsulates ticket and note persistence.
type TicketRepository interface {
	// Create assigns the next sequence number and stores the ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns tickets newest first, notes included.
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// Mutate applies fn and persists the result atomically with respect to
	// other mutations of the same ticket.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, seq, requester_id, requester_name, requester_email, matricula,
               assigned_to, assigned_name, title, description, category, status, priority,
               problem_type, advisory, created_at, updated_at, resolved_at, resolved_by, resolved_by_name`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if r.pool == nil {
		return mapStoreError(errNoPool, "ticket")
	}
	const query = `
        INSERT INTO tickets (id, seq, requester_id, requester_name, requester_email, matricula,
                             title, description, category, status, priority, problem_type, advisory,
                             created_at, updated_at)
        VALUES ($1, nextval('ticket_number_seq'), $2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING seq`
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.RequesterID,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.Matricula,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.ProblemType,
		ticket.Advisory,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Scan(&ticket.Sequence)
	return mapStoreError(err, "ticket")
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if r.pool == nil {
		return nil, mapStoreError(errNoPool, "ticket")
	}
	ticket, err := r.fetchSingle(ctx, r.pool, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if err := loadNotes(ctx, r.pool, []*domain.Ticket{ticket}); err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	return ticket, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, q querier, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(q.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if r.pool == nil {
		return nil, mapStoreError(errNoPool, "ticket")
	}
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY seq DESC`, ticketColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, mapStoreError(err, "ticket")
	}

	ptrs := make([]*domain.Ticket, len(tickets))
	for i := range tickets {
		ptrs[i] = &tickets[i]
	}
	if err := loadNotes(ctx, r.pool, ptrs); err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	return tickets, nil
}

// Mutate locks the ticket row for the duration of fn, so concurrent claims
// on the same ticket are serialized and the loser sees the winner's write.
func (r *ticketRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Ticket, error) {
	if r.pool == nil {
		return nil, mapStoreError(errNoPool, "ticket")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	ticket, err := r.fetchSingle(ctx, tx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	if err := loadNotes(ctx, tx, []*domain.Ticket{ticket}); err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	persisted := len(ticket.Notes)

	if err := fn(ticket); err != nil {
		return nil, err
	}
	if len(ticket.Notes) < persisted {
		return nil, apperrors.NewInternalError(errors.New("mutation removed notes"))
	}

	const update = `
        UPDATE tickets SET assigned_to=$1, assigned_name=$2, title=$3, description=$4, category=$5,
            status=$6, priority=$7, problem_type=$8, advisory=$9, updated_at=$10,
            resolved_at=$11, resolved_by=$12, resolved_by_name=$13
        WHERE id=$14`
	if _, err := tx.Exec(ctx, update,
		ticket.AssignedTo,
		ticket.AssignedName,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.ProblemType,
		ticket.Advisory,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
		ticket.ResolvedBy,
		ticket.ResolvedByName,
		ticket.ID,
	); err != nil {
		return nil, mapStoreError(err, "ticket")
	}

	const insertNote = `
        INSERT INTO ticket_notes (id, ticket_id, position, text, author_name, author_id, author_role, is_system, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	for i := persisted; i < len(ticket.Notes); i++ {
		n := ticket.Notes[i]
		if _, err := tx.Exec(ctx, insertNote,
			n.ID, ticket.ID, i, n.Text, n.AuthorName, n.AuthorID, n.AuthorRole, n.IsSystem(), n.CreatedAt,
		); err != nil {
			return nil, mapStoreError(err, "note")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapStoreError(err, "ticket")
	}
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return mapStoreError(errNoPool, "ticket")
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return mapStoreError(err, "ticket")
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func loadNotes(ctx context.Context, q querier, tickets []*domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Ticket, len(tickets))
	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		t.Notes = []domain.Note{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	const query = `
        SELECT ticket_id, id, text, author_name, author_id, author_role, created_at
        FROM ticket_notes WHERE ticket_id = ANY($1::uuid[]) ORDER BY ticket_id, position ASC`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ticketID string
			note     domain.Note
		)
		if err := rows.Scan(&ticketID, &note.ID, &note.Text, &note.AuthorName, &note.AuthorID, &note.AuthorRole, &note.CreatedAt); err != nil {
			return err
		}
		if t, ok := byID[ticketID]; ok {
			t.Notes = append(t.Notes, note)
		}
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Sequence,
		&ticket.RequesterID,
		&ticket.RequesterName,
		&ticket.RequesterEmail,
		&ticket.Matricula,
		&ticket.AssignedTo,
		&ticket.AssignedName,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Status,
		&ticket.Priority,
		&ticket.ProblemType,
		&ticket.Advisory,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ResolvedBy,
		&ticket.ResolvedByName,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	defer rows.Close()
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
