package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// UserKind narrows a directory listing.
type UserKind string

const (
	UserKindAll      UserKind = ""
	UserKindStudents UserKind = "students"
	UserKindStaff    UserKind = "staff"
)

// UserFilter captures directory listing parameters.
type UserFilter struct {
	Kind UserKind
	Role *domain.Role
}

// UserRepository defines persistence access for accounts.
// Lookups of missing rows return a NOT_FOUND DomainError.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, last_name, email, role, password_hash, cedula, age, matricula,
               personal_email, phone, career, assigned_categories, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if r.pool == nil {
		return mapStoreError(errNoPool, "user")
	}
	const query = `
        INSERT INTO users (id, name, last_name, email, role, password_hash, cedula, age, matricula,
                           personal_email, phone, career, assigned_categories)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	row := userRow(user)
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.LastName,
		domain.NormalizeEmail(user.Email),
		user.Role,
		user.PasswordHash,
		row.cedula,
		row.age,
		row.matricula,
		row.personalEmail,
		row.phone,
		row.career,
		row.categories,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapStoreError(err, "user")
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if r.pool == nil {
		return mapStoreError(errNoPool, "user")
	}
	const query = `
        UPDATE users SET name=$1, last_name=$2, password_hash=$3, cedula=$4, age=$5, matricula=$6,
            personal_email=$7, phone=$8, career=$9, assigned_categories=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	row := userRow(user)
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.LastName,
		user.PasswordHash,
		row.cedula,
		row.age,
		row.matricula,
		row.personalEmail,
		row.phone,
		row.career,
		row.categories,
		user.ID,
	).Scan(&user.UpdatedAt)
	return mapStoreError(err, "user")
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return mapStoreError(errNoPool, "user")
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapStoreError(err, "user")
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, domain.NormalizeEmail(email))
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	if r.pool == nil {
		return nil, mapStoreError(errNoPool, "user")
	}
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapStoreError(err, "user")
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	if r.pool == nil {
		return nil, mapStoreError(errNoPool, "user")
	}
	clauses := []string{"1=1"}
	args := []any{}

	switch filter.Kind {
	case UserKindStudents:
		args = append(args, domain.RoleStudent)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	case UserKindStaff:
		args = append(args, domain.RoleStudent)
		clauses = append(clauses, fmt.Sprintf("role<>$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at ASC`, userColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err, "user")
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapStoreError(err, "user")
		}
		result = append(result, *user)
	}
	return result, mapStoreError(rows.Err(), "user")
}

// userColumnsRow flattens the role-specific profile into nullable columns.
type userColumnsRow struct {
	cedula        string
	age           int
	matricula     string
	personalEmail string
	phone         string
	career        string
	categories    []string
}

func userRow(user *domain.User) userColumnsRow {
	var row userColumnsRow
	if s := user.Student; s != nil {
		row.cedula, row.age, row.matricula = s.Cedula, s.Age, s.Matricula
		row.personalEmail, row.phone, row.career = s.PersonalEmail, s.Phone, s.Career
	}
	if s := user.Staff; s != nil {
		row.cedula, row.age = s.Cedula, s.Age
		row.categories = make([]string, 0, len(s.AssignedCategories))
		for _, c := range s.AssignedCategories {
			row.categories = append(row.categories, string(c))
		}
	}
	return row
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		cols       userColumnsRow
		categories []string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&cols.cedula,
		&cols.age,
		&cols.matricula,
		&cols.personalEmail,
		&cols.phone,
		&cols.career,
		&categories,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if user.Role == domain.RoleStudent {
		user.Student = &domain.StudentProfile{
			Cedula:        cols.cedula,
			Age:           cols.age,
			Matricula:     cols.matricula,
			PersonalEmail: cols.personalEmail,
			Phone:         cols.phone,
			Career:        cols.career,
		}
		return &user, nil
	}

	assigned := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		assigned = append(assigned, domain.Category(c))
	}
	user.Staff = &domain.StaffProfile{Cedula: cols.cedula, Age: cols.age, AssignedCategories: assigned}
	return &user, nil
}
