// Package seed loads bootstrap accounts from a YAML file. A fresh directory
// has no administrator able to create one, so the first accounts are
// inserted without a creator.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

// File is the top-level seed document.
type File struct {
	Accounts []Account `yaml:"accounts"`
}

// Account describes one bootstrap user. Password may reference environment
// variables such as ${SUPREMO_PASSWORD}.
type Account struct {
	Name          string   `yaml:"name"`
	LastName      string   `yaml:"last_name"`
	Email         string   `yaml:"email"`
	Password      string   `yaml:"password"`
	Role          string   `yaml:"role"`
	Cedula        string   `yaml:"cedula"`
	Age           int      `yaml:"age"`
	Matricula     string   `yaml:"matricula"`
	PersonalEmail string   `yaml:"personal_email"`
	Phone         string   `yaml:"phone"`
	Career        string   `yaml:"career"`
	Categories    []string `yaml:"categories"`
}

// Directory is the part of the user directory the seeder needs.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, bool, error)
	Bootstrap(ctx context.Context, user *domain.User, password string) error
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and validates every account.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i := range file.Accounts {
		file.Accounts[i].Password = os.ExpandEnv(file.Accounts[i].Password)
		if _, err := file.Accounts[i].User(); err != nil {
			return nil, fmt.Errorf("account %d (%s): %w", i, file.Accounts[i].Email, err)
		}
	}
	return &file, nil
}

// User converts the account into a domain user without a password hash.
func (a Account) User() (*domain.User, error) {
	if strings.TrimSpace(a.Email) == "" || strings.TrimSpace(a.Name) == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if a.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	role, ok := domain.ParseRole(a.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", a.Role)
	}

	user := &domain.User{
		Name:     a.Name,
		LastName: a.LastName,
		Email:    a.Email,
		Role:     role,
	}
	if role == domain.RoleStudent {
		user.Student = &domain.StudentProfile{
			Cedula:        a.Cedula,
			Matricula:     a.Matricula,
			PersonalEmail: a.PersonalEmail,
			Phone:         a.Phone,
			Career:        a.Career,
			Age:           a.Age,
		}
		return user, nil
	}

	categories := domain.CapabilitiesOf(role).DefaultCategories
	if a.Categories != nil {
		categories = make([]domain.Category, 0, len(a.Categories))
		for _, raw := range a.Categories {
			c, ok := domain.ParseCategory(raw)
			if !ok {
				return nil, fmt.Errorf("unknown category %q", raw)
			}
			categories = append(categories, c)
		}
	}
	user.Staff = &domain.StaffProfile{Cedula: a.Cedula, Age: a.Age, AssignedCategories: categories}
	return user, nil
}

// Apply inserts every account whose email is not taken yet. Running it twice
// is harmless.
func Apply(ctx context.Context, dir Directory, file *File, logger *zap.Logger) (Result, error) {
	var result Result
	for _, account := range file.Accounts {
		_, exists, err := dir.FindByEmail(ctx, account.Email)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			logger.Debug("seed account exists", zap.String("email", account.Email))
			continue
		}

		user, err := account.User()
		if err != nil {
			return result, err
		}
		if err := dir.Bootstrap(ctx, user, account.Password); err != nil {
			return result, fmt.Errorf("seed %s: %w", account.Email, err)
		}
		result.Created++
		logger.Info("seeded account", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	}
	return result, nil
}
