package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// DirectoryService owns student and staff accounts.
type DirectoryService struct {
	users       repository.UserRepository
	events      eventPublisher
	bcryptCost  int
	emailDomain string
}

// DirectoryDependencies bundles collaborators for the directory.
type DirectoryDependencies struct {
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	BcryptCost  int
	EmailDomain string
	Now         func() time.Time
}

// NewDirectoryService builds the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	domainSuffix := strings.TrimPrefix(strings.ToLower(deps.EmailDomain), "@")
	if domainSuffix == "" {
		domainSuffix = "itla.edu.do"
	}
	return &DirectoryService{
		users:       deps.UserRepo,
		events:      newEventPublisher(deps.Dispatcher, deps.Logger, deps.Now),
		bcryptCost:  deps.BcryptCost,
		emailDomain: domainSuffix,
	}
}

// RegisterStudentInput describes self-registration.
type RegisterStudentInput struct {
	Name          string
	LastName      string
	Email         string
	Password      string
	Cedula        string
	Matricula     string
	PersonalEmail string
	Phone         string
	Career        string
	Age           int
}

// CreateStaffInput describes an admin-created account. A nil category list
// takes the role's defaults; an empty non-nil list means no affinity.
type CreateStaffInput struct {
	Name               string
	LastName           string
	Email              string
	Password           string
	Role               domain.Role
	Cedula             string
	Age                int
	AssignedCategories []domain.Category
}

// UpdateProfileInput lists self-editable fields. Nil leaves a field unchanged.
type UpdateProfileInput struct {
	Name          *string
	LastName      *string
	Phone         *string
	PersonalEmail *string
	Career        *string
	Password      *string
}

// Register creates a student account.
func (s *DirectoryService) Register(ctx context.Context, input RegisterStudentInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := requireFields(field{"name", input.Name}, field{"email", email}, field{"password", input.Password}); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(email, "@"+s.emailDomain) || strings.HasPrefix(email, "@") {
		return nil, apperrors.NewValidationError("email must belong to the institutional domain", map[string]any{"domain": s.emailDomain})
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": auth.MinPasswordLength})
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		LastName: strings.TrimSpace(input.LastName),
		Email:    email,
		Role:     domain.RoleStudent,
		Student: &domain.StudentProfile{
			Cedula:        strings.TrimSpace(input.Cedula),
			Matricula:     strings.TrimSpace(input.Matricula),
			PersonalEmail: strings.TrimSpace(input.PersonalEmail),
			Phone:         strings.TrimSpace(input.Phone),
			Career:        strings.TrimSpace(input.Career),
			Age:           input.Age,
		},
	}
	if err := s.create(ctx, user, input.Password, nil); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStaff creates a staff account on behalf of creator.
func (s *DirectoryService) CreateStaff(ctx context.Context, input CreateStaffInput, creator *domain.User) (*domain.User, error) {
	if creator == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !input.Role.Valid() || !input.Role.IsStaff() {
		return nil, apperrors.NewValidationError("invalid staff role", map[string]any{"role": input.Role})
	}
	if !creator.Capabilities().CanManageUsers {
		return nil, apperrors.NewForbidden("your role cannot manage users")
	}
	if !domain.CanCreateRole(creator.Role, input.Role) {
		return nil, apperrors.NewForbidden("your role cannot create " + input.Role.Label() + " accounts")
	}

	email := domain.NormalizeEmail(input.Email)
	if err := requireFields(field{"name", input.Name}, field{"email", email}, field{"password", input.Password}); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("invalid email", nil)
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": auth.MinPasswordLength})
	}

	categories := input.AssignedCategories
	if categories == nil {
		categories = domain.CapabilitiesOf(input.Role).DefaultCategories
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		LastName: strings.TrimSpace(input.LastName),
		Email:    email,
		Role:     input.Role,
		Staff: &domain.StaffProfile{
			Cedula:             strings.TrimSpace(input.Cedula),
			Age:                input.Age,
			AssignedCategories: domain.NormalizeCategories(categories),
		},
	}
	if err := s.create(ctx, user, input.Password, creator); err != nil {
		return nil, err
	}
	return user, nil
}

// Bootstrap stores a fully formed account without a creator. It exists for
// seeding the first administrators.
func (s *DirectoryService) Bootstrap(ctx context.Context, user *domain.User, password string) error {
	if !user.Role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": user.Role})
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if user.IsStudent() {
		user.Staff = nil
		if user.Student == nil {
			user.Student = &domain.StudentProfile{}
		}
	} else {
		user.Student = nil
		if user.Staff == nil {
			user.Staff = &domain.StaffProfile{AssignedCategories: domain.CapabilitiesOf(user.Role).DefaultCategories}
		}
		user.Staff.AssignedCategories = domain.NormalizeCategories(user.Staff.AssignedCategories)
	}
	return s.create(ctx, user, password, nil)
}

func (s *DirectoryService) create(ctx context.Context, user *domain.User, password string, actor *domain.User) error {
	if _, found, err := s.FindByEmail(ctx, user.Email); err != nil {
		return err
	} else if found {
		return apperrors.NewValidationError("email already registered", map[string]any{"email": user.Email})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.events.publish(ctx, events.EventUserCreated, user.ID, actor, events.UserChangedPayload{Email: user.Email, Role: user.Role})
	return nil
}

// UpdateAssignedCategories replaces a staff member's category set.
func (s *DirectoryService) UpdateAssignedCategories(ctx context.Context, userID string, categories []domain.Category, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Capabilities().CanAssignCategories {
		return nil, apperrors.NewForbidden("your role cannot assign categories")
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Staff == nil {
		return nil, apperrors.NewValidationError("categories can only be assigned to staff", map[string]any{"user_id": userID})
	}
	user.Staff.AssignedCategories = domain.NormalizeCategories(categories)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.EventUserUpdated, user.ID, actor, events.UserChangedPayload{Email: user.Email, Role: user.Role})
	return user, nil
}

// UpdateProfile edits the caller's own profile. Administrators who manage
// users may edit anyone's.
func (s *DirectoryService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.ID != userID && !actor.Capabilities().CanManageUsers {
		return nil, apperrors.NewForbidden("you can only edit your own profile")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor.ID != userID && !domain.CanDeleteRole(actor.Role, user.Role) {
		return nil, apperrors.NewForbidden("your role cannot edit " + user.Role.Label() + " accounts")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if user.Student != nil {
		if input.Phone != nil {
			user.Student.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.PersonalEmail != nil {
			user.Student.PersonalEmail = strings.TrimSpace(*input.PersonalEmail)
		}
		if input.Career != nil {
			user.Student.Career = strings.TrimSpace(*input.Career)
		}
	}
	if input.Password != nil {
		if len(*input.Password) < auth.MinPasswordLength {
			return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": auth.MinPasswordLength})
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.EventUserUpdated, user.ID, actor, events.UserChangedPayload{Email: user.Email, Role: user.Role})
	return user, nil
}

// Delete removes an account. Nobody may delete themselves, and the target's
// role must be within the actor's manageable tier.
func (s *DirectoryService) Delete(ctx context.Context, userID string, actor *domain.User) (bool, error) {
	if actor == nil {
		return false, apperrors.NewUnauthorized("authentication required")
	}
	if actor.ID == userID {
		return false, apperrors.NewForbidden("you cannot delete your own account")
	}
	if !actor.Capabilities().CanManageUsers {
		return false, apperrors.NewForbidden("your role cannot manage users")
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !domain.CanDeleteRole(actor.Role, target.Role) {
		return false, apperrors.NewForbidden("your role cannot delete " + target.Role.Label() + " accounts")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return false, err
	}
	s.events.publish(ctx, events.EventUserDeleted, userID, actor, events.UserChangedPayload{Email: target.Email, Role: target.Role})
	return true, nil
}

// FindByEmail looks up an account. A missing account is (nil, false, nil).
func (s *DirectoryService) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	return found(s.users.GetByEmail(ctx, email))
}

// FindByID looks up an account. A missing account is (nil, false, nil).
func (s *DirectoryService) FindByID(ctx context.Context, id string) (*domain.User, bool, error) {
	return found(s.users.GetByID(ctx, id))
}

// List returns accounts for administrators.
func (s *DirectoryService) List(ctx context.Context, filter repository.UserFilter, actor *domain.User) ([]domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	caps := actor.Capabilities()
	if !caps.CanManageUsers && !caps.CanAssignCategories {
		return nil, apperrors.NewForbidden("your role cannot list users")
	}
	return s.users.List(ctx, filter)
}

func found(user *domain.User, err error) (*domain.User, bool, error) {
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
}

func validateCategories(categories []domain.Category) error {
	for _, c := range categories {
		if !c.Valid() {
			return apperrors.NewValidationError("invalid category", map[string]any{"category": c})
		}
	}
	return nil
}
