package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

type userRepository interface {
	IndexExists(ctx context.Context) (bool, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	SaveRecord(ctx context.Context, user *models.User) error
	SaveIndex(ctx context.Context, index []models.UserIndexEntry) error
	Delete(ctx context.Context, id string) error
}

type userDataPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

// SeedAccount describes a bootstrap account.
type SeedAccount struct {
	Name     string
	Username string
	Role     models.Role
}

// DefaultSeedAccounts creates one account per role.
var DefaultSeedAccounts = []SeedAccount{
	{Name: "IT Support", Username: "it", Role: models.RoleIT},
	{Name: "Admin User", Username: "admin", Role: models.RoleAdmin},
	{Name: "Swim Instructor", Username: "instructor", Role: models.RoleInstructor},
	{Name: "Customer Service", Username: "cs", Role: models.RoleCS},
}

// UserService is the user directory.
type UserService struct {
	repo        userRepository
	credentials *CredentialService
	purger      userDataPurger
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, credentials *CredentialService, purger userDataPurger, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if credentials == nil {
		credentials = NewCredentialService(MaxPasswordIterations)
	}
	return &UserService{
		repo:        repo,
		credentials: credentials,
		purger:      purger,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AuthorizeRoleChange decides whether a caller may move an account from current to requested roles.
// Only it holders may add or remove the it role.
func AuthorizeRoleChange(caller, current, requested models.RoleSet) error {
	if caller.Has(models.RoleIT) {
		return nil
	}
	if !caller.Has(models.RoleAdmin) {
		return appErrors.Clone(appErrors.ErrForbidden, "admin or IT role required")
	}
	if requested.Has(models.RoleIT) != current.Has(models.RoleIT) {
		return appErrors.Clone(appErrors.ErrForbidden, "Only IT can assign IT role.")
	}
	return nil
}

// AuthorizeTarget rejects plain admins acting on it accounts.
func AuthorizeTarget(caller models.RoleSet, target *models.User) error {
	if target.Roles.Has(models.RoleIT) && !caller.Has(models.RoleIT) {
		return appErrors.Clone(appErrors.ErrForbidden, "IT accounts can only be managed by IT.")
	}
	return nil
}

// FindByID returns a user by id.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return user, nil
}

// FindByUsername looks a user up case-insensitively.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return user, nil
}

// List returns all users sorted by username.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Create adds an account. New accounts must reset their password on first login.
func (s *UserService) Create(ctx context.Context, caller *models.User, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}
	name := strings.TrimSpace(req.Name)
	username := models.NormalizeUsername(req.Username)
	if name == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Missing required fields")
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	if roles.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one role is required")
	}
	if err := AuthorizeRoleChange(caller.Roles, 0, roles); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	record, err := s.credentials.Derive(req.Password, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to derive credentials")
	}
	now := s.now()
	user := &models.User{
		ID:                uuid.NewString(),
		Name:              name,
		Username:          username,
		Password:          record,
		Roles:             roles,
		MustResetPassword: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, appErrors.Internal(err, "failed to save user")
	}
	return user, nil
}

// Update edits an account under the same role-grant rules as Create.
func (s *UserService) Update(ctx context.Context, caller *models.User, id string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username required")
	}
	target, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeTarget(caller.Roles, target); err != nil {
		return nil, err
	}

	username := models.NormalizeUsername(req.Username)
	if username == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Username required")
	}
	roles := target.Roles
	if len(req.Roles) > 0 {
		if roles, err = parseRoles(req.Roles); err != nil {
			return nil, err
		}
	}
	if err := AuthorizeRoleChange(caller.Roles, target.Roles, roles); err != nil {
		return nil, err
	}
	if username != target.Username {
		if err := s.ensureUsernameFree(ctx, username, target.ID); err != nil {
			return nil, err
		}
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		target.Name = name
	}
	target.Username = username
	target.Roles = roles
	if strings.TrimSpace(req.Password) != "" {
		record, err := s.credentials.Derive(req.Password, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to derive credentials")
		}
		target.Password = record
		if req.ForceReset {
			target.MustResetPassword = true
		}
	}
	target.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, target); err != nil {
		return nil, appErrors.Internal(err, "failed to save user")
	}
	return target, nil
}

// ResetCredential sets a policy-compliant password chosen by the user and clears the reset flag.
func (s *UserService) ResetCredential(ctx context.Context, id, password string) error {
	if err := ValidatePasswordPolicy(password); err != nil {
		return err
	}
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	record, err := s.credentials.Derive(password, nil)
	if err != nil {
		return appErrors.Internal(err, "failed to derive credentials")
	}
	user.Password = record
	user.MustResetPassword = false
	user.UpdatedAt = s.now()
	if err := s.repo.SaveRecord(ctx, user); err != nil {
		return appErrors.Internal(err, "failed to save user")
	}
	return nil
}

// Delete removes an account together with its progress.
func (s *UserService) Delete(ctx context.Context, caller *models.User, id string) error {
	if caller.ID == id {
		return appErrors.Clone(appErrors.ErrForbidden, "you cannot delete your own account")
	}
	target, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeTarget(caller.Roles, target); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete user")
	}
	if s.purger != nil {
		if err := s.purger.PurgeUser(ctx, id); err != nil {
			s.logger.Warn("failed to purge user progress", zap.String("user_id", id), zap.Error(err))
		}
	}
	return nil
}

// ResetProgress clears a user's progress and in-flight quiz attempts.
func (s *UserService) ResetProgress(ctx context.Context, caller *models.User, id string) error {
	target, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeTarget(caller.Roles, target); err != nil {
		return err
	}
	if s.purger == nil {
		return nil
	}
	return s.purger.PurgeUser(ctx, target.ID)
}

// SeedIfEmpty writes the bootstrap accounts unless users:index already exists.
func (s *UserService) SeedIfEmpty(ctx context.Context, password string, accounts []SeedAccount) (bool, error) {
	exists, err := s.repo.IndexExists(ctx)
	if err != nil {
		return false, appErrors.Internal(err, "failed to read user index")
	}
	if exists {
		return false, nil
	}

	now := s.now()
	index := make([]models.UserIndexEntry, 0, len(accounts))
	for _, account := range accounts {
		record, err := s.credentials.Derive(password, nil)
		if err != nil {
			return false, appErrors.Internal(err, "failed to derive credentials")
		}
		user := &models.User{
			ID:                uuid.NewString(),
			Name:              account.Name,
			Username:          models.NormalizeUsername(account.Username),
			Password:          record,
			Roles:             models.NewRoleSet(account.Role),
			MustResetPassword: true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.SaveRecord(ctx, user); err != nil {
			return false, appErrors.Internal(err, "failed to seed user")
		}
		index = append(index, models.UserIndexEntry{ID: user.ID, Username: user.Username})
		s.logger.Info("seeded account", zap.String("username", user.Username), zap.String("role", string(account.Role)))
	}
	if err := s.repo.SaveIndex(ctx, index); err != nil {
		return false, appErrors.Internal(err, "failed to write user index")
	}
	return true, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, ownerID string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return appErrors.Internal(err, "failed to check username")
	}
	if existing.ID != ownerID {
		return appErrors.Clone(appErrors.ErrConflict, "Username taken")
	}
	return nil
}

func parseRoles(names []string) (models.RoleSet, error) {
	roles, err := models.ParseRoleSet(names)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return roles, nil
}
