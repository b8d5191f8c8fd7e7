package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/auth"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

const (
	// GeneratedPasswordLength is the length of GeneratePassword output.
	GeneratedPasswordLength = 12
	minNameLength           = 2
)

// UserSchema is the filter accessor table for users.
var UserSchema = query.Schema[domain.User]{
	ID: domain.User.RecordID,
	Field: func(u domain.User, field string) (string, bool) {
		switch field {
		case "id":
			return u.ID, true
		case "name":
			return u.Name, true
		case "email":
			return u.Email, true
		case "role":
			return string(u.Role), true
		case "auth":
			return string(u.Auth), true
		case "createdAt":
			return u.CreatedAt.Format(time.RFC3339), true
		}
		return "", false
	},
	Searchable: []string{"name", "email"},
	DateField:  "createdAt",
}

// assignableRoles are the roles the users page can grant.
var assignableRoles = []domain.Role{domain.RoleUser, domain.RoleAdmin}

// UserService manages admin panel accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tr         *i18n.Translator
	locale     string
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Translator *i18n.Translator
	Locale     string
	BcryptCost int
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		tr:         deps.Translator,
		locale:     locale,
		bcryptCost: deps.BcryptCost,
		logger:     nopIfNil(deps.Logger),
		now:        clock,
	}
}

// UserListInput describes one request of the users table.
type UserListInput struct {
	Text     string
	Previous query.Pager
	Page     int
	PageSize int
	Selected []string
}

// UserListResult is one rendered page of the users table.
type UserListResult struct {
	Page        query.Page[domain.User] `json:"page"`
	PageNumbers []query.PageToken       `json:"pageNumbers"`
	Pager       query.Pager             `json:"pager"`
	Selected    []string                `json:"selected"`
}

// List searches users by name and email and paginates the result.
func (s *UserService) List(ctx context.Context, in UserListInput) (*UserListResult, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	criteria := query.Criteria{Text: in.Text}
	filtered := query.Filter(all, UserSchema, criteria)
	pager := resolvePager(in.Previous, criteria.Key(), in.Page, in.PageSize, len(filtered))

	page := query.Paginate(filtered, pager.State)
	pager.State.CurrentPage = page.CurrentPage
	return &UserListResult{
		Page:        page,
		PageNumbers: query.PageNumbers(page.TotalPages, page.CurrentPage),
		Pager:       pager,
		Selected:    query.PruneSelection(in.Selected, query.IDs(page.Items, UserSchema.ID)),
	}, nil
}

// CreateUserInput is the add-user form.
type CreateUserInput struct {
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

// Create validates and stores a new local user.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict(s.tr.T(s.locale, "users.validation.emailTaken", nil), map[string]any{"field": "email"})
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Auth:         domain.AuthLocal,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, apperrors.NewConflict(err.Error(), map[string]any{"id": user.ID})
		}
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventUserCreated,
		Payload: events.UserCreatedPayload{User: userRef(*user)},
	})
	return user, nil
}

func (s *UserService) validateCreate(in CreateUserInput) error {
	fields := map[string]any{}
	if utf8.RuneCountInString(in.Name) < minNameLength {
		fields["name"] = s.tr.T(s.locale, "users.validation.name", nil)
	}
	if !validEmail(in.Email) {
		fields["email"] = s.tr.T(s.locale, "users.validation.email", nil)
	}
	if !assignable(in.Role) {
		fields["role"] = s.tr.T(s.locale, "users.validation.role", nil)
	}
	if utf8.RuneCountInString(in.Password) < auth.MinPasswordLength {
		fields["password"] = s.tr.T(s.locale, "users.validation.password", nil)
	}
	if len(fields) == 0 {
		return nil
	}
	for _, f := range []string{"name", "email", "role", "password"} {
		if msg, ok := fields[f]; ok {
			return apperrors.NewValidationError(msg.(string), map[string]any{"fields": fields})
		}
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func assignable(role domain.Role) bool {
	for _, r := range assignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// GeneratePassword returns a random password with at least one upper case
// letter, lower case letter, digit and special character.
func (s *UserService) GeneratePassword() (string, error) {
	return auth.GeneratePassword(GeneratedPasswordLength)
}

// ResetPassword replaces the user's password with a generated one. The
// plaintext is returned once and never stored.
func (s *UserService) ResetPassword(ctx context.Context, id string) (*domain.User, string, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	password, err := s.GeneratePassword()
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventPasswordReset,
		Payload: events.PasswordResetPayload{User: userRef(*user)},
	})
	return user, password, nil
}

// BulkChangeRole sets role on every listed user. Unknown ids are skipped.
func (s *UserService) BulkChangeRole(ctx context.Context, ids []string, role domain.Role) ([]domain.User, error) {
	if !assignable(role) {
		return nil, apperrors.NewValidationError(s.tr.T(s.locale, "users.validation.role", nil), map[string]any{"field": "role"})
	}
	now := s.now()
	changed := make([]domain.User, 0, len(ids))
	previous := make([]events.UserRef, 0, len(ids))
	for _, id := range dedupe(ids) {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		before := userRef(*user)
		user.Role = role
		user.UpdatedAt = now
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		changed = append(changed, *user)
		previous = append(previous, before)
	}
	if len(changed) == 0 {
		return changed, nil
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventUserRoleChanged,
		Payload: events.UserRoleChangedPayload{Users: previous, Role: role},
	})
	return changed, nil
}

// BulkDeleteResult reports a bulk delete and the page to show afterwards.
type BulkDeleteResult struct {
	Deleted []domain.User   `json:"deleted"`
	Message string          `json:"message"`
	List    *UserListResult `json:"list"`
}

// BulkDelete removes the listed users and re-renders the page the caller was
// on. When that page no longer exists the last remaining page is returned.
func (s *UserService) BulkDelete(ctx context.Context, ids []string, view UserListInput) (*BulkDeleteResult, error) {
	deleted := make([]domain.User, 0, len(ids))
	for _, id := range dedupe(ids) {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if err := s.users.Delete(ctx, id); err != nil && !isNotFound(err) {
			return nil, err
		}
		deleted = append(deleted, *user)
	}

	if len(deleted) > 0 {
		publishEvent(ctx, s.dispatcher, s.logger, events.Event{
			Type:    events.EventUserDeleted,
			Payload: events.UserDeletedPayload{Users: userRefs(deleted)},
		})
	}

	if view.Page <= 0 {
		view.Page = view.Previous.State.CurrentPage
	}
	view.Selected = nil
	list, err := s.List(ctx, view)
	if err != nil {
		return nil, err
	}
	return &BulkDeleteResult{
		Deleted: deleted,
		Message: s.tr.T(s.locale, "users.deleted", i18n.Params{"count": len(deleted)}),
		List:    list,
	}, nil
}

func (s *UserService) get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundMessage(s.tr.T(s.locale, "users.notFound", i18n.Params{"id": id}), map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

func userRef(u domain.User) events.UserRef {
	return events.UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func userRefs(users []domain.User) []events.UserRef {
	out := make([]events.UserRef, len(users))
	for i, u := range users {
		out[i] = userRef(u)
	}
	return out
}
