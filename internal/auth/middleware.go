package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID    string
	Name      string
	Role      domain.Role
	Anonymous bool
}

// AnonymousAdmin is injected when authentication is not required.
var AnonymousAdmin = Principal{UserID: "anonymous", Name: "anonymous", Role: domain.RoleAdmin, Anonymous: true}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	required bool
}

// NewAuthMiddleware constructs middleware. When required is false, requests
// without an Authorization header run as AnonymousAdmin. users may be nil, in
// which case the role in the token is trusted as is.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, required bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, required: required}
}

// Handle attaches the caller to the request.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if m.required {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		anon := AnonymousAdmin
		return m.attach(c, &anon)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{UserID: claims.SubjectID, Name: claims.Name, Role: claims.Role}
	if m.users != nil {
		user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperrors.NewUnauthorized("user not found")
		case err != nil:
			return err
		}
		principal.Name = user.Name
		principal.Role = user.Role
	}
	return m.attach(c, principal)
}

func (m *AuthMiddleware) attach(c *fiber.Ctx, p *Principal) error {
	c.Locals(principalKey, p)
	c.SetUserContext(events.WithActor(c.UserContext(), events.Actor{
		UserID:    p.UserID,
		Name:      p.Name,
		Role:      p.Role,
		IPAddress: c.IP(),
	}))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
