package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/auth"
	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// AuthService coordinates login and logout for local accounts.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	tr         *i18n.Translator
	locale     string
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Translator *i18n.Translator
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		tr:         deps.Translator,
		locale:     cfg.I18n.DefaultLocale,
		logger:     nopIfNil(deps.Logger),
	}
}

// Session is an issued access token.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Login authenticates a local account. SSO accounts and accounts without a
// password never match.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*Session, error) {
	invalid := apperrors.NewUnauthorized(s.tr.T(s.locale, "auth.invalidCredentials", nil))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if user.Auth == domain.AuthSSO || user.PasswordHash == "" {
		return nil, invalid
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, invalid
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventUserLoggedIn,
		Actor:   events.Actor{UserID: user.ID, Name: user.Name, Role: user.Role, IPAddress: ip},
		Payload: events.SessionPayload{User: userRef(*user)},
	})
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// Logout records the end of the caller's session. Tokens are stateless and stay
// valid until they expire.
func (s *AuthService) Logout(ctx context.Context) {
	actor := events.ActorFromContext(ctx)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventUserLoggedOut,
		Actor:   actor,
		Payload: events.SessionPayload{User: events.UserRef{ID: actor.UserID, Name: actor.Name, Role: actor.Role}},
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
