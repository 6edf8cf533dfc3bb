package sessionservice

import (
	"context"
	"errors"
	"fmt"
	"lending/models"
	"lending/providers"
	"lending/services/remoteapi"
	"lending/utils"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=session_service.go -destination=mock_session_service.go -package=sessionservice

// RemoteAPI is the slice of the remote API the session layer talks to.
type RemoteAPI interface {
	Login(ctx context.Context, username, password string) (remoteapi.AuthResult, error)
	Signup(ctx context.Context, payload remoteapi.SignupPayload) (remoteapi.AuthResult, error)
	Profile(ctx context.Context, username string) (models.User, error)
	Logout(ctx context.Context) error
}

type SessionService interface {
	Login(ctx context.Context, req LoginReq) (Session, error)
	Signup(ctx context.Context, req SignupReq) (Session, error)
	Authenticate(ctx context.Context, token string) (Session, error)
	Logout(ctx context.Context, s Session) error
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=student staff teacher lab_assistant admin"`
}

type sessionService struct {
	api     RemoteAPI
	decoder TokenDecoder
	logger  providers.ZapLoggerProvider
	now     func() time.Time

	mu    sync.Mutex
	known map[string]Session
}

func NewSessionService(api RemoteAPI, decoder TokenDecoder, logger providers.ZapLoggerProvider) SessionService {
	return &sessionService{
		api:     api,
		decoder: decoder,
		logger:  logger,
		now:     time.Now,
		known:   make(map[string]Session),
	}
}

func (s *sessionService) Login(ctx context.Context, req LoginReq) (Session, error) {
	if err := utils.NewValidator().Struct(req); err != nil {
		return Session{}, fmt.Errorf("invalid login input: %w", err)
	}
	res, err := s.api.Login(ctx, req.Username, req.Password)
	if err != nil {
		return Session{}, err
	}
	return s.establish(ctx, res, req.Username, false)
}

// Signup logs the new account in straight away when the server does not
// issue a token with the profile.
func (s *sessionService) Signup(ctx context.Context, req SignupReq) (Session, error) {
	if err := utils.NewValidator().Struct(req); err != nil {
		return Session{}, fmt.Errorf("invalid signup input: %w", err)
	}
	role := models.StudentRole
	if req.Role != "" {
		role = models.ParseRole(req.Role)
	}
	res, err := s.api.Signup(ctx, remoteapi.SignupPayload{
		Username: req.Username,
		Email:    req.Email,
		Role:     string(role),
		Password: req.Password,
	})
	if err != nil {
		return Session{}, err
	}
	if res.Token == "" {
		return s.Login(ctx, LoginReq{Username: req.Username, Password: req.Password})
	}
	return s.establish(ctx, res, req.Username, false)
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Session{}, ErrNoSession
	}

	s.mu.Lock()
	cached, ok := s.known[token]
	s.mu.Unlock()
	if ok {
		if cached.Expired(s.now()) {
			s.forget(token)
			return Session{}, ErrExpired
		}
		return cached, nil
	}
	// Tokens not seen at login are confirmed against the profile endpoint
	// once before their claims are trusted.
	return s.establish(ctx, remoteapi.AuthResult{Token: token}, "", true)
}

func (s *sessionService) Logout(ctx context.Context, sess Session) error {
	s.forget(sess.Token)
	if err := s.api.Logout(NewContext(ctx, sess)); err != nil {
		s.logger.GetLogger().Warn("remote logout failed", zap.String("username", sess.User.Username), zap.Error(err))
		return err
	}
	return nil
}

// establish builds a session from a token, filling gaps in the claims from
// the login response and, when id or role is still unknown, the profile.
func (s *sessionService) establish(ctx context.Context, res remoteapi.AuthResult, username string, confirm bool) (Session, error) {
	claims, err := s.decoder.Decode(res.Token)
	if err != nil {
		return Session{}, err
	}

	user := models.User{ID: claims.UserID, Username: claims.Username, Email: claims.Email, Role: claims.Role}
	hasRole := claims.HasRole
	if res.User != nil {
		mergeUser(&user, *res.User)
		hasRole = true
	}
	if user.Username == "" {
		user.Username = username
	}
	if user.Username == "" {
		return Session{}, fmt.Errorf("%w: token carries no username", ErrInvalidToken)
	}

	sess := Session{User: user, Token: res.Token, ExpiresAt: claims.ExpiresAt}
	if confirm || user.ID == 0 || !hasRole {
		profile, err := s.api.Profile(NewContext(ctx, sess), user.Username)
		switch {
		case err == nil:
			mergeUser(&sess.User, profile)
			hasRole = true
		case confirm || sess.User.ID == 0:
			return Session{}, fmt.Errorf("failed to load profile for %s: %w", user.Username, err)
		default:
			s.logger.GetLogger().Warn("profile lookup failed, keeping token claims", zap.String("username", user.Username), zap.Error(err))
		}
	}
	if !hasRole || sess.User.Role == "" {
		sess.User.Role = models.StudentRole
	}

	s.remember(sess)
	return sess, nil
}

const maxKnownSessions = 1024

func (s *sessionService) remember(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.known) >= maxKnownSessions {
		now := s.now()
		for token, known := range s.known {
			if known.Expired(now) || known.ExpiresAt.IsZero() {
				delete(s.known, token)
			}
		}
	}
	s.known[sess.Token] = sess
}

func (s *sessionService) forget(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.known, token)
}

func mergeUser(dst *models.User, src models.User) {
	if src.ID != 0 {
		dst.ID = src.ID
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
}

// IsCredentialError reports whether err means the caller must log in again.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidToken) || remoteapi.IsUnauthorized(err)
}
