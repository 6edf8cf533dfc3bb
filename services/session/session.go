package sessionservice

import (
	"context"
	"errors"
	"lending/models"
	"lending/services/remoteapi"
	"time"
)

var (
	ErrNoSession    = errors.New("not logged in")
	ErrExpired      = errors.New("session expired")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at,omitempty"`
}

// Expired is false for sessions without an expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionKey struct{}

// NewContext carries s to every downstream component and makes remote API
// calls made with the returned context use its token.
func NewContext(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return remoteapi.WithBearer(ctx, s.Token)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	s, ok := FromContext(ctx)
	return s.User, ok
}

func TokenFromContext(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.Token
}
