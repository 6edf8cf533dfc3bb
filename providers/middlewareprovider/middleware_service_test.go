package middlewareprovider

import (
	"context"
	"errors"
	"lending/models"
	"lending/providers"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAuthenticator struct {
	sessions map[string]sessionservice.Session
	err      error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (sessionservice.Session, error) {
	if s.err != nil {
		return sessionservice.Session{}, s.err
	}
	sess, ok := s.sessions[token]
	if !ok {
		return sessionservice.Session{}, sessionservice.ErrInvalidToken
	}
	return sess, nil
}

func newMiddleware(t *testing.T, auth Authenticator) providers.AuthMiddlewareService {
	ctrl := gomock.NewController(t)
	logger := providers.NewMockZapLoggerProvider(ctrl)
	logger.EXPECT().GetLogger().Return(zap.NewNop()).AnyTimes()
	return NewAuthMiddlewareService(auth, logger)
}

func TestJWTAuthMiddleware(t *testing.T) {
	sess := sessionservice.Session{User: models.User{ID: 1, Username: "ana", Role: models.StudentRole}, Token: "good"}

	tests := []struct {
		name           string
		header         string
		authErr        error
		expectedStatus int
	}{
		{name: "valid token", header: "Bearer good", expectedStatus: http.StatusOK},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", expectedStatus: http.StatusUnauthorized},
		{name: "remote down", header: "Bearer good", authErr: remoteapi.ErrUnreachable, expectedStatus: http.StatusServiceUnavailable},
		{name: "other failure", header: "Bearer good", authErr: errors.New("boom"), expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mw := newMiddleware(t, stubAuthenticator{sessions: map[string]sessionservice.Session{"good": sess}, err: tc.authErr})

			var seen models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = mw.GetUserFromContext(r)
				assert.Equal(t, "good", sessionservice.TokenFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			mw.JWTAuthMiddleware()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, "ana", seen.Username)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := newMiddleware(t, stubAuthenticator{})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	gate := mw.RequireRole(models.AdminRole, models.LabAssistantRole)(ok)

	tests := []struct {
		name           string
		role           models.Role
		authenticated  bool
		expectedStatus int
	}{
		{name: "admin passes", role: models.AdminRole, authenticated: true, expectedStatus: http.StatusNoContent},
		{name: "lab assistant passes", role: models.LabAssistantRole, authenticated: true, expectedStatus: http.StatusNoContent},
		{name: "student blocked", role: models.StudentRole, authenticated: true, expectedStatus: http.StatusForbidden},
		{name: "no session", expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/requests/1/approve", nil)
			if tc.authenticated {
				ctx := sessionservice.NewContext(req.Context(), sessionservice.Session{User: models.User{ID: 1, Role: tc.role}})
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()
			gate.ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
