package middlewareprovider

import (
	"context"
	"errors"
	"lending/models"
	"lending/providers"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"lending/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (sessionservice.Session, error)
}

type DefaultAuthMiddleware struct {
	auth   Authenticator
	logger providers.ZapLoggerProvider
}

func NewAuthMiddlewareService(auth Authenticator, logger providers.ZapLoggerProvider) providers.AuthMiddlewareService {
	return &DefaultAuthMiddleware{
		auth:   auth,
		logger: logger,
	}
}

func (a *DefaultAuthMiddleware) JWTAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if accessToken == "" {
				utils.RespondError(w, http.StatusUnauthorized, errors.New("missing access token"), "missing access token")
				return
			}

			sess, err := a.auth.Authenticate(r.Context(), accessToken)
			switch {
			case err == nil:
			case errors.Is(err, remoteapi.ErrUnreachable):
				utils.RespondError(w, http.StatusServiceUnavailable, err, "cannot verify session, lending service is unreachable")
				return
			case sessionservice.IsCredentialError(err):
				utils.RespondError(w, http.StatusUnauthorized, err, "invalid or expired token")
				return
			default:
				a.logger.GetLogger().Error("failed to authenticate request", zap.Error(err))
				utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(sessionservice.NewContext(r.Context(), sess)))
		})
	}
}

func (a *DefaultAuthMiddleware) RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.GetUserFromContext(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
				return
			}
			if !user.Role.IsOneOf(allowedRoles...) {
				utils.RespondError(w, http.StatusForbidden, errors.New("forbidden"), "your role cannot perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *DefaultAuthMiddleware) GetUserFromContext(r *http.Request) (models.User, error) {
	user, ok := sessionservice.UserFromContext(r.Context())
	if !ok {
		return models.User{}, errors.New("user not found in context")
	}
	return user, nil
}
