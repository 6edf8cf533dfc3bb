package sessionservice

import (
	"errors"
	"lending/providers"
	"lending/services/remoteapi"
	"lending/utils"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Service        SessionService
	Logger         providers.ZapLoggerProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewSessionHandler(service SessionService, logger providers.ZapLoggerProvider, auth providers.AuthMiddlewareService) *SessionHandler {
	return &SessionHandler{
		Service:        service,
		Logger:         logger,
		AuthMiddleware: auth,
	}
}

type sessionResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	User      interface{} `json:"user"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

func toResponse(s Session) sessionResponse {
	res := sessionResponse{Token: s.Token, TokenType: "bearer", User: s.User}
	if !s.ExpiresAt.IsZero() {
		res.ExpiresAt = &s.ExpiresAt
	}
	return res
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	s, err := h.Service.Login(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err, "login failed")
		return
	}
	h.Logger.GetLogger().Info("user logged in", zap.String("username", s.User.Username), zap.String("role", string(s.User.Role)))
	utils.RespondJSON(w, http.StatusOK, toResponse(s))
}

func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	s, err := h.Service.Signup(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err, "signup failed")
		return
	}
	h.Logger.GetLogger().Info("user signed up", zap.String("username", s.User.Username))
	utils.RespondJSON(w, http.StatusCreated, toResponse(s))
}

// Logout succeeds even without a valid session; there is nothing left to
// clear in that case.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err == nil {
		if err := h.Service.Logout(r.Context(), s); err != nil {
			h.Logger.GetLogger().Warn("remote logout failed", zap.Error(err))
		}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthMiddleware.GetUserFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (h *SessionHandler) respondAuthError(w http.ResponseWriter, err error, fallback string) {
	var validationErrs validator.ValidationErrors
	var apiErr *remoteapi.APIError
	switch {
	case errors.As(err, &validationErrs):
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
	case errors.Is(err, remoteapi.ErrUnreachable):
		utils.RespondError(w, http.StatusServiceUnavailable, err, "lending service is unreachable, try again later")
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		utils.RespondError(w, status, err, apiErr.Message)
	case IsCredentialError(err):
		utils.RespondError(w, http.StatusUnauthorized, err, "invalid or expired token")
	default:
		h.Logger.GetLogger().Error(fallback, zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, err, fallback)
	}
}
