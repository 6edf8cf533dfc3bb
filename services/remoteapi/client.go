package remoteapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"lending/models"
	"lending/providers"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opLogin         = "login"
	opSignup        = "signup"
	opProfile       = "profile"
	opLogout        = "logout"
	opListEquipment = "list_equipment"
	opCreateEquip   = "create_equipment"
	opUpdateEquip   = "update_equipment"
	opDeleteEquip   = "delete_equipment"
	opListRequests  = "list_requests"
	opUpdateRequest = "update_request"
	opBorrow        = "borrow"
)

const maxBodyBytes = 4 << 20

type bearerKey struct{}

// WithBearer attaches the token sent as Authorization on calls made with ctx.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    providers.MetricsProvider
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m providers.MetricsProvider) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var resp wireAuthResponse
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, opLogin, http.MethodPost, "/login", body, &resp); err != nil {
		return AuthResult{}, err
	}
	token := resp.token()
	if token == "" {
		return AuthResult{}, &APIError{Operation: opLogin, StatusCode: http.StatusOK, Message: "No access token in login response"}
	}
	return AuthResult{Token: token, TokenType: resp.TokenType, User: resp.user()}, nil
}

// Signup creates the account. The token, when the server issues one, may
// come in the body or in the Authorization header.
func (c *Client) Signup(ctx context.Context, payload SignupPayload) (AuthResult, error) {
	var resp wireAuthResponse
	header, err := c.do(ctx, opSignup, http.MethodPost, "/signup", payload, &resp)
	if err != nil {
		return AuthResult{}, err
	}
	token := resp.token()
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(header.Get("Authorization"), "Bearer "))
	}
	return AuthResult{Token: token, TokenType: resp.TokenType, User: resp.user()}, nil
}

func (c *Client) Profile(ctx context.Context, username string) (models.User, error) {
	var u wireUser
	if _, err := c.do(ctx, opProfile, http.MethodGet, "/profile/"+username, nil, &u); err != nil {
		return models.User{}, err
	}
	return u.toModel(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, opLogout, http.MethodPost, "/logout", nil, nil)
	return err
}

func (c *Client) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var items []wireEquipment
	if _, err := c.do(ctx, opListEquipment, http.MethodGet, "/equipment", nil, &items); err != nil {
		return nil, err
	}
	equipment := make([]models.Equipment, 0, len(items))
	for _, item := range items {
		equipment = append(equipment, item.toModel())
	}
	return equipment, nil
}

func (c *Client) CreateEquipment(ctx context.Context, payload EquipmentPayload) (models.Equipment, error) {
	var item wireEquipment
	if _, err := c.do(ctx, opCreateEquip, http.MethodPost, "/equipment", payload, &item); err != nil {
		return models.Equipment{}, err
	}
	return item.toModel(), nil
}

func (c *Client) UpdateEquipment(ctx context.Context, id int64, payload EquipmentPayload) (models.Equipment, error) {
	var item wireEquipment
	if _, err := c.do(ctx, opUpdateEquip, http.MethodPatch, fmt.Sprintf("/equipment/%d", id), payload, &item); err != nil {
		return models.Equipment{}, err
	}
	return item.toModel(), nil
}

func (c *Client) DeleteEquipment(ctx context.Context, id int64) error {
	_, err := c.do(ctx, opDeleteEquip, http.MethodDelete, fmt.Sprintf("/equipment/%d", id), nil, nil)
	return err
}

// ListLoanRequests skips entries whose status is outside the known
// vocabulary rather than failing the whole listing.
func (c *Client) ListLoanRequests(ctx context.Context) ([]models.BorrowRequest, error) {
	var items []wireLoanRequest
	if _, err := c.do(ctx, opListRequests, http.MethodGet, "/loan_requests", nil, &items); err != nil {
		return nil, err
	}
	requests := make([]models.BorrowRequest, 0, len(items))
	for _, item := range items {
		req, err := item.toModel()
		if err != nil {
			c.logger.Warn("skipping loan request", zap.Error(err))
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (c *Client) UpdateLoanRequestStatus(ctx context.Context, id int64, status models.Status) (models.BorrowRequest, error) {
	var item wireLoanRequest
	body := map[string]string{"status": StatusToWire(status)}
	if _, err := c.do(ctx, opUpdateRequest, http.MethodPatch, fmt.Sprintf("/loan_requests/%d", id), body, &item); err != nil {
		return models.BorrowRequest{}, err
	}
	if item.ID == 0 {
		return models.BorrowRequest{ID: id, Status: status}, nil
	}
	return item.toModel()
}

func (c *Client) Borrow(ctx context.Context, equipmentID int64, payload BorrowPayload) (models.BorrowRequest, error) {
	var item wireLoanRequest
	if _, err := c.do(ctx, opBorrow, http.MethodPost, fmt.Sprintf("/borrow/%d", equipmentID), payload, &item); err != nil {
		return models.BorrowRequest{}, err
	}
	if item.ID == 0 {
		return models.BorrowRequest{EquipmentID: equipmentID, UserID: payload.UserID, Quantity: payload.Quantity, Status: models.StatusPending}, nil
	}
	return item.toModel()
}

func (c *Client) do(ctx context.Context, operation, method, path string, in, out interface{}) (http.Header, error) {
	header, err := c.roundTrip(ctx, operation, method, path, in, out)
	if c.metrics != nil {
		c.metrics.ObserveAPICall(operation, err)
	}
	return header, err
}

func (c *Client) roundTrip(ctx context.Context, operation, method, path string, in, out interface{}) (http.Header, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := bearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		c.logger.Warn("remote api unreachable",
			zap.String("operation", operation),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading response: %v", ErrUnreachable, operation, err)
	}

	c.logger.Debug("remote api call",
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("took", time.Since(started)))

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.Header, &APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, operation),
		}
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		raw := body
		if _, auth := out.(*wireAuthResponse); !auth {
			raw = unwrapData(body)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.Header, fmt.Errorf("failed to decode %s response: %w", operation, err)
		}
	}
	return resp.Header, nil
}
