package remoteapi

import (
	"bytes"
	"fmt"
	"lending/models"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status vocabulary at the API boundary. The server says "accepted" where
// the portal says "approved"; nothing outside this file knows that.
var (
	statusToWire = map[models.Status]string{
		models.StatusPending:  "pending",
		models.StatusApproved: "accepted",
		models.StatusRejected: "rejected",
		models.StatusReturned: "returned",
	}
	statusFromWire = map[string]models.Status{
		"pending":  models.StatusPending,
		"accepted": models.StatusApproved,
		"approved": models.StatusApproved,
		"rejected": models.StatusRejected,
		"returned": models.StatusReturned,
	}
)

func StatusToWire(s models.Status) string {
	if wire, ok := statusToWire[s]; ok {
		return wire
	}
	return string(s)
}

func StatusFromWire(raw string) (models.Status, bool) {
	s, ok := statusFromWire[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// wireLayout is how the server writes naive datetimes.
const wireLayout = "2006-01-02T15:04:05"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	wireLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC 3339, naive datetimes and bare dates. Naive values
// are read as UTC.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", raw)
}

// FormatDate renders a calendar date the way the borrow endpoint expects it.
func FormatDate(t time.Time) string {
	return models.CivilDate(t).Format(wireLayout)
}

type wireTime struct {
	time.Time
}

func (w *wireTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	t, err := ParseTime(raw)
	if err != nil {
		return err
	}
	w.Time = t
	return nil
}

type wireUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (w wireUser) toModel() models.User {
	return models.User{
		ID:       w.ID,
		Username: w.Username,
		Email:    w.Email,
		Role:     models.ParseRole(w.Role),
	}
}

type wireEquipment struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Condition         string `json:"condition"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity *int   `json:"available_quantity"`
	Available         *int   `json:"available"`
	Description       string `json:"description"`
}

// toModel prefers available_quantity, then available. An item reporting
// neither is taken to be fully available.
func (w wireEquipment) toModel() models.Equipment {
	available := w.Quantity
	switch {
	case w.AvailableQuantity != nil:
		available = *w.AvailableQuantity
	case w.Available != nil:
		available = *w.Available
	}
	return models.Equipment{
		ID:          w.ID,
		Name:        w.Name,
		Category:    models.Category(w.Category),
		Condition:   models.Condition(w.Condition),
		Quantity:    w.Quantity,
		Available:   available,
		Description: w.Description,
	}
}

type wireLoanRequest struct {
	ID          int64    `json:"id"`
	EquipmentID int64    `json:"equipment_id"`
	UserID      int64    `json:"user_id"`
	Quantity    *int     `json:"quantity"`
	BorrowDate  wireTime `json:"borrow_date"`
	StartDate   wireTime `json:"start_date"`
	ReturnDate  wireTime `json:"return_date"`
	EndDate     wireTime `json:"end_date"`
	Status      string   `json:"status"`
	CreatedAt   wireTime `json:"created_at"`
	Purpose     string   `json:"purpose"`
}

func (w wireLoanRequest) toModel() (models.BorrowRequest, error) {
	status, ok := StatusFromWire(w.Status)
	if !ok {
		return models.BorrowRequest{}, fmt.Errorf("request %d has unknown status %q", w.ID, w.Status)
	}
	quantity := 1
	if w.Quantity != nil {
		quantity = *w.Quantity
	}
	start := firstSet(w.StartDate, w.BorrowDate)
	return models.BorrowRequest{
		ID:          w.ID,
		EquipmentID: w.EquipmentID,
		UserID:      w.UserID,
		Quantity:    quantity,
		StartDate:   start,
		EndDate:     firstSet(w.EndDate, w.ReturnDate),
		Status:      status,
		CreatedAt:   firstSet(w.CreatedAt, w.BorrowDate),
		Purpose:     w.Purpose,
	}, nil
}

func firstSet(times ...wireTime) time.Time {
	for _, t := range times {
		if !t.IsZero() {
			return t.Time
		}
	}
	return time.Time{}
}

type wireAuthResponse struct {
	wireUser
	AccessToken      string    `json:"access_token"`
	AccessTokenCamel string    `json:"accessToken"`
	Token            string    `json:"token"`
	TokenType        string    `json:"token_type"`
	User             *wireUser `json:"user"`
	Data             *wireUser `json:"data"`
}

func (w wireAuthResponse) token() string {
	for _, t := range []string{w.AccessToken, w.AccessTokenCamel, w.Token} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (w wireAuthResponse) user() *models.User {
	var u *wireUser
	switch {
	case w.User != nil:
		u = w.User
	case w.Data != nil:
		u = w.Data
	case w.wireUser.Username != "":
		u = &w.wireUser
	default:
		return nil
	}
	user := u.toModel()
	return &user
}

// unwrapData strips a {"data": ...} envelope if the body has one.
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if data, ok := envelope["data"]; ok && len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		return data
	}
	return trimmed
}

// AuthResult is what login and signup hand back. User is nil when the
// server answered with a token only.
type AuthResult struct {
	Token     string
	TokenType string
	User      *models.User
}

type SignupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// EquipmentPayload is the body of create and patch calls. Nil fields are
// left out so a patch only touches what was set.
type EquipmentPayload struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	Description *string `json:"description,omitempty"`
}

type BorrowPayload struct {
	UserID     int64  `json:"user_id"`
	BorrowDate string `json:"borrow_date,omitempty"`
	ReturnDate string `json:"return_date"`
	Quantity   int    `json:"quantity"`
	Purpose    string `json:"purpose,omitempty"`
}
