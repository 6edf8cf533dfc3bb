package remoteapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ErrUnreachable wraps every transport failure: refused connections,
// timeouts, resets. Read paths fall back to snapshots on it; writes fail.
var ErrUnreachable = errors.New("remote API unreachable")

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Message, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

var fallbackMessages = map[string]string{
	opLogin:         "Login failed",
	opSignup:        "Signup failed",
	opProfile:       "Failed to load profile",
	opLogout:        "Logout failed",
	opListEquipment: "Failed to load equipment",
	opCreateEquip:   "Failed to add equipment",
	opUpdateEquip:   "Failed to update equipment",
	opDeleteEquip:   "Failed to delete equipment",
	opListRequests:  "Failed to load requests",
	opUpdateRequest: "Failed to update request",
	opBorrow:        "Failed to submit borrow request",
}

// errorMessage pulls a human readable message out of an error payload,
// trying message, error and detail in that order. detail may be a string
// or a list of {"msg": ...} objects.
func errorMessage(body []byte, operation string) string {
	var payload struct {
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Detail  jsoniter.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := detailMessage(payload.Detail); msg != "" {
			return msg
		}
	}
	if msg, ok := fallbackMessages[operation]; ok {
		return msg
	}
	return "Request failed"
}

func detailMessage(raw jsoniter.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
