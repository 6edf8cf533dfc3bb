package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func ParseJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to serialize JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError writes {"error": <cause>, "message": <message>}. A nil err
// reuses the message as the cause.
func RespondError(w http.ResponseWriter, statusCode int, err error, message string) {
	cause := message
	if err != nil {
		cause = err.Error()
	}
	RespondJSON(w, statusCode, errorResponse{Error: cause, Message: message})
}

// GetPageLimitAndOffset reads ?page= and ?limit= (1-based page).
func GetPageLimitAndOffset(r *http.Request) (int, int) {
	limit := defaultPageLimit
	page := 1

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	return limit, (page - 1) * limit
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ParseDate accepts a bare calendar date or a full timestamp.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}
