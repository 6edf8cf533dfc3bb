package inventoryservice

import (
	"lending/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func approved(id, equipmentID int64, start, end string) models.BorrowRequest {
	return models.BorrowRequest{
		ID:          id,
		EquipmentID: equipmentID,
		UserID:      100 + id,
		Quantity:    1,
		StartDate:   day(start),
		EndDate:     day(end),
		Status:      models.StatusApproved,
	}
}

func TestCheckAvailability(t *testing.T) {
	equipment := []models.Equipment{{ID: 1, Name: "Microscope", Quantity: 4, Available: 2}}

	tests := []struct {
		name     string
		requests []models.BorrowRequest
		id       int64
		start    string
		end      string
		expected bool
	}{
		{
			name:     "one overlapping approved request leaves a slot",
			requests: []models.BorrowRequest{approved(10, 1, "2024-01-10", "2024-01-15")},
			id:       1,
			start:    "2024-01-12",
			end:      "2024-01-20",
			expected: true,
		},
		{
			name: "two overlapping approved requests use both slots",
			requests: []models.BorrowRequest{
				approved(10, 1, "2024-01-10", "2024-01-15"),
				approved(11, 1, "2024-01-12", "2024-01-20"),
			},
			id:       1,
			start:    "2024-01-12",
			end:      "2024-01-20",
			expected: false,
		},
		{
			name: "ranges touching on the last day overlap",
			requests: []models.BorrowRequest{
				approved(10, 1, "2024-01-10", "2024-01-15"),
				approved(11, 1, "2024-01-01", "2024-01-12"),
			},
			id:       1,
			start:    "2024-01-15",
			end:      "2024-01-18",
			expected: true,
		},
		{
			name: "non overlapping requests are ignored",
			requests: []models.BorrowRequest{
				approved(10, 1, "2024-01-01", "2024-01-05"),
				approved(11, 1, "2024-02-01", "2024-02-05"),
			},
			id:       1,
			start:    "2024-01-10",
			end:      "2024-01-20",
			expected: true,
		},
		{
			name: "pending and returned requests do not count",
			requests: []models.BorrowRequest{
				{ID: 10, EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-15"), Status: models.StatusPending},
				{ID: 11, EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-15"), Status: models.StatusReturned},
				{ID: 12, EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-15"), Status: models.StatusRejected},
			},
			id:       1,
			start:    "2024-01-10",
			end:      "2024-01-15",
			expected: true,
		},
		{
			name: "requests for other equipment do not count",
			requests: []models.BorrowRequest{
				approved(10, 2, "2024-01-10", "2024-01-15"),
				approved(11, 2, "2024-01-10", "2024-01-15"),
			},
			id:       1,
			start:    "2024-01-10",
			end:      "2024-01-15",
			expected: true,
		},
		{
			name:     "unknown equipment is unavailable",
			id:       9,
			start:    "2024-01-10",
			end:      "2024-01-15",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAvailability(equipment, tt.requests, tt.id, day(tt.start), day(tt.end))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckAvailabilityNoUnitsLeft(t *testing.T) {
	equipment := []models.Equipment{{ID: 1, Quantity: 1, Available: 0}}
	assert.False(t, CheckAvailability(equipment, nil, 1, day("2024-01-10"), day("2024-01-11")))
}
