package inventoryservice

import (
	"lending/models"
	"time"
)

type CreateRequestInput struct {
	EquipmentID int64     `json:"equipment_id" validate:"required"`
	UserID      int64     `json:"user_id"`
	Quantity    int       `json:"quantity" validate:"min=1"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Purpose     string    `json:"purpose,omitempty" validate:"max=500"`
}

type EquipmentInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Category    string `json:"category" validate:"required,category"`
	Condition   string `json:"condition" validate:"required,condition"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

// EquipmentUpdate only changes the fields that are set.
type EquipmentUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Category    *string `json:"category,omitempty" validate:"omitempty,category"`
	Condition   *string `json:"condition,omitempty" validate:"omitempty,condition"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

func (u EquipmentUpdate) empty() bool {
	return u.Name == nil && u.Category == nil && u.Condition == nil && u.Quantity == nil && u.Description == nil
}

type EquipmentFilter struct {
	Search        string
	Category      models.Category
	AvailableOnly bool
}

type RequestFilter struct {
	Status      models.Status
	UserID      int64
	EquipmentID int64
	Limit       int
	Offset      int
}

type Dashboard struct {
	User               models.User            `json:"user"`
	TotalEquipment     int                    `json:"total_equipment"`
	AvailableEquipment int                    `json:"available_equipment"`
	MyPending          []models.BorrowRequest `json:"my_pending"`
	MyApproved         []models.BorrowRequest `json:"my_approved"`
	PendingApprovals   []models.BorrowRequest `json:"pending_approvals,omitempty"`
	Degraded           bool                   `json:"degraded"`
}

type SyncState struct {
	Loaded         bool      `json:"loaded"`
	Degraded       bool      `json:"degraded"`
	LastSync       time.Time `json:"last_sync"`
	PendingChanges int       `json:"pending_changes"`
	Equipment      int       `json:"equipment"`
	Requests       int       `json:"requests"`
}
