package inventoryservice

import (
	"lending/models"
	"time"
)

// CheckAvailability reports whether equipmentID can take one more borrow
// over [start, end]: its available count must exceed the number of approved
// requests overlapping the range. Unknown equipment is never available.
// The check reserves nothing.
func CheckAvailability(equipment []models.Equipment, requests []models.BorrowRequest, equipmentID int64, start, end time.Time) bool {
	i := indexEquipment(equipment, equipmentID)
	if i < 0 {
		return false
	}
	overlapping := 0
	for _, r := range requests {
		if r.EquipmentID == equipmentID && r.Status == models.StatusApproved && r.Overlaps(start, end) {
			overlapping++
		}
	}
	return equipment[i].Available > overlapping
}
