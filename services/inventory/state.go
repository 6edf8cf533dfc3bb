package inventoryservice

import (
	"lending/models"
	"time"
)

type changeKind int

const (
	changeStatus changeKind = iota
	changeCreated
	changeEquipment
	changeEquipmentRemoved
)

// change is a confirmed remote mutation whose effect is shown locally until
// a fetch that started after it lands.
type change struct {
	at        uint64
	kind      changeKind
	requestID int64
	status    models.Status
	request   models.BorrowRequest
	equipment models.Equipment
}

type state struct {
	equipment  []models.Equipment
	requests   []models.BorrowRequest
	overlay    []change
	loaded     bool
	degraded   bool
	appliedSeq uint64
	syncedAt   time.Time
	attempted  time.Time
}

// view is the server snapshot with the overlay replayed on top. The
// returned slices are copies.
func (st *state) view() ([]models.Equipment, []models.BorrowRequest) {
	equipment := append([]models.Equipment(nil), st.equipment...)
	requests := append([]models.BorrowRequest(nil), st.requests...)

	for _, c := range st.overlay {
		switch c.kind {
		case changeStatus:
			i := indexRequest(requests, c.requestID)
			if i < 0 || !requests[i].Status.CanTransitionTo(c.status) {
				continue
			}
			if j := indexEquipment(equipment, requests[i].EquipmentID); j >= 0 {
				applyTransition(&equipment[j], requests[i].Quantity, c.status)
			}
			requests[i].Status = c.status
		case changeCreated:
			if c.request.ID != 0 && indexRequest(requests, c.request.ID) >= 0 {
				continue
			}
			requests = append(requests, c.request)
		case changeEquipment:
			if j := indexEquipment(equipment, c.equipment.ID); j >= 0 {
				equipment[j] = c.equipment
			} else {
				equipment = append(equipment, c.equipment)
			}
		case changeEquipmentRemoved:
			if j := indexEquipment(equipment, c.equipment.ID); j >= 0 {
				equipment = append(equipment[:j], equipment[j+1:]...)
			}
		}
	}
	return equipment, requests
}

// prune drops overlay entries already reflected by a fetch that started
// at seq.
func (st *state) prune(seq uint64) {
	kept := st.overlay[:0]
	for _, c := range st.overlay {
		if c.at > seq {
			kept = append(kept, c)
		}
	}
	st.overlay = kept
}

// applyTransition adjusts available units for a request of quantity q
// moving to status to. Approval floors at zero, return caps at quantity.
func applyTransition(e *models.Equipment, q int, to models.Status) {
	switch to {
	case models.StatusApproved:
		e.Available -= q
		if e.Available < 0 {
			e.Available = 0
		}
	case models.StatusReturned:
		e.Available += q
		if e.Available > e.Quantity {
			e.Available = e.Quantity
		}
	}
}

func indexEquipment(items []models.Equipment, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func indexRequest(items []models.BorrowRequest, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
