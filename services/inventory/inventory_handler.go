package inventoryservice

import (
	"context"
	"errors"
	"lending/models"
	"lending/providers"
	"lending/services/remoteapi"
	"lending/utils"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	Service        InventoryService
	Logger         providers.ZapLoggerProvider
	AuthMiddleware providers.AuthMiddlewareService
}

func NewInventoryHandler(service InventoryService, logger providers.ZapLoggerProvider, auth providers.AuthMiddlewareService) *InventoryHandler {
	return &InventoryHandler{
		Service:        service,
		Logger:         logger,
		AuthMiddleware: auth,
	}
}

type createRequestBody struct {
	EquipmentID int64  `json:"equipment_id"`
	UserID      int64  `json:"user_id"`
	Quantity    int    `json:"quantity"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Purpose     string `json:"purpose"`
}

func (h *InventoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to load dashboard")
		return
	}
	utils.RespondJSON(w, http.StatusOK, d)
}

func (h *InventoryHandler) SyncState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.Service.State())
}

func (h *InventoryHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := EquipmentFilter{
		Search:        q.Get("search"),
		Category:      models.Category(q.Get("category")),
		AvailableOnly: q.Get("available") == "true",
	}
	if filter.Category != "" && !utils.IsCategoryValid(string(filter.Category)) {
		utils.RespondError(w, http.StatusBadRequest, nil, "unknown category")
		return
	}
	equipment, err := h.Service.Equipment(r.Context(), filter)
	if err != nil {
		h.respondError(w, err, "failed to load equipment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": equipment,
		"degraded":  h.Service.State().Degraded,
	})
}

func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid equipment id")
		return
	}
	start, err := utils.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid start date")
		return
	}
	end, err := utils.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid end date")
		return
	}
	if end.Before(start) {
		utils.RespondError(w, http.StatusBadRequest, nil, "end date cannot be before start date")
		return
	}
	ok, err := h.Service.Availability(r.Context(), id, start, end)
	if err != nil {
		h.respondError(w, err, "failed to check availability")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"equipment_id": id,
		"start":        start.Format("2006-01-02"),
		"end":          end.Format("2006-01-02"),
		"available":    ok,
	})
}

func (h *InventoryHandler) AddEquipment(w http.ResponseWriter, r *http.Request) {
	var req EquipmentInput
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	created, err := h.Service.AddEquipment(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "failed to add equipment")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *InventoryHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid equipment id")
		return
	}
	var req EquipmentUpdate
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	updated, err := h.Service.UpdateEquipment(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err, "failed to update equipment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

func (h *InventoryHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid equipment id")
		return
	}
	if err := h.Service.DeleteEquipment(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete equipment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "equipment deleted successfully"})
}

func (h *InventoryHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := RequestFilter{Status: models.Status(q.Get("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, nil, "unknown status")
		return
	}
	if raw := q.Get("equipment_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err, "invalid equipment_id")
			return
		}
		filter.EquipmentID = id
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err, "invalid user_id")
			return
		}
		filter.UserID = id
	}
	filter.Limit, filter.Offset = utils.GetPageLimitAndOffset(r)

	requests, err := h.Service.Requests(r.Context(), filter)
	if err != nil {
		h.respondError(w, err, "failed to load requests")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"degraded": h.Service.State().Degraded,
	})
}

func (h *InventoryHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := utils.ParseJSONBody(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	in := CreateRequestInput{
		EquipmentID: body.EquipmentID,
		UserID:      body.UserID,
		Quantity:    body.Quantity,
		Purpose:     body.Purpose,
	}
	var err error
	if body.StartDate != "" {
		if in.StartDate, err = utils.ParseDate(body.StartDate); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err, "invalid start_date")
			return
		}
	}
	if body.EndDate == "" {
		utils.RespondError(w, http.StatusBadRequest, nil, "end_date is required")
		return
	}
	if in.EndDate, err = utils.ParseDate(body.EndDate); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid end_date")
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), in)
	if err != nil {
		h.respondError(w, err, "failed to submit request")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *InventoryHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Approve, "failed to approve request")
}

func (h *InventoryHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Reject, "failed to reject request")
}

func (h *InventoryHandler) ReturnRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.MarkReturned, "failed to mark request returned")
}

func (h *InventoryHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (models.BorrowRequest, error), fallback string) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request id")
		return
	}
	updated, err := fn(r.Context(), id)
	if err != nil {
		h.respondError(w, err, fallback)
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// respondError maps error kinds to status codes. Remote API rejections
// keep their status, except server faults which become 502.
func (h *InventoryHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var kindErr *Error
	var apiErr *remoteapi.APIError
	switch {
	case errors.As(err, &kindErr):
		utils.RespondError(w, statusFor(kindErr.Kind), kindErr.Kind, kindErr.Msg)
	case errors.Is(err, remoteapi.ErrUnreachable):
		utils.RespondError(w, http.StatusServiceUnavailable, err, "lending service is unreachable, try again later")
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		utils.RespondError(w, status, err, apiErr.Message)
	default:
		h.Logger.GetLogger().Error(fallback, zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, err, fallback)
	}
}

func statusFor(kind error) int {
	switch kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnavailable, ErrInvalidTransition, ErrInFlight:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
