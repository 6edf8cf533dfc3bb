package inventoryservice

import (
	"context"
	"fmt"
	"lending/models"
	"lending/providers"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"lending/services/snapshot"
	"lending/utils"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=inventory_service.go -destination=mock_inventory_service.go -package=inventoryservice

type RemoteAPI interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	CreateEquipment(ctx context.Context, payload remoteapi.EquipmentPayload) (models.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, payload remoteapi.EquipmentPayload) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
	ListLoanRequests(ctx context.Context) ([]models.BorrowRequest, error)
	UpdateLoanRequestStatus(ctx context.Context, id int64, status models.Status) (models.BorrowRequest, error)
	Borrow(ctx context.Context, equipmentID int64, payload remoteapi.BorrowPayload) (models.BorrowRequest, error)
}

type InventoryService interface {
	Refresh(ctx context.Context) error
	Equipment(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error)
	Requests(ctx context.Context, filter RequestFilter) ([]models.BorrowRequest, error)
	CheckAvailability(equipmentID int64, start, end time.Time) bool
	Availability(ctx context.Context, equipmentID int64, start, end time.Time) (bool, error)
	CreateRequest(ctx context.Context, in CreateRequestInput) (models.BorrowRequest, error)
	Approve(ctx context.Context, requestID int64) (models.BorrowRequest, error)
	Reject(ctx context.Context, requestID int64) (models.BorrowRequest, error)
	MarkReturned(ctx context.Context, requestID int64) (models.BorrowRequest, error)
	AddEquipment(ctx context.Context, in EquipmentInput) (models.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, in EquipmentUpdate) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (Dashboard, error)
	State() SyncState
}

type inventoryService struct {
	api        RemoteAPI
	store      snapshot.Repository
	logger     providers.ZapLoggerProvider
	metrics    providers.MetricsProvider
	validate   *validator.Validate
	staleAfter time.Duration
	now        func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	seq      uint64
	st       state
	inFlight map[string]struct{}

	saveMu   sync.Mutex
	savedSeq uint64
}

func NewInventoryService(api RemoteAPI, store snapshot.Repository, logger providers.ZapLoggerProvider, metrics providers.MetricsProvider, staleAfter time.Duration) InventoryService {
	return &inventoryService{
		api:        api,
		store:      store,
		logger:     logger,
		metrics:    metrics,
		validate:   utils.NewValidator(),
		staleAfter: staleAfter,
		now:        time.Now,
		inFlight:   make(map[string]struct{}),
	}
}

// Refresh fetches both collections now, bypassing the staleness window.
func (s *inventoryService) Refresh(ctx context.Context) error {
	return s.fetch(ctx)
}

func (s *inventoryService) Equipment(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	equipment, _ := s.view()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Equipment, 0, len(equipment))
	for _, e := range equipment {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && e.Available <= 0 {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Requests lists requests newest first. Borrowers only ever see their own.
func (s *inventoryService) Requests(ctx context.Context, filter RequestFilter) ([]models.BorrowRequest, error) {
	actor, ok := sessionservice.UserFromContext(ctx)
	if !ok {
		return nil, newError(ErrUnauthenticated, "log in to view requests")
	}
	if !actor.Role.CanManageRequests() {
		filter.UserID = actor.ID
	}
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	_, requests := s.view()

	out := make([]models.BorrowRequest, 0, len(requests))
	for _, r := range requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.UserID != 0 && r.UserID != filter.UserID {
			continue
		}
		if filter.EquipmentID != 0 && r.EquipmentID != filter.EquipmentID {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []models.BorrowRequest{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CheckAvailability runs the overlap check against the state in memory
// without fetching.
func (s *inventoryService) CheckAvailability(equipmentID int64, start, end time.Time) bool {
	equipment, requests := s.view()
	return CheckAvailability(equipment, requests, equipmentID, start, end)
}

func (s *inventoryService) Availability(ctx context.Context, equipmentID int64, start, end time.Time) (bool, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return false, err
	}
	return s.CheckAvailability(equipmentID, start, end), nil
}

func (s *inventoryService) CreateRequest(ctx context.Context, in CreateRequestInput) (models.BorrowRequest, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return models.BorrowRequest{}, err
	}
	if !actor.Role.CanBorrow() {
		return models.BorrowRequest{}, newError(ErrForbidden, "%s accounts cannot request equipment", actor.Role)
	}
	if in.UserID == 0 {
		in.UserID = actor.ID
	}
	if in.UserID != actor.ID {
		return models.BorrowRequest{}, newError(ErrForbidden, "cannot request equipment on behalf of another user")
	}
	if err := s.validate.Struct(in); err != nil {
		return models.BorrowRequest{}, validationError(err)
	}

	today := models.CivilDate(s.now())
	start := models.CivilDate(in.StartDate)
	if in.StartDate.IsZero() {
		start = today
	}
	end := models.CivilDate(in.EndDate)
	if end.Before(start) {
		return models.BorrowRequest{}, newError(ErrValidation, "return date cannot be before the borrow date")
	}
	if end.Before(today) {
		return models.BorrowRequest{}, newError(ErrValidation, "return date cannot be in the past")
	}

	key := fmt.Sprintf("borrow:%d:%d", in.UserID, in.EquipmentID)
	if err := s.begin(key); err != nil {
		return models.BorrowRequest{}, err
	}
	defer s.end(key)

	if err := s.ensureFresh(ctx); err != nil {
		return models.BorrowRequest{}, err
	}
	equipment, requests := s.view()
	i := indexEquipment(equipment, in.EquipmentID)
	if i < 0 {
		return models.BorrowRequest{}, newError(ErrNotFound, "equipment %d not found", in.EquipmentID)
	}
	item := equipment[i]
	if in.Quantity > item.Available {
		return models.BorrowRequest{}, newError(ErrUnavailable, "only %d of %s available, requested %d", item.Available, item.Name, in.Quantity)
	}
	if !CheckAvailability(equipment, requests, item.ID, start, end) {
		return models.BorrowRequest{}, newError(ErrUnavailable, "%s is fully booked between %s and %s",
			item.Name, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	created, err := s.api.Borrow(ctx, item.ID, remoteapi.BorrowPayload{
		UserID:     in.UserID,
		BorrowDate: remoteapi.FormatDate(start),
		ReturnDate: remoteapi.FormatDate(end),
		Quantity:   in.Quantity,
		Purpose:    strings.TrimSpace(in.Purpose),
	})
	s.metrics.ObserveMutation("borrow", err)
	if err != nil {
		return models.BorrowRequest{}, fmt.Errorf("failed to submit borrow request: %w", err)
	}

	fillCreated(&created, in, start, end, s.now())
	s.record(change{kind: changeCreated, request: created})
	s.logger.GetLogger().Info("borrow request submitted",
		zap.Int64("request_id", created.ID),
		zap.Int64("equipment_id", created.EquipmentID),
		zap.Int64("user_id", created.UserID),
		zap.Int("quantity", created.Quantity))
	s.resync(ctx)
	return created, nil
}

func (s *inventoryService) Approve(ctx context.Context, requestID int64) (models.BorrowRequest, error) {
	return s.transition(ctx, requestID, models.StatusApproved, "approve")
}

func (s *inventoryService) Reject(ctx context.Context, requestID int64) (models.BorrowRequest, error) {
	return s.transition(ctx, requestID, models.StatusRejected, "reject")
}

func (s *inventoryService) MarkReturned(ctx context.Context, requestID int64) (models.BorrowRequest, error) {
	return s.transition(ctx, requestID, models.StatusReturned, "return")
}

// transition validates the move locally before calling the API; an illegal
// move never leaves the process.
func (s *inventoryService) transition(ctx context.Context, requestID int64, to models.Status, action string) (models.BorrowRequest, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return models.BorrowRequest{}, err
	}
	if !actor.Role.CanManageRequests() {
		return models.BorrowRequest{}, newError(ErrForbidden, "only administrators and lab assistants can %s requests", action)
	}

	key := fmt.Sprintf("request:%d", requestID)
	if err := s.begin(key); err != nil {
		return models.BorrowRequest{}, err
	}
	defer s.end(key)

	if err := s.ensureFresh(ctx); err != nil {
		return models.BorrowRequest{}, err
	}
	_, requests := s.view()
	i := indexRequest(requests, requestID)
	if i < 0 {
		return models.BorrowRequest{}, newError(ErrNotFound, "request %d not found", requestID)
	}
	current := requests[i]
	if !current.Status.CanTransitionTo(to) {
		return models.BorrowRequest{}, newError(ErrInvalidTransition, "cannot %s a request that is %s", action, current.Status)
	}

	_, err = s.api.UpdateLoanRequestStatus(ctx, requestID, to)
	s.metrics.ObserveMutation(action, err)
	if err != nil {
		return models.BorrowRequest{}, fmt.Errorf("failed to %s request %d: %w", action, requestID, err)
	}

	s.record(change{kind: changeStatus, requestID: requestID, status: to})
	s.logger.GetLogger().Info("request status changed",
		zap.Int64("request_id", requestID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
		zap.Int64("actor_id", actor.ID))
	s.resync(ctx)

	_, requests = s.view()
	if i := indexRequest(requests, requestID); i >= 0 {
		return requests[i], nil
	}
	current.Status = to
	return current, nil
}

func (s *inventoryService) AddEquipment(ctx context.Context, in EquipmentInput) (models.Equipment, error) {
	if _, err := s.admin(ctx, "add equipment"); err != nil {
		return models.Equipment{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return models.Equipment{}, validationError(err)
	}

	key := "equipment:new:" + strings.ToLower(in.Name)
	if err := s.begin(key); err != nil {
		return models.Equipment{}, err
	}
	defer s.end(key)

	payload := remoteapi.EquipmentPayload{
		Name:      &in.Name,
		Category:  &in.Category,
		Condition: &in.Condition,
		Quantity:  &in.Quantity,
	}
	if in.Description != "" {
		payload.Description = &in.Description
	}
	created, err := s.api.CreateEquipment(ctx, payload)
	s.metrics.ObserveMutation("add_equipment", err)
	if err != nil {
		return models.Equipment{}, fmt.Errorf("failed to add equipment: %w", err)
	}
	if created.Name == "" {
		created = models.Equipment{
			ID:          created.ID,
			Name:        in.Name,
			Category:    models.Category(in.Category),
			Condition:   models.Condition(in.Condition),
			Quantity:    in.Quantity,
			Available:   in.Quantity,
			Description: in.Description,
		}
	}
	created.Clamp()

	s.record(change{kind: changeEquipment, equipment: created})
	s.logger.GetLogger().Info("equipment added", zap.Int64("equipment_id", created.ID), zap.String("name", created.Name))
	s.resync(ctx)
	return created, nil
}

func (s *inventoryService) UpdateEquipment(ctx context.Context, id int64, in EquipmentUpdate) (models.Equipment, error) {
	if _, err := s.admin(ctx, "edit equipment"); err != nil {
		return models.Equipment{}, err
	}
	if in.empty() {
		return models.Equipment{}, newError(ErrValidation, "nothing to update")
	}
	if err := s.validate.Struct(in); err != nil {
		return models.Equipment{}, validationError(err)
	}

	key := fmt.Sprintf("equipment:%d", id)
	if err := s.begin(key); err != nil {
		return models.Equipment{}, err
	}
	defer s.end(key)

	if err := s.ensureFresh(ctx); err != nil {
		return models.Equipment{}, err
	}
	equipment, _ := s.view()
	i := indexEquipment(equipment, id)
	if i < 0 {
		return models.Equipment{}, newError(ErrNotFound, "equipment %d not found", id)
	}
	updated := equipment[i]
	if in.Quantity != nil {
		onLoan := updated.OnLoan()
		if *in.Quantity < onLoan {
			return models.Equipment{}, newError(ErrValidation,
				"Cannot reduce total quantity to %d. %d items are currently on loan.", *in.Quantity, onLoan)
		}
		updated.Available = *in.Quantity - onLoan
		updated.Quantity = *in.Quantity
	}
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		updated.Category = models.Category(*in.Category)
	}
	if in.Condition != nil {
		updated.Condition = models.Condition(*in.Condition)
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}

	resp, err := s.api.UpdateEquipment(ctx, id, remoteapi.EquipmentPayload{
		Name:        in.Name,
		Category:    in.Category,
		Condition:   in.Condition,
		Quantity:    in.Quantity,
		Description: in.Description,
	})
	s.metrics.ObserveMutation("update_equipment", err)
	if err != nil {
		return models.Equipment{}, fmt.Errorf("failed to update equipment %d: %w", id, err)
	}
	if resp.ID == id && resp.Name != "" {
		updated = resp
	}
	updated.Clamp()

	s.record(change{kind: changeEquipment, equipment: updated})
	s.logger.GetLogger().Info("equipment updated", zap.Int64("equipment_id", id))
	s.resync(ctx)
	return updated, nil
}

func (s *inventoryService) DeleteEquipment(ctx context.Context, id int64) error {
	if _, err := s.admin(ctx, "delete equipment"); err != nil {
		return err
	}

	key := fmt.Sprintf("equipment:%d", id)
	if err := s.begin(key); err != nil {
		return err
	}
	defer s.end(key)

	if err := s.ensureFresh(ctx); err != nil {
		return err
	}
	equipment, _ := s.view()
	i := indexEquipment(equipment, id)
	if i < 0 {
		return newError(ErrNotFound, "equipment %d not found", id)
	}
	if equipment[i].OnLoan() > 0 {
		return newError(ErrValidation, "Cannot delete equipment. Some items are still on loan.")
	}

	err := s.api.DeleteEquipment(ctx, id)
	s.metrics.ObserveMutation("delete_equipment", err)
	if err != nil {
		return fmt.Errorf("failed to delete equipment %d: %w", id, err)
	}

	s.record(change{kind: changeEquipmentRemoved, equipment: equipment[i]})
	s.logger.GetLogger().Info("equipment deleted", zap.Int64("equipment_id", id))
	s.resync(ctx)
	return nil
}

func (s *inventoryService) Dashboard(ctx context.Context) (Dashboard, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	if err := s.ensureFresh(ctx); err != nil {
		return Dashboard{}, err
	}
	equipment, requests := s.view()
	sortNewestFirst(requests)

	d := Dashboard{
		User:           actor,
		TotalEquipment: len(equipment),
		MyPending:      []models.BorrowRequest{},
		MyApproved:     []models.BorrowRequest{},
		Degraded:       s.State().Degraded,
	}
	for _, e := range equipment {
		if e.Available > 0 {
			d.AvailableEquipment++
		}
	}
	manager := actor.Role.CanManageRequests()
	if manager {
		d.PendingApprovals = []models.BorrowRequest{}
	}
	for _, r := range requests {
		if r.UserID == actor.ID {
			switch r.Status {
			case models.StatusPending:
				d.MyPending = append(d.MyPending, r)
			case models.StatusApproved:
				d.MyApproved = append(d.MyApproved, r)
			}
		}
		if manager && r.Status == models.StatusPending {
			d.PendingApprovals = append(d.PendingApprovals, r)
		}
	}
	return d, nil
}

func (s *inventoryService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	equipment, requests := s.st.view()
	return SyncState{
		Loaded:         s.st.loaded,
		Degraded:       s.st.degraded,
		LastSync:       s.st.syncedAt,
		PendingChanges: len(s.st.overlay),
		Equipment:      len(equipment),
		Requests:       len(requests),
	}
}

func (s *inventoryService) view() ([]models.Equipment, []models.BorrowRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.view()
}

func (s *inventoryService) actor(ctx context.Context) (models.User, error) {
	user, ok := sessionservice.UserFromContext(ctx)
	if !ok {
		return models.User{}, newError(ErrUnauthenticated, "log in first")
	}
	return user, nil
}

func (s *inventoryService) admin(ctx context.Context, action string) (models.User, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return actor, err
	}
	if actor.Role != models.AdminRole {
		return actor, newError(ErrForbidden, "only administrators can %s", action)
	}
	return actor, nil
}

func (s *inventoryService) begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return newError(ErrInFlight, "this action is already in progress")
	}
	s.inFlight[key] = struct{}{}
	return nil
}

func (s *inventoryService) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func fillCreated(r *models.BorrowRequest, in CreateRequestInput, start, end, now time.Time) {
	if r.EquipmentID == 0 {
		r.EquipmentID = in.EquipmentID
	}
	if r.UserID == 0 {
		r.UserID = in.UserID
	}
	if r.Quantity == 0 {
		r.Quantity = in.Quantity
	}
	if r.StartDate.IsZero() {
		r.StartDate = start
	}
	if r.EndDate.IsZero() {
		r.EndDate = end
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if r.Purpose == "" {
		r.Purpose = strings.TrimSpace(in.Purpose)
	}
}

func sortNewestFirst(requests []models.BorrowRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID > requests[j].ID
	})
}
