package inventoryservice

import (
	"context"
	"errors"
	"lending/models"
	"lending/providers"
	metricsprovider "lending/providers/metricsProvider"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"lending/services/snapshot"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

const (
	studentID int64 = 7
	adminID   int64 = 1
)

func newTestService(ctrl *gomock.Controller) (*inventoryService, *MockRemoteAPI, *snapshot.MemoryRepository) {
	api := NewMockRemoteAPI(ctrl)
	store := snapshot.NewMemoryRepository()
	logger := providers.NewMockZapLoggerProvider(ctrl)
	logger.EXPECT().GetLogger().Return(zap.NewNop()).AnyTimes()
	svc := NewInventoryService(api, store, logger, metricsprovider.NewMetricsProvider(), time.Minute).(*inventoryService)
	svc.now = func() time.Time { return testNow }
	return svc, api, store
}

func as(role models.Role, id int64) context.Context {
	return sessionservice.NewContext(context.Background(), sessionservice.Session{
		User:  models.User{ID: id, Username: string(role), Role: role},
		Token: "token-" + string(role),
	})
}

func ball(available int) models.Equipment {
	return models.Equipment{ID: 1, Name: "Football", Category: models.CategorySports, Condition: models.ConditionGood, Quantity: 3, Available: available}
}

func loanOf(id int64, status models.Status, quantity int) models.BorrowRequest {
	return models.BorrowRequest{
		ID:          id,
		EquipmentID: 1,
		UserID:      studentID,
		Quantity:    quantity,
		StartDate:   day("2024-01-08"),
		EndDate:     day("2024-01-12"),
		Status:      status,
		CreatedAt:   testNow.Add(-time.Duration(id) * time.Hour),
	}
}

// expectFetch queues one successful fetch of both collections.
func expectFetch(api *MockRemoteAPI, equipment []models.Equipment, requests []models.BorrowRequest) {
	api.EXPECT().ListEquipment(gomock.Any()).Return(equipment, nil)
	api.EXPECT().ListLoanRequests(gomock.Any()).Return(requests, nil)
}

// expectFailedFetch queues one fetch that cannot reach the server.
func expectFailedFetch(api *MockRemoteAPI) {
	api.EXPECT().ListEquipment(gomock.Any()).Return(nil, remoteapi.ErrUnreachable)
}

func availableOf(t *testing.T, svc *inventoryService, id int64) int {
	equipment, _ := svc.view()
	i := indexEquipment(equipment, id)
	require.GreaterOrEqual(t, i, 0)
	return equipment[i].Available
}

func TestTransitionsAdjustAvailable(t *testing.T) {
	tests := []struct {
		name      string
		initial   models.Status
		quantity  int
		available int
		call      func(svc *inventoryService, ctx context.Context, id int64) (models.BorrowRequest, error)
		to        models.Status
		expected  int
	}{
		{
			name: "approve", initial: models.StatusPending, quantity: 2, available: 3,
			call: (*inventoryService).Approve, to: models.StatusApproved, expected: 1,
		},
		{
			name: "approve floors at zero", initial: models.StatusPending, quantity: 2, available: 1,
			call: (*inventoryService).Approve, to: models.StatusApproved, expected: 0,
		},
		{
			name: "reject", initial: models.StatusPending, quantity: 2, available: 3,
			call: (*inventoryService).Reject, to: models.StatusRejected, expected: 3,
		},
		{
			name: "return", initial: models.StatusApproved, quantity: 2, available: 1,
			call: (*inventoryService).MarkReturned, to: models.StatusReturned, expected: 3,
		},
		{
			name: "return caps at quantity", initial: models.StatusApproved, quantity: 2, available: 2,
			call: (*inventoryService).MarkReturned, to: models.StatusReturned, expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, api, _ := newTestService(ctrl)

			expectFetch(api, []models.Equipment{ball(tt.available)}, []models.BorrowRequest{loanOf(10, tt.initial, tt.quantity)})
			api.EXPECT().UpdateLoanRequestStatus(gomock.Any(), int64(10), tt.to).Return(models.BorrowRequest{}, nil)
			// the resync fails, so the local bookkeeping is what remains visible
			expectFailedFetch(api)

			updated, err := tt.call(svc, as(models.AdminRole, adminID), 10)
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			assert.Equal(t, tt.expected, availableOf(t, svc, 1))
			assert.Equal(t, 1, svc.State().PendingChanges)
		})
	}
}

func TestTransitionResyncReplacesOverlay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	expectFetch(api, []models.Equipment{ball(3)}, []models.BorrowRequest{loanOf(10, models.StatusPending, 1)})
	api.EXPECT().UpdateLoanRequestStatus(gomock.Any(), int64(10), models.StatusApproved).Return(models.BorrowRequest{}, nil)
	// the server counted another loan meanwhile
	expectFetch(api, []models.Equipment{ball(1)}, []models.BorrowRequest{loanOf(10, models.StatusApproved, 1)})

	updated, err := svc.Approve(as(models.LabAssistantRole, 2), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, 1, availableOf(t, svc, 1))
	assert.Equal(t, 0, svc.State().PendingChanges)
}

func TestInvalidTransitionsHaveNoSideEffects(t *testing.T) {
	tests := []struct {
		name    string
		initial models.Status
		call    func(svc *inventoryService, ctx context.Context, id int64) (models.BorrowRequest, error)
	}{
		{name: "approve approved", initial: models.StatusApproved, call: (*inventoryService).Approve},
		{name: "approve rejected", initial: models.StatusRejected, call: (*inventoryService).Approve},
		{name: "reject approved", initial: models.StatusApproved, call: (*inventoryService).Reject},
		{name: "reject returned", initial: models.StatusReturned, call: (*inventoryService).Reject},
		{name: "return pending", initial: models.StatusPending, call: (*inventoryService).MarkReturned},
		{name: "return returned", initial: models.StatusReturned, call: (*inventoryService).MarkReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, api, _ := newTestService(ctrl)

			expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{loanOf(10, tt.initial, 1)})

			_, err := tt.call(svc, as(models.AdminRole, adminID), 10)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, 2, availableOf(t, svc, 1))
			_, requests := svc.view()
			assert.Equal(t, tt.initial, requests[0].Status)
			assert.Equal(t, 0, svc.State().PendingChanges)
		})
	}
}

func TestTransitionErrors(t *testing.T) {
	t.Run("borrowers cannot manage requests", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, _, _ := newTestService(ctrl)

		_, err := svc.Approve(as(models.StudentRole, studentID), 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("requires a session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, _, _ := newTestService(ctrl)

		_, err := svc.Reject(context.Background(), 10)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, _ := newTestService(ctrl)
		expectFetch(api, []models.Equipment{ball(2)}, nil)

		_, err := svc.Approve(as(models.AdminRole, adminID), 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("same action already in flight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, _, _ := newTestService(ctrl)
		require.NoError(t, svc.begin("request:10"))

		_, err := svc.Approve(as(models.AdminRole, adminID), 10)
		assert.ErrorIs(t, err, ErrInFlight)

		svc.end("request:10")
		assert.NoError(t, svc.begin("request:10"))
	})

	t.Run("remote rejection leaves state alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, _ := newTestService(ctrl)
		expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{loanOf(10, models.StatusPending, 1)})
		apiErr := &remoteapi.APIError{Operation: "update_loan_request", StatusCode: http.StatusBadRequest, Message: "Insufficient equipment quantity to approve this request"}
		api.EXPECT().UpdateLoanRequestStatus(gomock.Any(), int64(10), models.StatusApproved).Return(models.BorrowRequest{}, apiErr)

		_, err := svc.Approve(as(models.AdminRole, adminID), 10)
		var got *remoteapi.APIError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, apiErr.Message, got.Message)
		assert.Equal(t, 2, availableOf(t, svc, 1))
		assert.Equal(t, 0, svc.State().PendingChanges)
	})

	t.Run("mutations fail while the server is unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, _ := newTestService(ctrl)
		expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{loanOf(10, models.StatusPending, 1)})
		api.EXPECT().UpdateLoanRequestStatus(gomock.Any(), int64(10), models.StatusApproved).Return(models.BorrowRequest{}, remoteapi.ErrUnreachable)

		_, err := svc.Approve(as(models.AdminRole, adminID), 10)
		assert.ErrorIs(t, err, remoteapi.ErrUnreachable)
		assert.Equal(t, 2, availableOf(t, svc, 1))
	})
}

func TestCreateRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	expectFetch(api, []models.Equipment{ball(2)}, nil)
	api.EXPECT().Borrow(gomock.Any(), int64(1), remoteapi.BorrowPayload{
		UserID:     studentID,
		BorrowDate: remoteapi.FormatDate(day("2024-01-10")),
		ReturnDate: remoteapi.FormatDate(day("2024-01-12")),
		Quantity:   2,
		Purpose:    "match",
	}).DoAndReturn(func(ctx context.Context, _ int64, _ remoteapi.BorrowPayload) (models.BorrowRequest, error) {
		assert.Equal(t, "token-student", sessionservice.TokenFromContext(ctx))
		return models.BorrowRequest{ID: 20}, nil
	})
	expectFailedFetch(api)

	created, err := svc.CreateRequest(as(models.StudentRole, studentID), CreateRequestInput{
		EquipmentID: 1,
		Quantity:    2,
		StartDate:   day("2024-01-10"),
		EndDate:     day("2024-01-12"),
		Purpose:     "  match ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BorrowRequest{
		ID:          20,
		EquipmentID: 1,
		UserID:      studentID,
		Quantity:    2,
		StartDate:   day("2024-01-10"),
		EndDate:     day("2024-01-12"),
		Status:      models.StatusPending,
		CreatedAt:   testNow,
		Purpose:     "match",
	}, created)

	_, requests := svc.view()
	require.Len(t, requests, 1)
	assert.Equal(t, int64(20), requests[0].ID)
	// creating a request reserves nothing
	assert.Equal(t, 2, availableOf(t, svc, 1))
}

func TestCreateRequestDefaultsStartToToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	expectFetch(api, []models.Equipment{ball(1)}, nil)
	api.EXPECT().Borrow(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, p remoteapi.BorrowPayload) (models.BorrowRequest, error) {
			assert.Equal(t, remoteapi.FormatDate(testNow), p.BorrowDate)
			return models.BorrowRequest{ID: 21}, nil
		})
	expectFetch(api, []models.Equipment{ball(1)}, []models.BorrowRequest{loanOf(21, models.StatusPending, 1)})

	created, err := svc.CreateRequest(as(models.StaffRole, studentID), CreateRequestInput{EquipmentID: 1, Quantity: 1, EndDate: testNow})
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-08"), created.StartDate)
	assert.Equal(t, 0, svc.State().PendingChanges)
}

func TestCreateRequestRejectedLocally(t *testing.T) {
	equipment := []models.Equipment{ball(2)}
	booked := []models.BorrowRequest{
		{ID: 30, EquipmentID: 1, UserID: 50, Quantity: 1, StartDate: day("2024-01-09"), EndDate: day("2024-01-20"), Status: models.StatusApproved},
		{ID: 31, EquipmentID: 1, UserID: 51, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-11"), Status: models.StatusApproved},
	}

	tests := []struct {
		name     string
		ctx      context.Context
		requests []models.BorrowRequest
		in       CreateRequestInput
		kind     error
	}{
		{
			name: "quantity above available",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 3, EndDate: day("2024-01-12")},
			kind: ErrUnavailable,
		},
		{
			name: "zero quantity",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 0, EndDate: day("2024-01-12")},
			kind: ErrValidation,
		},
		{
			name: "return date in the past",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-07")},
			kind: ErrValidation,
		},
		{
			name: "return date before borrow date",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-15"), EndDate: day("2024-01-12")},
			kind: ErrValidation,
		},
		{
			name: "missing equipment id",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{Quantity: 1, EndDate: day("2024-01-12")},
			kind: ErrValidation,
		},
		{
			name: "unknown equipment",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 9, Quantity: 1, EndDate: day("2024-01-12")},
			kind: ErrNotFound,
		},
		{
			name:     "window fully booked",
			ctx:      as(models.StudentRole, studentID),
			requests: booked,
			in:       CreateRequestInput{EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-12")},
			kind:     ErrUnavailable,
		},
		{
			name: "managers cannot borrow",
			ctx:  as(models.LabAssistantRole, 2),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 1, EndDate: day("2024-01-12")},
			kind: ErrForbidden,
		},
		{
			name: "borrowing for someone else",
			ctx:  as(models.StudentRole, studentID),
			in:   CreateRequestInput{EquipmentID: 1, UserID: 99, Quantity: 1, EndDate: day("2024-01-12")},
			kind: ErrForbidden,
		},
		{
			name: "no session",
			ctx:  context.Background(),
			in:   CreateRequestInput{EquipmentID: 1, Quantity: 1, EndDate: day("2024-01-12")},
			kind: ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, api, _ := newTestService(ctrl)
			api.EXPECT().ListEquipment(gomock.Any()).Return(equipment, nil).AnyTimes()
			api.EXPECT().ListLoanRequests(gomock.Any()).Return(tt.requests, nil).AnyTimes()

			_, err := svc.CreateRequest(tt.ctx, tt.in)
			assert.ErrorIs(t, err, tt.kind)

			_, requests := svc.view()
			assert.Len(t, requests, len(tt.requests))
			assert.Equal(t, 0, svc.State().PendingChanges)
		})
	}
}

func TestCreateRequestOverlapAllowsSpareUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	existing := models.BorrowRequest{ID: 30, EquipmentID: 1, UserID: 50, Quantity: 1, StartDate: day("2024-01-10"), EndDate: day("2024-01-15"), Status: models.StatusApproved}
	expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{existing})
	api.EXPECT().Borrow(gomock.Any(), int64(1), gomock.Any()).Return(models.BorrowRequest{ID: 31}, nil)
	expectFailedFetch(api)

	_, err := svc.CreateRequest(as(models.StudentRole, studentID), CreateRequestInput{
		EquipmentID: 1, Quantity: 1, StartDate: day("2024-01-12"), EndDate: day("2024-01-20"),
	})
	assert.NoError(t, err)
}

func TestFetchClampsServerCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	expectFetch(api, []models.Equipment{
		{ID: 1, Name: "Ball", Quantity: 3, Available: 5},
		{ID: 2, Name: "Kit", Quantity: 2, Available: -1},
	}, nil)

	equipment, err := svc.Equipment(as(models.StudentRole, studentID), EquipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, equipment[0].Available)
	assert.Equal(t, 0, equipment[1].Available)
}

func TestOutOfOrderFetchIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().ListEquipment(gomock.Any()).DoAndReturn(func(context.Context) ([]models.Equipment, error) {
		close(entered)
		<-release
		return []models.Equipment{ball(3)}, nil
	})
	api.EXPECT().ListEquipment(gomock.Any()).Return([]models.Equipment{ball(1)}, nil)
	api.EXPECT().ListLoanRequests(gomock.Any()).Return(nil, nil).Times(2)

	slow := make(chan error, 1)
	go func() { slow <- svc.Refresh(context.Background()) }()
	<-entered
	require.NoError(t, svc.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-slow)

	assert.Equal(t, 1, availableOf(t, svc, 1))
}

func TestCacheFallback(t *testing.T) {
	t.Run("serves the saved snapshot when nothing is loaded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, store := newTestService(ctrl)

		equipmentRaw, _ := jsoniter.Marshal([]models.Equipment{ball(2)})
		requestsRaw, _ := jsoniter.Marshal([]models.BorrowRequest{loanOf(10, models.StatusPending, 1)})
		require.NoError(t, store.Save(context.Background(), snapshot.EquipmentSnapshot, equipmentRaw))
		require.NoError(t, store.Save(context.Background(), snapshot.RequestsSnapshot, requestsRaw))
		expectFailedFetch(api)

		ctx := as(models.AdminRole, adminID)
		equipment, err := svc.Equipment(ctx, EquipmentFilter{})
		require.NoError(t, err)
		assert.Equal(t, []models.Equipment{ball(2)}, equipment)

		requests, err := svc.Requests(ctx, RequestFilter{})
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, int64(10), requests[0].ID)
		assert.True(t, svc.State().Degraded)
	})

	t.Run("keeps the state in memory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, _ := newTestService(ctrl)

		expectFetch(api, []models.Equipment{ball(2)}, nil)
		require.NoError(t, svc.Refresh(context.Background()))
		expectFailedFetch(api)
		require.NoError(t, svc.Refresh(context.Background()))

		equipment, err := svc.Equipment(as(models.StudentRole, studentID), EquipmentFilter{})
		require.NoError(t, err)
		assert.Len(t, equipment, 1)
		assert.True(t, svc.State().Degraded)
	})

	t.Run("fails without any snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, _ := newTestService(ctrl)
		expectFailedFetch(api)

		_, err := svc.Equipment(as(models.StudentRole, studentID), EquipmentFilter{})
		assert.ErrorIs(t, err, remoteapi.ErrUnreachable)
		assert.False(t, svc.State().Loaded)
	})

	t.Run("successful fetch saves snapshots", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, api, store := newTestService(ctrl)
		expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{loanOf(10, models.StatusPending, 1)})
		require.NoError(t, svc.Refresh(context.Background()))

		saved, err := store.Load(context.Background(), snapshot.EquipmentSnapshot)
		require.NoError(t, err)
		var equipment []models.Equipment
		require.NoError(t, jsoniter.Unmarshal(saved.Payload, &equipment))
		assert.Equal(t, []models.Equipment{ball(2)}, equipment)

		_, err = store.Load(context.Background(), snapshot.RequestsSnapshot)
		assert.NoError(t, err)
	})
}

func TestReadsReuseFreshState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)
	expectFetch(api, []models.Equipment{ball(2)}, nil)

	ctx := as(models.StudentRole, studentID)
	for i := 0; i < 3; i++ {
		_, err := svc.Equipment(ctx, EquipmentFilter{})
		require.NoError(t, err)
	}

	svc.now = func() time.Time { return testNow.Add(2 * time.Minute) }
	expectFetch(api, []models.Equipment{ball(1)}, nil)
	_, err := svc.Equipment(ctx, EquipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, availableOf(t, svc, 1))
}

func TestEquipmentFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)
	expectFetch(api, []models.Equipment{
		ball(0),
		{ID: 2, Name: "Oscilloscope", Category: models.CategoryElectronics, Quantity: 1, Available: 1, Description: "bench scope"},
		{ID: 3, Name: "Flute", Category: models.CategoryMusicalInstruments, Quantity: 2, Available: 2},
	}, nil)
	ctx := as(models.StudentRole, studentID)

	got, err := svc.Equipment(ctx, EquipmentFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Equipment(ctx, EquipmentFilter{Category: models.CategoryElectronics})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, err = svc.Equipment(ctx, EquipmentFilter{Search: "SCOPE"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRequestsVisibility(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	other := loanOf(3, models.StatusPending, 1)
	other.UserID = 50
	expectFetch(api, []models.Equipment{ball(2)}, []models.BorrowRequest{
		loanOf(1, models.StatusPending, 1),
		loanOf(2, models.StatusApproved, 1),
		other,
	})

	mine, err := svc.Requests(as(models.StudentRole, studentID), RequestFilter{UserID: 50})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// newest first
	assert.Equal(t, int64(1), mine[0].ID)
	assert.Equal(t, int64(2), mine[1].ID)

	all, err := svc.Requests(as(models.AdminRole, adminID), RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.Requests(as(models.AdminRole, adminID), RequestFilter{Status: models.StatusPending, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)

	_, err = svc.Requests(context.Background(), RequestFilter{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAddEquipment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	api.EXPECT().CreateEquipment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p remoteapi.EquipmentPayload) (models.Equipment, error) {
			assert.Equal(t, "Telescope", *p.Name)
			assert.Nil(t, p.Description)
			return models.Equipment{ID: 40}, nil
		})
	expectFailedFetch(api)

	created, err := svc.AddEquipment(as(models.AdminRole, adminID), EquipmentInput{
		Name: " Telescope ", Category: "Lab Equipment", Condition: "Excellent", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Equipment{
		ID: 40, Name: "Telescope", Category: models.CategoryLabEquipment, Condition: models.ConditionExcellent, Quantity: 2, Available: 2,
	}, created)
	assert.Equal(t, 2, availableOf(t, svc, 40))
}

func TestAddEquipmentRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestService(ctrl)

	_, err := svc.AddEquipment(as(models.LabAssistantRole, 2), EquipmentInput{Name: "Drum", Category: "Other", Condition: "Good", Quantity: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddEquipment(as(models.AdminRole, adminID), EquipmentInput{Name: "Drum", Category: "Percussion", Condition: "Good", Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `unknown category "Percussion"`)

	_, err = svc.AddEquipment(as(models.AdminRole, adminID), EquipmentInput{Name: "Drum", Category: "Other", Condition: "Good"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "quantity must be at least 1")
}

func TestUpdateEquipmentQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	// 3 total, 1 available: 2 on loan
	expectFetch(api, []models.Equipment{ball(1)}, nil)
	ctx := as(models.AdminRole, adminID)

	one := 1
	_, err := svc.UpdateEquipment(ctx, 1, EquipmentUpdate{Quantity: &one})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Cannot reduce total quantity to 1. 2 items are currently on loan.", err.Error())

	five := 5
	api.EXPECT().UpdateEquipment(gomock.Any(), int64(1), remoteapi.EquipmentPayload{Quantity: &five}).Return(models.Equipment{}, nil)
	expectFailedFetch(api)
	updated, err := svc.UpdateEquipment(ctx, 1, EquipmentUpdate{Quantity: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 3, updated.Available)
	assert.Equal(t, 3, availableOf(t, svc, 1))

	_, err = svc.UpdateEquipment(ctx, 1, EquipmentUpdate{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteEquipment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	kit := models.Equipment{ID: 2, Name: "Kit", Quantity: 2, Available: 2}
	expectFetch(api, []models.Equipment{ball(1), kit}, nil)
	ctx := as(models.AdminRole, adminID)

	err := svc.DeleteEquipment(ctx, 1)
	assert.ErrorIs(t, err, ErrValidation)

	api.EXPECT().DeleteEquipment(gomock.Any(), int64(2)).Return(nil)
	expectFailedFetch(api)
	require.NoError(t, svc.DeleteEquipment(ctx, 2))

	equipment, _ := svc.view()
	assert.Equal(t, -1, indexEquipment(equipment, 2))

	assert.ErrorIs(t, svc.DeleteEquipment(ctx, 2), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteEquipment(as(models.StudentRole, studentID), 1), ErrForbidden)
}

func TestDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, api, _ := newTestService(ctrl)

	other := loanOf(3, models.StatusPending, 1)
	other.UserID = 50
	expectFetch(api, []models.Equipment{ball(0), {ID: 2, Quantity: 1, Available: 1}}, []models.BorrowRequest{
		loanOf(1, models.StatusPending, 1),
		loanOf(2, models.StatusApproved, 1),
		other,
	})

	d, err := svc.Dashboard(as(models.StudentRole, studentID))
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalEquipment)
	assert.Equal(t, 1, d.AvailableEquipment)
	assert.Len(t, d.MyPending, 1)
	assert.Len(t, d.MyApproved, 1)
	assert.Nil(t, d.PendingApprovals)

	d, err = svc.Dashboard(as(models.AdminRole, adminID))
	require.NoError(t, err)
	assert.Empty(t, d.MyPending)
	assert.Len(t, d.PendingApprovals, 2)
}
