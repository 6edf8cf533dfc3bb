package inventoryservice

import (
	"context"
	"lending/models"
	"lending/providers"
	metricsprovider "lending/providers/metricsProvider"
	"lending/services/remoteapi"
	"lending/services/remoteapi/remoteapitest"
	sessionservice "lending/services/session"
	"lending/services/snapshot"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type lifecycle struct {
	srv     *remoteapitest.Server
	store   *snapshot.MemoryRepository
	svc     InventoryService
	student context.Context
	admin   context.Context
}

func newLifecycle(t *testing.T) *lifecycle {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	logger := providers.NewMockZapLoggerProvider(ctrl)
	logger.EXPECT().GetLogger().Return(zap.NewNop()).AnyTimes()

	srv := remoteapitest.NewServer()
	t.Cleanup(srv.Close)
	studentID := srv.AddUser("sam", "password123", models.StudentRole)
	adminID := srv.AddUser("ada", "password123", models.AdminRole)

	store := snapshot.NewMemoryRepository()
	client := remoteapi.NewClient(srv.URL, remoteapi.WithTimeout(2*time.Second))
	return &lifecycle{
		srv:   srv,
		store: store,
		svc:   NewInventoryService(client, store, logger, metricsprovider.NewMetricsProvider(), time.Minute),
		student: sessionservice.NewContext(context.Background(), sessionservice.Session{
			User:  models.User{ID: studentID, Username: "sam", Role: models.StudentRole},
			Token: srv.Token("sam"),
		}),
		admin: sessionservice.NewContext(context.Background(), sessionservice.Session{
			User:  models.User{ID: adminID, Username: "ada", Role: models.AdminRole},
			Token: srv.Token("ada"),
		}),
	}
}

func (l *lifecycle) available(t *testing.T, id int64) int {
	equipment, err := l.svc.Equipment(l.admin, EquipmentFilter{})
	require.NoError(t, err)
	for _, e := range equipment {
		if e.ID == id {
			return e.Available
		}
	}
	t.Fatalf("equipment %d not listed", id)
	return 0
}

func TestBorrowApproveReturn(t *testing.T) {
	l := newLifecycle(t)
	id := l.srv.AddEquipment(models.Equipment{Name: "Camera", Category: models.CategoryElectronics, Condition: models.ConditionGood, Quantity: 1, Available: 1})

	created, err := l.svc.CreateRequest(l.student, CreateRequestInput{
		EquipmentID: id,
		Quantity:    1,
		EndDate:     time.Now().AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "pending", l.srv.LoanStatus(created.ID))
	assert.Equal(t, 1, l.available(t, id))

	approved, err := l.svc.Approve(l.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, "accepted", l.srv.LoanStatus(created.ID))
	assert.Equal(t, 0, l.available(t, id))

	_, err = l.svc.Approve(l.admin, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	returned, err := l.svc.MarkReturned(l.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, returned.Status)
	assert.Equal(t, 1, l.available(t, id))
	assert.Equal(t, 0, l.svc.State().PendingChanges)
}

func TestRejectKeepsAvailable(t *testing.T) {
	l := newLifecycle(t)
	id := l.srv.AddEquipment(models.Equipment{Name: "Tennis racket", Category: models.CategorySports, Condition: models.ConditionFair, Quantity: 2, Available: 2})

	created, err := l.svc.CreateRequest(l.student, CreateRequestInput{EquipmentID: id, Quantity: 2, EndDate: time.Now().AddDate(0, 0, 1)})
	require.NoError(t, err)

	rejected, err := l.svc.Reject(l.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, 2, l.available(t, id))

	_, err = l.svc.MarkReturned(l.admin, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestServerDownServesSnapshot(t *testing.T) {
	l := newLifecycle(t)
	id := l.srv.AddEquipment(models.Equipment{Name: "Keyboard", Category: models.CategoryMusicalInstruments, Condition: models.ConditionGood, Quantity: 2, Available: 2})
	loanID := l.srv.AddLoan(models.BorrowRequest{
		EquipmentID: id,
		UserID:      1,
		Quantity:    1,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 0, 2),
		Status:      models.StatusPending,
	})
	require.NoError(t, l.svc.Refresh(context.Background()))

	l.srv.SetDown(true)
	// a fresh process starts with only the saved snapshots
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	logger := providers.NewMockZapLoggerProvider(ctrl)
	logger.EXPECT().GetLogger().Return(zap.NewNop()).AnyTimes()
	restarted := NewInventoryService(remoteapi.NewClient(l.srv.URL), l.store, logger, metricsprovider.NewMetricsProvider(), time.Minute)

	equipment, err := restarted.Equipment(l.admin, EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, "Keyboard", equipment[0].Name)

	requests, err := restarted.Requests(l.admin, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, loanID, requests[0].ID)
	assert.True(t, restarted.State().Degraded)

	_, err = restarted.Approve(l.admin, loanID)
	assert.ErrorIs(t, err, remoteapi.ErrUnreachable)

	l.srv.SetDown(false)
	require.NoError(t, restarted.Refresh(context.Background()))
	assert.False(t, restarted.State().Degraded)
}
