package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

type memClassChangeRepo struct {
	byID map[string]models.ClassChangeHistory
}

func newMemClassChangeRepo() *memClassChangeRepo {
	return &memClassChangeRepo{byID: map[string]models.ClassChangeHistory{}}
}

func (r *memClassChangeRepo) Create(ctx context.Context, h *models.ClassChangeHistory) error {
	h.ID = primitive.NewObjectID()
	r.byID[h.ID.Hex()] = *h
	return nil
}

func (r *memClassChangeRepo) GetByID(ctx context.Context, id string) (*models.ClassChangeHistory, error) {
	h, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrClassChangeNotFound
	}
	return &h, nil
}

func (r *memClassChangeRepo) ListByPlayer(ctx context.Context, playerID string, limit, offset int64) ([]models.ClassChangeHistory, error) {
	var out []models.ClassChangeHistory
	for _, h := range r.byID {
		if h.PlayerID == playerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memClassChangeRepo) ApplyApproval(ctx context.Context, historyID, playerID string, update repositories.ClassChangeApprovalUpdate) (*models.ClassChangeHistory, error) {
	h, ok := r.byID[historyID]
	if !ok {
		return nil, repositories.ErrClassChangeNotFound
	}
	h.Status = update.Status
	h.ApprovedBy = &update.ApprovedBy
	h.ApprovedAt = &update.ApprovedAt
	h.Comment = update.Comment
	r.byID[historyID] = h
	return &h, nil
}

type memNotificationRepo struct {
	created []models.Notification
}

func (r *memNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	r.created = append(r.created, *n)
	return nil
}

func (r *memNotificationRepo) MarkAsRead(ctx context.Context, id string) error { return nil }

func (r *memNotificationRepo) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return nil, nil
}

func newTestClassChangeService() (*ClassChangeService, *stubPlayerRepo, *memClassChangeRepo, *memNotificationRepo) {
	players := &stubPlayerRepo{
		existing: map[string]bool{},
		players:  map[string]models.Player{},
		updates:  map[string]map[string]interface{}{},
	}
	histories := newMemClassChangeRepo()
	notificationRepo := &memNotificationRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Пустой adminEmail: почтовый путь в тестах не задействуется.
	notifications := NewNotificationService(notificationRepo, nil, "", logger)
	return NewClassChangeService(histories, players, notifications, logger), players, histories, notificationRepo
}

func TestClassChangeRequest(t *testing.T) {
	svc, players, _, _ := newTestClassChangeService()
	playerID := primitive.NewObjectID()
	players.players[playerID.Hex()] = models.Player{ID: playerID, CurrentClass: "C"}

	history, err := svc.Request(context.Background(), "user-1", models.ClassChangeRequest{
		PlayerID: playerID.Hex(),
		NewClass: "B",
		Reason:   "won regional qualifier",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClassChangeStatusPending, history.Status)
	assert.Equal(t, "C", history.OldClass)
	assert.Equal(t, "B", history.NewClass)
	assert.Equal(t, "user-1", history.RequestedBy)
}

func TestClassChangeRequest_Validation(t *testing.T) {
	svc, players, _, _ := newTestClassChangeService()
	ctx := context.Background()
	playerID := primitive.NewObjectID()
	players.players[playerID.Hex()] = models.Player{ID: playerID, CurrentClass: "C"}

	_, err := svc.Request(ctx, "user-1", models.ClassChangeRequest{PlayerID: playerID.Hex(), NewClass: "X", Reason: "r"})
	assert.ErrorIs(t, err, ErrInvalidClass)

	_, err = svc.Request(ctx, "user-1", models.ClassChangeRequest{PlayerID: playerID.Hex(), NewClass: "B"})
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.Request(ctx, "user-1", models.ClassChangeRequest{PlayerID: playerID.Hex(), NewClass: "C", Reason: "r"})
	assert.ErrorIs(t, err, ErrSameClass)

	_, err = svc.Request(ctx, "user-1", models.ClassChangeRequest{PlayerID: primitive.NewObjectID().Hex(), NewClass: "B", Reason: "r"})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestClassChangeApprove(t *testing.T) {
	svc, players, _, notifications := newTestClassChangeService()
	ctx := context.Background()
	playerID := primitive.NewObjectID()
	players.players[playerID.Hex()] = models.Player{ID: playerID, CurrentClass: "C"}

	history, err := svc.Request(ctx, "user-1", models.ClassChangeRequest{
		PlayerID: playerID.Hex(), NewClass: "B", Reason: "r",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, "admin-1", history.ID.Hex(), models.ClassChangeApproval{Approved: true})
	require.NoError(t, err)
	assert.Equal(t, models.ClassChangeStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)

	// Заявитель получает уведомление о решении.
	require.Len(t, notifications.created, 1)
	assert.Equal(t, "user-1", notifications.created[0].UserID)
	assert.Equal(t, models.NotificationTypeSystem, notifications.created[0].Type)

	// Повторное рассмотрение отклоняется.
	_, err = svc.Approve(ctx, "admin-1", history.ID.Hex(), models.ClassChangeApproval{Approved: false})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestClassChangeApprove_Reject(t *testing.T) {
	svc, players, _, _ := newTestClassChangeService()
	ctx := context.Background()
	playerID := primitive.NewObjectID()
	players.players[playerID.Hex()] = models.Player{ID: playerID, CurrentClass: "C"}

	history, err := svc.Request(ctx, "user-1", models.ClassChangeRequest{
		PlayerID: playerID.Hex(), NewClass: "B", Reason: "r",
	})
	require.NoError(t, err)

	comment := "insufficient results"
	rejected, err := svc.Approve(ctx, "admin-1", history.ID.Hex(), models.ClassChangeApproval{
		Approved: false,
		Comment:  &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClassChangeStatusRejected, rejected.Status)
	require.NotNil(t, rejected.Comment)
	assert.Equal(t, comment, *rejected.Comment)
}

func TestClassChangeApprove_NotFound(t *testing.T) {
	svc, _, _, _ := newTestClassChangeService()

	_, err := svc.Approve(context.Background(), "admin-1", primitive.NewObjectID().Hex(), models.ClassChangeApproval{Approved: true})
	assert.ErrorIs(t, err, ErrClassChangeNotFound)
}
