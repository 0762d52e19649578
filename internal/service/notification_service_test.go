package service

import (
	"testing"
	"time"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifAt(id uint, at time.Time) *model.Notification {
	return &model.Notification{
		BaseModel: model.BaseModel{ID: id, CreatedAt: at},
		Type:      model.NotifyFriendRequest,
	}
}

func pendingAt(requesterID uint, at time.Time) model.Friendship {
	return model.Friendship{
		BaseModel:   model.BaseModel{CreatedAt: at},
		RequesterID: requesterID,
		Status:      model.FriendshipPending,
	}
}

func TestMatchFriendRequestsPicksNearestTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	orphans := []*model.Notification{
		notifAt(101, base.Add(10*time.Second)),
		notifAt(102, base.Add(95*time.Second)),
	}
	pending := []model.Friendship{
		pendingAt(7, base.Add(11*time.Second)),
		pendingAt(8, base.Add(90*time.Second)),
	}

	claims := matchFriendRequests(orphans, pending)

	assert.Equal(t, uint(7), claims[101])
	assert.Equal(t, uint(8), claims[102])
}

func TestMatchFriendRequestsNeverDoubleClaims(t *testing.T) {
	base := time.Now()

	// 两条申请离同一条通知都最近，后处理的只能拿剩下的
	orphans := []*model.Notification{
		notifAt(201, base),
		notifAt(202, base.Add(time.Hour)),
	}
	pending := []model.Friendship{
		pendingAt(1, base.Add(time.Second)),
		pendingAt(2, base.Add(2*time.Second)),
	}

	claims := matchFriendRequests(orphans, pending)

	assert.Len(t, claims, 2)
	assert.Equal(t, uint(1), claims[201])
	assert.Equal(t, uint(2), claims[202])
}

func TestMatchFriendRequestsMoreOrphansThanPending(t *testing.T) {
	base := time.Now()

	orphans := []*model.Notification{
		notifAt(301, base),
		notifAt(302, base.Add(time.Minute)),
		notifAt(303, base.Add(2*time.Minute)),
	}
	pending := []model.Friendship{
		pendingAt(5, base.Add(time.Minute)),
	}

	claims := matchFriendRequests(orphans, pending)

	assert.Len(t, claims, 1)
	assert.Equal(t, uint(5), claims[302])
}

func TestMatchFriendRequestsEmptyInputs(t *testing.T) {
	assert.Empty(t, matchFriendRequests(nil, nil))
	assert.Empty(t, matchFriendRequests([]*model.Notification{notifAt(1, time.Now())}, nil))
}

func newNotificationService(t *testing.T) (*NotificationService, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewFriendshipRepository(db, nil),
		repository.NewUserRepository(db),
	), mock
}

func TestMarkReadRejectsForeignNotification(t *testing.T) {
	svc, mock := newNotificationService(t)

	mock.ExpectQuery("SELECT (.+) FROM `notifications`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "is_read"}).AddRow(9, 2, false))

	err := svc.MarkRead(1, 9)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, mock := newNotificationService(t)

	// 已读行再次标记：UPDATE 影响 0 行也不报错
	mock.ExpectQuery("SELECT (.+) FROM `notifications`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "is_read"}).AddRow(9, 1, true))
	mock.ExpectExec("UPDATE `notifications`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.MarkRead(1, 9)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
