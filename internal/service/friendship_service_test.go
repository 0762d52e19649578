package service

import (
	"testing"

	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendshipService(t *testing.T) (*FriendshipService, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewFriendshipService(
		repository.NewFriendshipRepository(db, nil),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
	), mock
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc, _ := newFriendshipService(t)

	_, _, err := svc.SendRequest(3, 3)
	assert.ErrorIs(t, err, util.ErrFriendSelf)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	svc, mock := newFriendshipService(t)

	// 目标用户存在
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "小王"))
	// 同一方向已有待处理申请
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "addressee_id", "status"}).
			AddRow(10, 1, 2, "pending"))

	_, _, err := svc.SendRequest(1, 2)
	assert.ErrorIs(t, err, util.ErrRequestPending)
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	svc, mock := newFriendshipService(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "小王"))
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "addressee_id", "status"}).
			AddRow(10, 2, 1, "accepted"))

	_, _, err := svc.SendRequest(1, 2)
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
}

func TestHandleRequestOnlyAddresseeCanAct(t *testing.T) {
	svc, mock := newFriendshipService(t)

	// Preload 按关联名字典序执行：Addressee 在前，Requester 在后
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "addressee_id", "status"}).
			AddRow(10, 1, 2, "pending"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	// 申请人自己不能接受
	_, _, err := svc.HandleRequest(10, 1, true)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestHandleRequestRejectDeletesRow(t *testing.T) {
	svc, mock := newFriendshipService(t)

	friendshipRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "requester_id", "addressee_id", "status"}).
			AddRow(10, 1, 2, "pending")
	}

	// HandleRequest 先查一次，Preload 字典序 Addressee 在前
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").WillReturnRows(friendshipRows())
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	// Delete 内部再查一次后物理删除
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").WillReturnRows(friendshipRows())
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `friendships`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	friendship, notif, err := svc.HandleRequest(10, 2, false)
	require.NoError(t, err)
	assert.Nil(t, friendship)
	assert.Nil(t, notif)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFriendRequiresAcceptedRelation(t *testing.T) {
	svc, mock := newFriendshipService(t)

	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_id", "addressee_id", "status"}).
			AddRow(10, 1, 2, "pending"))

	err := svc.RemoveFriend(1, 2)
	assert.ErrorIs(t, err, util.ErrRequestNotFound)
}
