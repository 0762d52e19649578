package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair(7, 3)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)

	a, b = NormalizePair(3, 7)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)

	a, b = NormalizePair(5, 5)
	assert.Equal(t, uint(5), a)
	assert.Equal(t, uint(5), b)
}

func TestGetOrCreateConversationRejectsSelf(t *testing.T) {
	svc := NewChatService(&repository.ConversationRepository{}, &repository.UserRepository{})

	_, _, err := svc.GetOrCreateConversation(4, 4)
	assert.ErrorIs(t, err, util.ErrConversationSelf)

	_, _, err = svc.GetOrCreateConversation(0, 4)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestGetOrCreateConversationReturnsExisting(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	// 目标用户存在性检查
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "小李"))
	// First 会把 LIMIT 作为占位符参数绑定
	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs(2, 9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id"}).AddRow(11, 2, 9))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "小李"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(9, "小王"))

	// 参数顺序与 (9,2) 归一化后一致
	conv, created, err := svc.GetOrCreateConversation(9, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(11), conv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateConversationTargetMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, _, err := svc.GetOrCreateConversation(9, 2)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageValidation(t *testing.T) {
	svc := NewChatService(&repository.ConversationRepository{}, &repository.UserRepository{})

	_, _, err := svc.SendMessage(1, 1, "   ")
	assert.ErrorIs(t, err, util.ErrMessageEmpty)

	_, _, err = svc.SendMessage(1, 1, strings.Repeat("辣", 1001))
	assert.ErrorIs(t, err, util.ErrMessageTooLong)
}

func TestSendMessageAtMaxLength(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id"}).AddRow(5, 1, 2))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "b"))
	mock.ExpectExec("INSERT INTO `messages`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `conversations`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// 恰好 1000 个字符不算超长
	msg, conv, err := svc.SendMessage(5, 1, strings.Repeat("辣", 1000))
	require.NoError(t, err)
	assert.Equal(t, uint(5), conv.ID)
	assert.Equal(t, uint(1), msg.SenderID)
	assert.NotEmpty(t, msg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id"}).AddRow(5, 1, 2))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	_, _, err := svc.SendMessage(5, 3, "hello")
	assert.ErrorIs(t, err, util.ErrNotParticipant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasNewMessages(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT count(.+) FROM `messages`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	hasNew, err := svc.HasNewMessages(1, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, hasNew)

	mock.ExpectQuery("SELECT count(.+) FROM `messages`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	hasNew, err = svc.HasNewMessages(1, time.Now())
	require.NoError(t, err)
	assert.False(t, hasNew)
}

func TestHasNewMessagesPropagatesError(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewChatService(repository.NewConversationRepository(db), repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT count(.+) FROM `messages`").
		WillReturnError(errors.New("db down"))

	_, err := svc.HasNewMessages(1, time.Now())
	assert.Error(t, err)
}
