package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func TestFindByPairNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepository(db)

	// First 会把 LIMIT 作为占位符参数绑定
	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs(1, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id"}))

	_, err := repo.FindByPair(1, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountIncomingAfterExcludesOwnMessages(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepository(db)

	after := time.Now().Add(-10 * time.Minute)
	mock.ExpectQuery("SELECT count(.+) FROM `messages` JOIN conversations").
		WithArgs(7, 7, 7, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountIncomingAfter(7, after)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchUpdatesOnlyTimestamp(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepository(db)

	at := time.Now()
	mock.ExpectExec("UPDATE `conversations` SET `updated_at`").
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Touch(5, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesOrderedAscending(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepository(db)

	earlier := time.Now().Add(-time.Hour)
	later := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `messages` WHERE conversation_id = (.+) ORDER BY created_at ASC").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "created_at"}).
			AddRow("m-1", 5, 1, "先到", earlier).
			AddRow("m-2", 5, 2, "后到", later))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a").AddRow(2, "b"))

	msgs, err := repo.ListMessages(5)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "先到", msgs[0].Content)
	assert.False(t, msgs[1].CreatedAt.Before(msgs[0].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastMessageReturnsNilWhenEmpty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `messages`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content"}))

	msg, err := repo.LastMessage(5)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
