package service

import (
	"testing"

	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectRecipeByID 按 FindByID 的查询顺序布置 mock：
// 主查询 → Author → Ingredients（Category 外键为空时跳过）
func expectRecipeByID(mock sqlmock.Sqlmock, id, authorID int) {
	mock.ExpectQuery("SELECT (.+) FROM `recipes`").
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title"}).
			AddRow(id, authorID, "红烧肉"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(authorID, "老王"))
	mock.ExpectQuery("SELECT (.+) FROM `ingredients`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipe_id", "name"}))
}

func TestSetImageOnlyAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewRecipeService(repository.NewRecipeRepository(db))

	expectRecipeByID(mock, 7, 1)

	err := svc.SetImage(7, 2, "https://cdn.example.com/recipes/7.png")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetImageUpdatesURL(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewRecipeService(repository.NewRecipeRepository(db))

	expectRecipeByID(mock, 7, 1)
	mock.ExpectExec("UPDATE `recipes` SET `image_url`").
		WithArgs("https://cdn.example.com/recipes/7.png", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.SetImage(7, 1, "https://cdn.example.com/recipes/7.png")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
