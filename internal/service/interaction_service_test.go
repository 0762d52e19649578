package service

import (
	"strings"
	"testing"

	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteAddRequiresExactlyOneTarget(t *testing.T) {
	svc := NewFavoriteService(&repository.FavoriteRepository{}, &repository.RecipeRepository{})

	// 两个目标都没给
	_, err := svc.Add(1, FavoriteInput{})
	assert.ErrorIs(t, err, util.ErrFavoriteTarget)

	// 两个目标都给了
	recipeID := uint(3)
	_, err = svc.Add(1, FavoriteInput{RecipeID: &recipeID, ExternalID: "52772"})
	assert.ErrorIs(t, err, util.ErrFavoriteTarget)
}

func TestFavoriteAddRejectsDuplicateExternal(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewFavoriteService(repository.NewFavoriteRepository(db), repository.NewRecipeRepository(db))

	mock.ExpectQuery("SELECT (.+) FROM `favorites`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "external_id"}).AddRow(5, 1, "52772"))

	_, err := svc.Add(1, FavoriteInput{ExternalID: "52772", ExternalTitle: "Teriyaki Chicken"})
	assert.ErrorIs(t, err, util.ErrAlreadyFavorited)
}

func TestRateRejectsOutOfRange(t *testing.T) {
	svc := NewRatingService(&repository.RatingRepository{}, &repository.RecipeRepository{},
		&repository.NotificationRepository{}, &repository.UserRepository{})

	_, _, err := svc.Rate(1, 2, 0)
	assert.ErrorIs(t, err, util.ErrRatingOutOfRange)

	_, _, err = svc.Rate(1, 2, 6)
	assert.ErrorIs(t, err, util.ErrRatingOutOfRange)
}

func TestCommentCreateValidatesContent(t *testing.T) {
	svc := NewCommentService(&repository.CommentRepository{}, &repository.RecipeRepository{},
		&repository.NotificationRepository{}, &repository.UserRepository{})

	_, _, err := svc.Create(1, 2, "  \n ")
	assert.ErrorIs(t, err, util.ErrMessageEmpty)

	_, _, err = svc.Create(1, 2, strings.Repeat("香", maxCommentLength+1))
	assert.ErrorIs(t, err, util.ErrMessageTooLong)
}

func TestCommentDeleteByRecipeAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewRecipeRepository(db),
		repository.NewNotificationRepository(db), repository.NewUserRepository(db))

	// 评论归属用户 5，食谱作者是用户 1
	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipe_id", "author_id"}).AddRow("c-1", 3, 5))
	mock.ExpectQuery("SELECT (.+) FROM `recipes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title"}).AddRow(3, 1, "红烧肉"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM `ingredients`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipe_id"}))
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Delete("c-1", 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
