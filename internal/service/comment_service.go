package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"
)

const maxCommentLength = 2000

type CommentService struct {
	CommentRepo *repository.CommentRepository
	RecipeRepo  *repository.RecipeRepository
	NotifRepo   *repository.NotificationRepository
	UserRepo    *repository.UserRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, recipeRepo *repository.RecipeRepository, notifRepo *repository.NotificationRepository, userRepo *repository.UserRepository) *CommentService {
	return &CommentService{
		CommentRepo: commentRepo,
		RecipeRepo:  recipeRepo,
		NotifRepo:   notifRepo,
		UserRepo:    userRepo,
	}
}

// Create 发表评论并通知食谱作者（自己评论自己的食谱不通知）
func (s *CommentService) Create(userID, recipeID uint, content string) (*model.Comment, *model.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, util.ErrMessageEmpty
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, nil, util.ErrMessageTooLong
	}

	recipe, err := s.RecipeRepo.FindByID(recipeID)
	if err != nil {
		return nil, nil, util.ErrRecipeNotFound
	}

	author, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, nil, util.ErrUserNotFound
	}

	comment := &model.Comment{
		RecipeID: recipeID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, nil, err
	}
	comment.Author = *author

	if recipe.AuthorID == userID {
		return comment, nil, nil
	}

	relatedUser := userID
	relatedRecipe := recipeID
	notif := &model.Notification{
		RecipientID:     recipe.AuthorID,
		Type:            model.NotifyRecipeComment,
		Message:         fmt.Sprintf("%s 评论了你的食谱「%s」", author.Name, recipe.Title),
		RelatedUserID:   &relatedUser,
		RelatedRecipeID: &relatedRecipe,
	}
	if err := s.NotifRepo.Create(notif); err != nil {
		return comment, nil, nil
	}
	notif.RelatedUser = author

	return comment, notif, nil
}

func (s *CommentService) ListByRecipe(recipeID uint) ([]model.Comment, error) {
	return s.CommentRepo.ListByRecipe(recipeID)
}

// Delete 评论作者或食谱作者可删除
func (s *CommentService) Delete(commentID string, userID uint) error {
	comment, err := s.CommentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		recipe, err := s.RecipeRepo.FindByID(comment.RecipeID)
		if err != nil || recipe.AuthorID != userID {
			return util.ErrPermissionDenied
		}
	}
	return s.CommentRepo.Delete(commentID)
}
