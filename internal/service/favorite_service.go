package service

import (
	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"gorm.io/gorm"
)

type FavoriteService struct {
	FavRepo    *repository.FavoriteRepository
	RecipeRepo *repository.RecipeRepository
}

func NewFavoriteService(favRepo *repository.FavoriteRepository, recipeRepo *repository.RecipeRepository) *FavoriteService {
	return &FavoriteService{
		FavRepo:    favRepo,
		RecipeRepo: recipeRepo,
	}
}

// FavoriteInput 收藏目标：本站食谱或第三方 API 食谱二选一
type FavoriteInput struct {
	RecipeID      *uint  `json:"recipeId"`
	ExternalID    string `json:"externalId"`
	ExternalTitle string `json:"externalTitle"`
	ExternalImage string `json:"externalImage"`
}

func (s *FavoriteService) Add(userID uint, input FavoriteInput) (*model.Favorite, error) {
	hasRecipe := input.RecipeID != nil && *input.RecipeID > 0
	hasExternal := input.ExternalID != ""
	if hasRecipe == hasExternal {
		return nil, util.ErrFavoriteTarget
	}

	if hasRecipe {
		if _, err := s.RecipeRepo.FindByID(*input.RecipeID); err != nil {
			return nil, util.ErrRecipeNotFound
		}
		if _, err := s.FavRepo.FindByRecipe(userID, *input.RecipeID); err == nil {
			return nil, util.ErrAlreadyFavorited
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	} else {
		if _, err := s.FavRepo.FindByExternal(userID, input.ExternalID); err == nil {
			return nil, util.ErrAlreadyFavorited
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	fav := &model.Favorite{
		UserID:        userID,
		RecipeID:      input.RecipeID,
		ExternalID:    input.ExternalID,
		ExternalTitle: input.ExternalTitle,
		ExternalImage: input.ExternalImage,
	}
	if err := s.FavRepo.Create(fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *FavoriteService) Remove(userID, id uint) error {
	fav, err := s.FavRepo.FindByID(id)
	if err != nil {
		return err
	}
	if fav.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.FavRepo.Delete(id)
}

func (s *FavoriteService) List(userID uint) ([]model.Favorite, error) {
	return s.FavRepo.ListByUser(userID)
}
