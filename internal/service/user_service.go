package service

import (
	"errors"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

// UpdateProfileInput 可更新的资料字段
type UpdateProfileInput struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	user.Bio = input.Bio
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar 自定义上传头像，清空预设名称
func (s *UserService) SetAvatar(userID uint, url string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = url
	user.AvatarPreset = ""
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatarPreset 选择预设头像
func (s *UserService) SetAvatarPreset(userID uint, presetName string) (*model.User, error) {
	presets, err := s.UserRepo.ListAvatarPresets()
	if err != nil {
		return nil, err
	}
	var preset *model.AvatarPresetOption
	for i := range presets {
		if presets[i].Name == presetName {
			preset = &presets[i]
			break
		}
	}
	if preset == nil {
		return nil, errors.New("预设头像不存在")
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = preset.URL
	user.AvatarPreset = preset.Name
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListAvatarPresets() ([]model.AvatarPresetOption, error) {
	return s.UserRepo.ListAvatarPresets()
}

func (s *UserService) Search(query string) ([]model.User, error) {
	return s.UserRepo.Search(query, 20)
}
