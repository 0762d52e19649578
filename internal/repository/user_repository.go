package repository

import (
	"time"

	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// Search 按昵称或邮箱模糊搜索，排除禁用账号
func (r *UserRepository) Search(query string, limit int) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + query + "%"
	err := r.DB.Select("id, name, email, avatar, bio").
		Where("disabled = ?", false).
		Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ListAvatarPresets() ([]model.AvatarPresetOption, error) {
	var presets []model.AvatarPresetOption
	err := r.DB.Order("id ASC").Find(&presets).Error
	return presets, err
}
