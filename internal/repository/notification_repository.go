package repository

import (
	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient 用户收件箱，按创建时间倒序，关联用户和食谱一并加载
func (r *NotificationRepository) ListByRecipient(userID uint) ([]model.Notification, error) {
	var notifs []model.Notification
	err := r.DB.Preload("RelatedUser").Preload("RelatedRecipe").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notifs).Error
	return notifs, err
}

func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 幂等：已读行重复标记不报错
func (r *NotificationRepository) MarkRead(id uint) error {
	return r.DB.Model(&model.Notification{}).Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Notification{}, id).Error
}

// SetRelatedUser 读取路径就近匹配补齐历史数据的关联用户
func (r *NotificationRepository) SetRelatedUser(id uint, userID uint) error {
	return r.DB.Model(&model.Notification{}).Where("id = ?", id).
		Update("related_user_id", userID).Error
}
