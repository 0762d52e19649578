package repository

import (
	"time"

	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// FindByPair 按规范化的用户对查找会话，调用方需保证 user1ID < user2ID
func (r *ConversationRepository) FindByPair(user1ID, user2ID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.Preload("User1").Preload("User2").
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.DB.Create(conv).Error
}

func (r *ConversationRepository) FindByID(id uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.Preload("User1").Preload("User2").First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUser 用户参与的全部会话，按最近活跃倒序
func (r *ConversationRepository) ListByUser(userID uint) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.DB.Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// Touch 新消息写入后更新会话活跃时间，会话列表按它排序
func (r *ConversationRepository) Touch(id uint, at time.Time) error {
	return r.DB.Model(&model.Conversation{}).Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

func (r *ConversationRepository) CreateMessage(msg *model.Message) error {
	return r.DB.Create(msg).Error
}

// ListMessages 会话全部历史，按创建时间升序（接口不分页）
func (r *ConversationRepository) ListMessages(conversationID uint) ([]model.Message, error) {
	var msgs []model.Message
	err := r.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// LastMessage 会话最新一条消息，没有消息时返回 nil
func (r *ConversationRepository) LastMessage(conversationID uint) (*model.Message, error) {
	var msg model.Message
	err := r.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&msg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountIncomingAfter 统计用户所有会话中、他人发给该用户且晚于 after 的消息数
func (r *ConversationRepository) CountIncomingAfter(userID uint, after time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.user1_id = ? OR conversations.user2_id = ?)", userID, userID).
		Where("messages.sender_id <> ?", userID).
		Where("messages.created_at > ?", after).
		Count(&count).Error
	return count, err
}
