package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"
	"recipeshare_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxMessageLength = 1000

type ChatService struct {
	ConvRepo *repository.ConversationRepository
	UserRepo *repository.UserRepository
}

func NewChatService(convRepo *repository.ConversationRepository, userRepo *repository.UserRepository) *ChatService {
	return &ChatService{
		ConvRepo: convRepo,
		UserRepo: userRepo,
	}
}

// NormalizePair 把用户对规范化为 (小ID, 大ID)，保证 (A,B) 和 (B,A) 落到同一行
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetOrCreateConversation 查找或惰性创建两个用户的唯一会话
// 并发首次联系时依赖 (user1_id, user2_id) 唯一索引兜底：
// 创建失败后重查一次，拿到对方先一步创建的行。
func (s *ChatService) GetOrCreateConversation(userA, userB uint) (*model.Conversation, bool, error) {
	if userA == 0 || userB == 0 {
		return nil, false, util.ErrUserNotFound
	}
	if userA == userB {
		return nil, false, util.ErrConversationSelf
	}

	// 目标用户不存在时直接报 404，而不是等建行时撞外键
	if _, err := s.UserRepo.FindByID(userB); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, util.ErrUserNotFound
		}
		return nil, false, err
	}

	u1, u2 := NormalizePair(userA, userB)

	conv, err := s.ConvRepo.FindByPair(u1, u2)
	if err == nil {
		return conv, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	newConv := &model.Conversation{User1ID: u1, User2ID: u2}
	if createErr := s.ConvRepo.Create(newConv); createErr != nil {
		// 唯一索引冲突说明另一个请求刚创建了同一对，重查返回现有行
		if existing, findErr := s.ConvRepo.FindByPair(u1, u2); findErr == nil {
			return existing, false, nil
		}
		return nil, false, createErr
	}

	conv, err = s.ConvRepo.FindByID(newConv.ID)
	if err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// SendMessage 追加消息并独立更新会话的活跃时间
func (s *ChatService) SendMessage(conversationID, senderID uint, content string) (*model.Message, *model.Conversation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, util.ErrMessageEmpty
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, nil, util.ErrMessageTooLong
	}

	conv, err := s.ConvRepo.FindByID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, nil, util.ErrNotParticipant
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.ConvRepo.CreateMessage(msg); err != nil {
		return nil, nil, err
	}

	// 会话列表按 updated_at 倒序，失败只记录不回滚消息
	if err := s.ConvRepo.Touch(conversationID, msg.CreatedAt); err != nil {
		logger.Log.Warn("Failed to touch conversation",
			zap.Uint("conversationID", conversationID), zap.Error(err))
	}

	if conv.User1ID == senderID {
		msg.Sender = conv.User1
	} else {
		msg.Sender = conv.User2
	}
	return msg, conv, nil
}

// ListMessages 会话全部历史，升序，调用方必须是参与者
func (s *ChatService) ListMessages(conversationID, userID uint) ([]model.Message, error) {
	conv, err := s.ConvRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, util.ErrNotParticipant
	}
	return s.ConvRepo.ListMessages(conversationID)
}

// HasNewMessages 轮询接口：lastViewed 之后是否有发给该用户的新消息
func (s *ChatService) HasNewMessages(userID uint, lastViewed time.Time) (bool, error) {
	count, err := s.ConvRepo.CountIncomingAfter(userID, lastViewed)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ConversationSummary 会话列表条目
type ConversationSummary struct {
	ID          uint                `json:"id"`
	OtherUser   model.PublicProfile `json:"otherUser"`
	LastMessage *model.Message      `json:"lastMessage"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ListConversations 用户会话列表，按最近活跃倒序，附带对端资料和最新一条消息
func (s *ChatService) ListConversations(userID uint) ([]ConversationSummary, error) {
	convs, err := s.ConvRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for i := range convs {
		last, err := s.ConvRepo.LastMessage(convs[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			ID:          convs[i].ID,
			OtherUser:   convs[i].Other(userID).Public(),
			LastMessage: last,
			UpdatedAt:   convs[i].UpdatedAt,
		})
	}
	return summaries, nil
}
