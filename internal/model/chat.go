package model

import (
	"time"
)

// Conversation 两个用户之间的唯一私聊会话
// 存储时固定 user1_id = min(a,b)、user2_id = max(a,b)，
// 配合 (user1_id, user2_id) 唯一索引保证无论调用方向如何都只有一行。
// updated_at 在每次新消息写入时更新，会话列表按它倒序排序。
type Conversation struct {
	BaseModel
	User1ID uint `gorm:"uniqueIndex:idx_conv_pair;not null" json:"user1Id"`
	User2ID uint `gorm:"uniqueIndex:idx_conv_pair;not null" json:"user2Id"`
	User1   User `gorm:"foreignKey:User1ID" json:"user1"`
	User2   User `gorm:"foreignKey:User2ID" json:"user2"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Other 返回会话中 userID 的对端用户
func (c *Conversation) Other(userID uint) *User {
	if c.User1ID == userID {
		return &c.User2
	}
	return &c.User1
}

// HasParticipant 判断用户是否是会话参与者
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Message 会话消息，创建后不可变
type Message struct {
	UUIDBase
	ConversationID uint      `gorm:"index:idx_msg_conv_created;not null" json:"conversationId"`
	CreatedAt      time.Time `gorm:"index:idx_msg_conv_created" json:"createdAt"` // 历史消息按 (conversation_id, created_at) 查询
	SenderID       uint      `gorm:"index;not null" json:"senderId"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string    `gorm:"size:1000;not null" json:"content"`
}

func (Message) TableName() string {
	return "messages"
}
