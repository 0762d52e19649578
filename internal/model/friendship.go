package model

import "time"

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship 好友关系表
// 一行同时承载申请与关系：pending 为待处理申请，accepted 为已建立的好友关系。
// 被拒绝的申请直接删除整行，因此拒绝后可以立即重新发起申请。
// 无序对唯一性（A→B 与 B→A 不共存）由 service 层在写入前双向检查保证。
type Friendship struct {
	BaseModel
	RequesterID uint       `gorm:"uniqueIndex:idx_friend_pair;not null" json:"requesterId"`
	AddresseeID uint       `gorm:"uniqueIndex:idx_friend_pair;not null" json:"addresseeId"`
	Requester   User       `gorm:"foreignKey:RequesterID" json:"requester"`
	Addressee   User       `gorm:"foreignKey:AddresseeID" json:"addressee"`
	Status      string     `gorm:"type:enum('pending','accepted');default:'pending'" json:"status"`
	AcceptedAt  *time.Time `json:"acceptedAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}
