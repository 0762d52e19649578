package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	AvatarPreset string    `gorm:"size:50" json:"avatarPreset"` // 预设头像名称，自定义上传时为空
	Disabled     bool      `gorm:"default:false" json:"disabled"`
	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen     time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile 对外暴露的用户公开字段（嵌入会话、消息、通知等响应）
type PublicProfile struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
	Online bool   `json:"online,omitempty"` // 仅好友列表填充
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
		Bio:    u.Bio,
	}
}

// AvatarPresetOption 预设头像，迁移时预置
type AvatarPresetOption struct {
	BaseModel
	Name string `gorm:"size:50;unique;not null" json:"name"`
	URL  string `gorm:"size:255;not null" json:"url"`
}

func (AvatarPresetOption) TableName() string {
	return "avatar_presets"
}
