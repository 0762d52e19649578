package model

const (
	NotifyFriendRequest = "friend_request"
	NotifyFriendAccept  = "friend_accept"
	NotifyRecipeRating  = "recipe_rating"
	NotifyRecipeComment = "recipe_comment"
)

// Notification 用户收件箱条目
// related_user_id 在写入时与好友申请等事件一并记录；
// 历史数据可能缺失该关联，读取路径用时间戳就近匹配补齐（见 notification_service）。
type Notification struct {
	BaseModel
	RecipientID     uint    `gorm:"index;not null" json:"recipientId"`
	Type            string  `gorm:"size:30;index;not null" json:"type"`
	Message         string  `gorm:"size:255" json:"message"`
	IsRead          bool    `gorm:"default:false;index" json:"isRead"`
	RelatedUserID   *uint   `gorm:"index" json:"relatedUserId"`
	RelatedRecipeID *uint   `gorm:"index" json:"relatedRecipeId"`
	RelatedUser     *User   `gorm:"foreignKey:RelatedUserID" json:"relatedUser,omitempty"`
	RelatedRecipe   *Recipe `gorm:"foreignKey:RelatedRecipeID" json:"relatedRecipe,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
