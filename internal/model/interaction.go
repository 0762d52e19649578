package model

// Favorite 收藏，目标是本站食谱或第三方 API 食谱二选一
// 外部食谱冗余存标题和图片，避免每次展示都回源第三方 API。
// recipe_id 为空的本站收藏共享 external_id=''，外部收藏的去重由 service 层查重保证。
type Favorite struct {
	BaseModel
	UserID        uint    `gorm:"uniqueIndex:idx_fav_recipe;index;not null" json:"userId"`
	RecipeID      *uint   `gorm:"uniqueIndex:idx_fav_recipe" json:"recipeId"`
	Recipe        *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	ExternalID    string  `gorm:"size:50;index" json:"externalId"`
	ExternalTitle string  `gorm:"size:255" json:"externalTitle"`
	ExternalImage string  `gorm:"size:255" json:"externalImage"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// Rating 食谱评分，同一用户对同一食谱只保留一行，重复评分覆盖
type Rating struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex:idx_rating_user_recipe;not null" json:"userId"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	RecipeID uint   `gorm:"uniqueIndex:idx_rating_user_recipe;index;not null" json:"recipeId"`
	Value    int    `gorm:"not null" json:"value"` // 1-5
}

func (Rating) TableName() string {
	return "ratings"
}

// Comment 食谱评论
type Comment struct {
	UUIDBase
	RecipeID uint   `gorm:"index;not null" json:"recipeId"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"size:2000;not null" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}
