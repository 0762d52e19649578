package model

// Category 食谱分类，迁移时预置默认分类
type Category struct {
	BaseModel
	Name string `gorm:"size:50;unique;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// Recipe 用户发布的食谱
type Recipe struct {
	BaseModel
	AuthorID     uint         `gorm:"index;not null" json:"authorId"`
	Author       User         `gorm:"foreignKey:AuthorID" json:"author"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Description  string       `gorm:"size:1000" json:"description"`
	Instructions string       `gorm:"type:text;not null" json:"instructions"`
	ImageURL     string       `gorm:"size:255" json:"imageUrl"`
	PrepMinutes  int          `gorm:"default:0" json:"prepMinutes"`
	CookMinutes  int          `gorm:"default:0" json:"cookMinutes"`
	Servings     int          `gorm:"default:1" json:"servings"`
	CategoryID   *uint        `gorm:"index" json:"categoryId"`
	Category     *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Ingredients  []Ingredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Views        int          `gorm:"default:0" json:"views"`
	AvgRating    float64      `gorm:"default:0" json:"avgRating"` // 冗余字段，评分写入时更新
	RatingCount  int          `gorm:"default:0" json:"ratingCount"`
	Published    bool         `gorm:"default:true" json:"published"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient 食谱配料，更新食谱时整体替换
type Ingredient struct {
	BaseModel
	RecipeID uint    `gorm:"index;not null" json:"recipeId"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	Quantity float64 `gorm:"default:0" json:"quantity"`
	Unit     string  `gorm:"size:20" json:"unit"`
	Position int     `gorm:"default:0" json:"position"` // 展示顺序
}

func (Ingredient) TableName() string {
	return "ingredients"
}
