package database

import (
	"fmt"
	"log"

	"recipeshare_backend/internal/config"
	"recipeshare_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立数据库连接；migrate 为 true 时执行自动迁移并预置基础数据
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.AvatarPresetOption{},
		&model.Category{},
		&model.Recipe{},
		&model.Ingredient{},
		&model.Favorite{},
		&model.Rating{},
		&model.Comment{},
		&model.Conversation{},
		&model.Message{},
		&model.Friendship{},
		&model.Notification{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认食谱分类
	var catCount int64
	db.Model(&model.Category{}).Count(&catCount)
	if catCount == 0 {
		defaultCategories := []string{
			"家常菜", "烘焙甜点", "汤羹", "早餐", "素食", "快手菜", "下午茶", "异国风味",
		}
		for _, name := range defaultCategories {
			db.Create(&model.Category{Name: name})
		}
	}

	// 默认预设头像
	var presetCount int64
	db.Model(&model.AvatarPresetOption{}).Count(&presetCount)
	if presetCount == 0 {
		defaultPresets := []model.AvatarPresetOption{
			{Name: "chef-hat", URL: "/static/avatars/chef-hat.png"},
			{Name: "whisk", URL: "/static/avatars/whisk.png"},
			{Name: "pepper", URL: "/static/avatars/pepper.png"},
			{Name: "noodle", URL: "/static/avatars/noodle.png"},
			{Name: "teapot", URL: "/static/avatars/teapot.png"},
			{Name: "avocado", URL: "/static/avatars/avocado.png"},
		}
		for _, p := range defaultPresets {
			db.Create(&p)
		}
	}

	return db, nil
}
