package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipeshare_backend/internal/config"
	"recipeshare_backend/internal/controller"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/service"
	"recipeshare_backend/pkg/database"
	"recipeshare_backend/pkg/logger"
	"recipeshare_backend/pkg/monitoring"
	"recipeshare_backend/pkg/security"
	"recipeshare_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user         *repository.UserRepository
	recipe       *repository.RecipeRepository
	conversation *repository.ConversationRepository
	friendship   *repository.FriendshipRepository
	notification *repository.NotificationRepository
	favorite     *repository.FavoriteRepository
	rating       *repository.RatingRepository
	comment      *repository.CommentRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	recipe       *service.RecipeService
	favorite     *service.FavoriteService
	rating       *service.RatingService
	comment      *service.CommentService
	chat         *service.ChatService
	friendship   *service.FriendshipService
	notification *service.NotificationService
	mealAPI      *service.MealAPIService
	chatHub      *service.ChatHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	recipe       *controller.RecipeController
	interaction  *controller.InteractionController
	chat         *controller.ChatController
	friendship   *controller.FriendshipController
	notification *controller.NotificationController
	meal         *controller.MealController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新回调入口
func (a *App) ApplyConfig(cfg *config.Config) {
	logger.Log.Info("Config reloaded")
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		recipe:       repository.NewRecipeRepository(db),
		conversation: repository.NewConversationRepository(db),
		friendship:   repository.NewFriendshipRepository(db, rdb),
		notification: repository.NewNotificationRepository(db),
		favorite:     repository.NewFavoriteRepository(db),
		rating:       repository.NewRatingRepository(db),
		comment:      repository.NewCommentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.recipe = service.NewRecipeService(repos.recipe)
	s.favorite = service.NewFavoriteService(repos.favorite, repos.recipe)
	s.rating = service.NewRatingService(repos.rating, repos.recipe, repos.notification, repos.user)
	s.comment = service.NewCommentService(repos.comment, repos.recipe, repos.notification, repos.user)
	s.mealAPI = service.NewMealAPIService(&cfg.MealAPI, rdb)

	s.chatHub = service.NewChatHub(rdb, repos.conversation, repos.friendship)
	go s.chatHub.Run()

	s.chat = service.NewChatService(repos.conversation, repos.user)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.user, repos.notification)
	s.notification = service.NewNotificationService(repos.notification, repos.friendship, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.storage),
		recipe:       controller.NewRecipeController(s.recipe, s.storage),
		interaction:  controller.NewInteractionController(s.favorite, s.rating, s.comment, s.chatHub),
		chat:         controller.NewChatController(s.chat, s.chatHub),
		friendship:   controller.NewFriendshipController(s.friendship, s.chatHub),
		notification: controller.NewNotificationController(s.notification),
		meal:         controller.NewMealController(s.mealAPI),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// 仅迁移模式不需要其余组件
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 热更新仅覆盖运行期可替换的配置
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.mealAPI.ApplyConfig(&newCfg.MealAPI)
	})

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("recipeshare", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 清理 WebSocket 连接和 Redis 在线状态
	if a.services != nil && a.services.chatHub != nil {
		a.services.chatHub.Stop()
	}

	// 关闭服务
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
