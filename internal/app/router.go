package app

import (
	"recipeshare_backend/docs"
	"recipeshare_backend/internal/config"
	"recipeshare_backend/internal/middleware"
	"recipeshare_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录，带 token 时注入用户)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAuthorizedRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg))
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/avatar-presets", c.user.ListAvatarPresets)
		public.GET("/categories", c.recipe.ListCategories)

		// 食谱浏览允许游客访问
		public.GET("/recipes", c.recipe.ListRecipes)
		public.GET("/recipes/:id", c.recipe.GetRecipe)
		public.GET("/recipes/:id/ratings", c.interaction.ListRatings)
		public.GET("/recipes/:id/comments", c.interaction.ListComments)
		public.GET("/users/:id", c.user.GetUser)

		// 第三方食谱浏览
		meals := public.Group("/meals")
		{
			meals.GET("/search", c.meal.SearchMeals)
			meals.GET("/random", c.meal.RandomMeal)
			meals.GET("/categories", c.meal.MealCategories)
			meals.GET("/:id", c.meal.GetMeal)
		}
	}
}

func (a *App) registerAuthorizedRoutes(rg *gin.RouterGroup, c *controllers) {
	// 个人资料
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.PUT("/profile/avatar/preset", c.user.SetAvatarPreset)
	rg.GET("/users/search", c.user.SearchUsers)

	// 食谱发布与管理
	rg.POST("/recipes", c.recipe.CreateRecipe)
	rg.PUT("/recipes/:id", c.recipe.UpdateRecipe)
	rg.DELETE("/recipes/:id", c.recipe.DeleteRecipe)
	rg.POST("/recipes/:id/image", c.recipe.UploadRecipeImage)

	// 互动
	rg.POST("/recipes/:id/ratings", c.interaction.RateRecipe)
	rg.POST("/recipes/:id/comments", c.interaction.CreateComment)
	rg.DELETE("/comments/:id", c.interaction.DeleteComment)
	rg.GET("/favorites", c.interaction.ListFavorites)
	rg.POST("/favorites", c.interaction.AddFavorite)
	rg.DELETE("/favorites/:id", c.interaction.RemoveFavorite)

	// 好友
	rg.GET("/friends", c.friendship.ListFriends)
	rg.DELETE("/friends/:id", c.friendship.RemoveFriend)
	rg.GET("/friends/requests", c.friendship.ListRequests)
	rg.POST("/friends/requests", c.friendship.SendRequest)
	rg.PATCH("/friends/requests/:id", c.friendship.HandleRequest)

	// 私信
	rg.GET("/chat/ws", c.chat.HandleWS)
	rg.GET("/conversations", c.chat.ListConversations)
	rg.POST("/conversations", c.chat.CreateConversation)
	rg.GET("/conversations/:id/messages", c.chat.ListMessages)
	rg.POST("/conversations/:id/messages", c.chat.SendMessage)
	rg.GET("/messages/has-new", c.chat.HasNewMessages)

	// 通知
	rg.GET("/notifications", c.notification.ListNotifications)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.PATCH("/notifications/read-all", c.notification.MarkAllRead)
	rg.PATCH("/notifications/:id/read", c.notification.MarkRead)
	rg.DELETE("/notifications/:id", c.notification.Dismiss)
}
