package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/activity-favorites/internal/config"
	"github.com/ignatzorin/activity-favorites/internal/http/handlers"
	"github.com/ignatzorin/activity-favorites/internal/http/middleware"
)

// Handlers собирает хэндлеры, которые монтирует роутер.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Activities *handlers.ActivityHandler
	Favorites  *handlers.FavoriteHandler
	GraphQL    *handlers.GraphQLHandler
	WS         *handlers.WSHandler
	Health     *handlers.HealthHandler
}

func SetupRouter(cfg *config.Config, store limiter.Store, tokens middleware.TokenParser, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(store, "api", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	api.Use(middleware.OptionalAuth(tokens, cfg.AuthCookieName))

	api.POST("/graphql", h.GraphQL.Handle)
	api.GET("/graphql", h.GraphQL.Handle)
	api.GET("/ws", h.WS.Handle)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register",
			middleware.RateLimitMiddleware(store, "register", middleware.RegisterRate.Limit, middleware.RegisterRate.Period),
			h.Auth.Register)
		authGroup.POST("/login",
			middleware.RateLimitMiddleware(store, "login", middleware.LoginRate.Limit, middleware.LoginRate.Period),
			h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Публичный каталог
	api.GET("/activities", h.Activities.List)
	api.GET("/activities/latest", h.Activities.Latest)
	api.GET("/activities/cities", h.Activities.Cities)
	api.GET("/activities/city/:city", h.Activities.ListByCity)
	api.GET("/activities/:id", middleware.UUIDValidator("id"), h.Activities.Get)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens, cfg.AuthCookieName))
	{
		protected.GET("/auth/me", h.Auth.Me)

		protected.GET("/activities/my", h.Activities.ListMine)
		protected.POST("/activities", h.Activities.Create)

		protected.GET("/favorites", h.Favorites.ListFavorites)
		protected.POST("/favorites", h.Favorites.AddFavorite)
		protected.PUT("/favorites/reorder", h.Favorites.Reorder)
		protected.PUT("/favorites/:id/order", middleware.UUIDValidator("id"), h.Favorites.UpdateOrder)
		protected.GET("/favorites/activity/:activityId", middleware.UUIDValidator("activityId"), h.Favorites.CheckFavorite)
		protected.DELETE("/favorites/activity/:activityId", middleware.UUIDValidator("activityId"), h.Favorites.RemoveFavorite)
	}

	return r
}
