package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brightloop/brightloop-backend/internal/handlers"
	"github.com/brightloop/brightloop-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins   []string
	AuthMiddleware   *middleware.AuthMiddleware
	AuthHandler      *handlers.AuthHandler
	ActivityHandler  *handlers.ActivityHandler
	SkillsHandler    *handlers.SkillsHandler
	StandardsHandler *handlers.StandardsHandler
	ProgressHandler  *handlers.ProgressHandler
	PlanHandler      *handlers.PlanHandler
	CreditsHandler   *handlers.CreditsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("brightloop-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.POST("/refresh", cfg.AuthHandler.Refresh)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.POST("/activities", cfg.ActivityHandler.LogActivity)
	protected.GET("/activities", cfg.ActivityHandler.ListActivities)

	protected.POST("/skills/process", cfg.SkillsHandler.ProcessSkills)

	protected.GET("/standards/resolve", cfg.StandardsHandler.Resolve)
	protected.POST("/standards", cfg.StandardsHandler.Create)
	protected.GET("/standards/catalog", cfg.StandardsHandler.Catalog)
	protected.GET("/standards/gaps", cfg.StandardsHandler.Gaps)
	protected.GET("/standards/:id/components", cfg.StandardsHandler.Components)
	protected.POST("/standards/:id/components", cfg.StandardsHandler.AttachComponents)

	protected.POST("/progress", cfg.ProgressHandler.RecordProgress)
	protected.GET("/progress", cfg.ProgressHandler.ListProgress)

	protected.GET("/plan/today", cfg.PlanHandler.TodayPlan)
	protected.GET("/plan/standings", cfg.PlanHandler.Standings)

	protected.GET("/credits", cfg.CreditsHandler.Totals)
	protected.POST("/credits/recompute", cfg.CreditsHandler.Recompute)

	return router
}

// SplitOrigins parses a comma-separated CORS_ALLOWED_ORIGINS value.
func SplitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
