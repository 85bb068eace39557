package app

import (
	"github.com/gin-gonic/gin"
	"github.com/guilamu/distillpress/internal/middleware"
	"github.com/guilamu/distillpress/internal/modules/ai"
	"github.com/guilamu/distillpress/internal/modules/content/category"
	"github.com/guilamu/distillpress/internal/modules/content/post"
	"github.com/guilamu/distillpress/internal/modules/settings"
	pkgredis "github.com/guilamu/distillpress/internal/pkg/redis"
	"github.com/guilamu/distillpress/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db

	editorMW := middleware.Auth()
	adminMW := middleware.RequireAdmin()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Shared services
	catalogCache := ai.NewCatalogCache(rc)
	usageLog := ai.NewUsageLog(db)
	settingsSvc := settings.NewService(db, catalogCache)

	providers := map[string]ai.Provider{
		settings.ProviderPOE:    ai.NewPOEClient("", catalogCache, usageLog),
		settings.ProviderGemini: ai.NewGeminiClient("", usageLog),
	}
	aiSvc := ai.NewService(db, settingsSvc, providers, usageLog, a.logger)

	api := r.Group(apiPrefix)

	settings.NewHandler(settingsSvc).RegisterRoutes(api, adminMW)
	ai.NewHandler(aiSvc).RegisterRoutes(api, editorMW, adminMW)
	post.NewHandler(post.NewService(db)).RegisterRoutes(api, editorMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, editorMW)
}
