package api

import (
	_ "embed"
	"net/http"
	"time"

	"recipe-finder/internal/api/handlers/health"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/cache"
	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexPage []byte

// SetupRouter 設置路由；store 可為 nil（快取停用）
func SetupRouter(cfg *config.Config, svc *recipeService.Service, store cache.Store) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 注入設定與服務供健康檢查使用
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		c.Set(health.ServiceKey, svc)
		if store != nil {
			c.Set(health.CacheKey, store)
		}
		c.Next()
	})

	// 健康檢查與監控路由不限流
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := recipeHandler.NewHandler(svc, cfg.Search)

	limited := router.Group("/")
	if cfg.RateLimit.Enabled {
		limited.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 前端頁面與原有路由
	limited.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	})
	limited.POST("/search", h.HandleSearch)
	limited.GET("/recommendations", h.HandleRecommendations)

	// API 路由組
	v1 := limited.Group("/api/v1")
	{
		v1.GET("/recipes", h.HandleListRecipes)
		v1.GET("/search", h.HandleSearchQuery)
		v1.GET("/recommendations", h.HandleRecommendations)
		v1.GET("/history", h.HandleHistory)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response(c.Request.URL.Path))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Int("recipes", svc.Index().Len()),
		zap.Bool("cache_enabled", store != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
