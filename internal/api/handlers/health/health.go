package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context 鍵，由 router 注入
const (
	ConfigKey  = "config"
	ServiceKey = "recipe_service"
	CacheKey   = "cache_store"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Index     *IndexStatus           `json:"index,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// IndexStatus 食譜索引狀態
type IndexStatus struct {
	Recipes     int               `json:"recipes"`
	Fingerprint string            `json:"fingerprint"`
	History     int               `json:"history"`
	Stats       recipe.IndexStats `json:"stats"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := getConfig(c)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response("configuration not found"))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if svc, ok := getService(c); ok {
		idx := svc.Index()
		response.Index = &IndexStatus{
			Recipes:     idx.Len(),
			Fingerprint: idx.Fingerprint(),
			History:     len(svc.History()),
			Stats:       idx.Stats(),
		}
	}

	if store, ok := getCache(c); ok {
		stats := store.Stats()
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：索引載入且非空才算就緒
func ReadinessCheck(c *gin.Context) {
	svc, ok := getService(c)
	if !ok || svc.Index().Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, common.ErrServiceUnavailable.Response("recipe index is empty"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": svc.Index().Len(),
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func getConfig(c *gin.Context) (*config.Config, bool) {
	v, exists := c.Get(ConfigKey)
	if !exists {
		return nil, false
	}
	cfg, ok := v.(*config.Config)
	return cfg, ok && cfg != nil
}

func getService(c *gin.Context) (*recipe.Service, bool) {
	v, exists := c.Get(ServiceKey)
	if !exists {
		return nil, false
	}
	svc, ok := v.(*recipe.Service)
	return svc, ok && svc != nil
}

func getCache(c *gin.Context) (cache.Store, bool) {
	v, exists := c.Get(CacheKey)
	if !exists {
		return nil, false
	}
	store, ok := v.(cache.Store)
	return store, ok && store != nil
}
