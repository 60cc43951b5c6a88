package recipe

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
	limits  config.SearchConfig
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service, limits config.SearchConfig) *Handler {
	return &Handler{
		service: service,
		limits:  limits,
	}
}

// HandleSearch POST /search，請求體 {"query": "..."}
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := getRequestID(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, common.ErrRequestTooLarge.Response(""))
			return
		}
		common.LogError("讀取請求失敗", zap.Error(err), zap.String("request_id", requestID))
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(err.Error()))
		return
	}

	var req common.SearchRequest
	if err := common.ParseJSONBytes(body, &req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response("body must be a JSON object like {\"query\": \"...\"}"))
		return
	}

	h.respondSearch(c, requestID, req.Query)
}

// HandleSearchQuery GET /api/v1/search?q=...
func (h *Handler) HandleSearchQuery(c *gin.Context) {
	h.respondSearch(c, getRequestID(c), c.Query("q"))
}

func (h *Handler) respondSearch(c *gin.Context, requestID, query string) {
	results := h.service.Search(c.Request.Context(), query)

	common.LogDebug("搜尋完成",
		zap.String("request_id", requestID),
		zap.String("query", query),
		zap.Int("matches", len(results)),
	)

	c.JSON(http.StatusOK, recipeService.ToViews(results, h.limits.ResponseLimit))
}

// HandleRecommendations GET /recommendations
func (h *Handler) HandleRecommendations(c *gin.Context) {
	results := h.service.Recommend(c.Request.Context())

	common.LogDebug("推薦完成",
		zap.String("request_id", getRequestID(c)),
		zap.Int("count", len(results)),
	)

	c.JSON(http.StatusOK, recipeService.ToViews(results, h.limits.RecommendLimit))
}

// HandleListRecipes GET /api/v1/recipes?limit=n
func (h *Handler) HandleListRecipes(c *gin.Context) {
	limit := h.limits.ResponseLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response("limit must be a positive integer"))
			return
		}
		limit = min(n, h.limits.ListLimit)
	}

	recipes := h.service.Listing(limit)
	c.JSON(http.StatusOK, common.ListResponse{
		Total:   h.service.Index().Len(),
		Recipes: recipeService.ToViews(recipes, 0),
	})
}

// HandleHistory GET /api/v1/history
func (h *Handler) HandleHistory(c *gin.Context) {
	history := h.service.History()
	recent := recipeService.RecentQueries(history)

	c.JSON(http.StatusOK, common.HistoryResponse{
		Count:    len(history),
		Recent:   recent,
		TopWords: recipeService.TopWords(history),
	})
}

// getRequestID 取得 requestid 中間件產生的 ID，沒有時自行產生
func getRequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}
