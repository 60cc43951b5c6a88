package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", Version: "test"},
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20},
		Search: config.SearchConfig{Workers: 2, ResponseLimit: 20, RecommendLimit: 12, ListLimit: 50},
		Cache:  config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory, MaxSize: 100, TTL: time.Minute},
	}
}

func testRows() []recipe.RawRecipe {
	rows := []recipe.RawRecipe{
		{Title: "Chicken Curry", Ingredients: `['1 lb chicken thighs', '2 tbsp curry powder', 'salt']`, Instructions: "Simmer."},
		{Title: "Tomato Soup", Ingredients: `['4 large tomatoes', 'salt']`, ImageRef: "tomato-soup"},
	}
	for i := 0; i < 58; i++ {
		rows = append(rows, recipe.RawRecipe{
			Title:       fmt.Sprintf("Salted Snack %d", i),
			Ingredients: `['1 tsp salt', '2 cups crackers']`,
		})
	}
	return rows
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *recipe.Service) {
	t.Helper()
	store := cache.NewManager(cfg.Cache)
	t.Cleanup(func() { _ = store.Close() })

	svc := recipe.NewService(recipe.NewIndex(testRows()),
		recipe.WithWorkers(cfg.Search.Workers),
		recipe.WithResultCache(store, config.CacheBackendMemory),
	)
	return SetupRouter(cfg, svc, store), svc
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSearchTruncatesAndRecordsHistory(t *testing.T) {
	r, svc := newTestRouter(t, testConfig())

	w := perform(r, http.MethodPost, "/search", `{"query": "salt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	views := decode[[]common.RecipeView](t, w)
	assert.Len(t, views, 20)
	assert.Equal(t, []string{"salt"}, svc.History())

	w = perform(r, http.MethodPost, "/search", `{"query": "chicken"}`)
	views = decode[[]common.RecipeView](t, w)
	require.NotEmpty(t, views)
	assert.Equal(t, "Chicken Curry", views[0].Title)
	assert.Equal(t, []string{"1 lb chicken thighs", "2 tbsp curry powder", "salt"}, views[0].Ingredients)
	assert.Equal(t, "Simmer.", views[0].Instructions)
}

func TestSearchWireFormat(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodPost, "/search", `{"query": "tomato"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, key := range []string{`"Title"`, `"parsed_ingredients"`, `"Instructions"`, `"Image_Name":"tomato-soup"`} {
		assert.Contains(t, body, key)
	}
}

func TestSearchBlankQueryListsRecipes(t *testing.T) {
	r, svc := newTestRouter(t, testConfig())

	for _, body := range []string{`{"query": ""}`, `{}`, `{"query": "   "}`} {
		w := perform(r, http.MethodPost, "/search", body)
		require.Equal(t, http.StatusOK, w.Code, body)
		views := decode[[]common.RecipeView](t, w)
		require.Len(t, views, 20)
		assert.Equal(t, "Chicken Curry", views[0].Title)
	}
	assert.Empty(t, svc.History())
}

func TestSearchInvalidBody(t *testing.T) {
	r, svc := newTestRouter(t, testConfig())

	for _, body := range []string{`not json`, `{"query": 42}`, `["salt"]`} {
		w := perform(r, http.MethodPost, "/search", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		resp := decode[common.ErrorResponse](t, w)
		assert.Equal(t, common.ErrCodeInvalidRequest, resp.Code)
	}

	w := perform(r, http.MethodPost, "/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.History())
}

func TestSearchBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	r, _ := newTestRouter(t, cfg)

	w := perform(r, http.MethodPost, "/search", `{"query": "a very long query indeed"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecommendationsReflectHistory(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodGet, "/recommendations", "")
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]common.RecipeView](t, w)
	require.Len(t, views, 12)
	assert.Equal(t, "Chicken Curry", views[0].Title)
	assert.Equal(t, "Tomato Soup", views[1].Title)

	perform(r, http.MethodPost, "/search", `{"query": "tomatoes"}`)
	perform(r, http.MethodGet, "/api/v1/search?q=tomatoes", "")

	w = perform(r, http.MethodGet, "/api/v1/recommendations", "")
	require.Equal(t, http.StatusOK, w.Code)
	views = decode[[]common.RecipeView](t, w)
	require.Len(t, views, 1)
	assert.Equal(t, "Tomato Soup", views[0].Title)
}

func TestHistoryEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[common.HistoryResponse](t, w).Count)

	for _, q := range []string{"one", "salt", "chicken", "salt", "curry", "salt"} {
		perform(r, http.MethodGet, "/api/v1/search?q="+q, "")
	}

	w = perform(r, http.MethodGet, "/api/v1/history", "")
	resp := decode[common.HistoryResponse](t, w)
	assert.Equal(t, 6, resp.Count)
	assert.Equal(t, []string{"salt", "chicken", "salt", "curry", "salt"}, resp.Recent)
	require.NotEmpty(t, resp.TopWords)
	assert.Equal(t, common.WordCount{Word: "salt", Count: 3}, resp.TopWords[0])
}

func TestListRecipes(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	tests := []struct {
		path   string
		status int
		count  int
	}{
		{"/api/v1/recipes", http.StatusOK, 20},
		{"/api/v1/recipes?limit=5", http.StatusOK, 5},
		{"/api/v1/recipes?limit=500", http.StatusOK, 50},
		{"/api/v1/recipes?limit=0", http.StatusBadRequest, 0},
		{"/api/v1/recipes?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := perform(r, http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			resp := decode[common.ListResponse](t, w)
			assert.Equal(t, 60, resp.Total)
			assert.Len(t, resp.Recipes, tt.count)
		})
	}
}

func TestIndexPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Recipe Finder")
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"recipes":60`)
	assert.Contains(t, body, `"backend":"memory"`)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/live", "").Code)

	w = perform(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_index_recipes")
}

func TestReadyWithEmptyIndex(t *testing.T) {
	cfg := testConfig()
	svc := recipe.NewService(recipe.NewIndex(nil))
	r := SetupRouter(cfg, svc, nil)

	assert.Equal(t, http.StatusServiceUnavailable, perform(r, http.MethodGet, "/ready", "").Code)

	w := perform(r, http.MethodPost, "/search", `{"query": "salt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}
	r, _ := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/recommendations", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/recommendations", "").Code)

	w := perform(r, http.MethodGet, "/recommendations", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 健康檢查不受限流影響
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/live", "").Code)
}

func TestNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := perform(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeNotFound, decode[common.ErrorResponse](t, w).Code)
}
