package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"recipe-finder/internal/metrics"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ResultCache 搜尋結果快取
type ResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Service 對 HTTP 層提供搜尋、推薦與查詢歷史
type Service struct {
	engine    *Engine
	history   *QueryHistory
	cache     ResultCache
	cacheType string
}

// ServiceOption 服務選項
type ServiceOption func(*Service)

// WithWorkers 設定平行評分的 worker 數
func WithWorkers(n int) ServiceOption {
	return func(s *Service) {
		s.engine = NewEngine(s.engine.index, n)
	}
}

// WithResultCache 啟用搜尋結果快取
func WithResultCache(c ResultCache, cacheType string) ServiceOption {
	return func(s *Service) {
		s.cache = c
		s.cacheType = cacheType
	}
}

// WithHistory 使用既有的查詢歷史
func WithHistory(h *QueryHistory) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// NewService 創建食譜服務
func NewService(index *Index, opts ...ServiceOption) *Service {
	s := &Service{
		engine:  NewEngine(index, 1),
		history: NewQueryHistory(),
	}
	for _, opt := range opts {
		opt(s)
	}

	stats := index.Stats()
	metrics.IndexRecipes.Set(float64(index.Len()))
	metrics.IndexUnmatchable.Set(float64(stats.EmptyIngredients))
	metrics.HistorySize.Set(float64(s.history.Len()))
	return s
}

// Index 回傳食譜索引
func (s *Service) Index() *Index {
	return s.engine.index
}

// Search 記錄非空白查詢後回傳排序結果（最多 MaxSearchResults 筆）
func (s *Service) Search(ctx context.Context, query string) []*IndexedRecipe {
	if s.history.Record(query) {
		metrics.HistorySize.Set(float64(s.history.Len()))
	}

	terms := QueryTerms(query)
	if len(terms) == 0 {
		metrics.SearchesTotal.WithLabelValues(PassListing.String()).Inc()
		return s.engine.index.First(DefaultListingSize)
	}

	key := s.cacheKey(terms)
	if cached, ok := s.cachedSearch(ctx, key); ok {
		return cached
	}

	start := time.Now()
	results, pass := s.engine.Rank(terms)
	elapsed := time.Since(start)

	metrics.SearchesTotal.WithLabelValues(pass.String()).Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	metrics.SearchResults.Observe(float64(len(results)))

	common.LogDebug("Search ranked",
		zap.Strings("terms", terms),
		zap.String("pass", pass.String()),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", elapsed),
	)

	recipes := recipesOf(results)
	s.storeSearch(ctx, key, recipes)
	return recipes
}

// Recommend 依目前的查詢歷史推薦食譜，不修改任何狀態
func (s *Service) Recommend(ctx context.Context) []*IndexedRecipe {
	history := s.history.Snapshot()
	source := "history"
	if len(history) == 0 {
		source = "default"
	}
	metrics.RecommendationsTotal.WithLabelValues(source).Inc()
	return s.engine.Recommend(history)
}

// Listing 依索引順序回傳前 n 筆
func (s *Service) Listing(n int) []*IndexedRecipe {
	return s.engine.index.First(n)
}

// History 查詢歷史副本
func (s *Service) History() []string {
	return s.history.Snapshot()
}

// TopWords 最近查詢中的高頻詞
func (s *Service) TopWords() []common.WordCount {
	return TopWords(s.history.Snapshot())
}

// cacheKey 以索引指紋與正規化後的查詢詞組成
func (s *Service) cacheKey(terms []string) string {
	sum := sha256.Sum256([]byte(strings.Join(terms, " ")))
	return "search:" + s.engine.index.Fingerprint() + ":" + hex.EncodeToString(sum[:])
}

func (s *Service) cachedSearch(ctx context.Context, key string) ([]*IndexedRecipe, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			metrics.CacheErrors.WithLabelValues(s.cacheType, "get").Inc()
			common.LogWarn("Result cache lookup failed", zap.Error(err))
		}
		metrics.CacheMisses.WithLabelValues(s.cacheType).Inc()
		common.LogCacheMiss(s.cacheType, key)
		return nil, false
	}

	var positions []int
	if err := common.ParseJSON(raw, &positions); err != nil {
		metrics.CacheErrors.WithLabelValues(s.cacheType, "decode").Inc()
		common.LogWarn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	recipes := make([]*IndexedRecipe, 0, len(positions))
	for _, pos := range positions {
		r, ok := s.engine.index.Get(pos)
		if !ok {
			metrics.CacheErrors.WithLabelValues(s.cacheType, "decode").Inc()
			return nil, false
		}
		recipes = append(recipes, r)
	}

	metrics.CacheHits.WithLabelValues(s.cacheType).Inc()
	common.LogCacheHit(s.cacheType, key)
	return recipes, true
}

func (s *Service) storeSearch(ctx context.Context, key string, recipes []*IndexedRecipe) {
	if s.cache == nil {
		return
	}

	positions := make([]int, len(recipes))
	for i, r := range recipes {
		positions[i] = r.Position
	}
	value, err := common.ToJSON(positions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		metrics.CacheErrors.WithLabelValues(s.cacheType, "set").Inc()
		common.LogWarn("Result cache store failed", zap.Error(err))
	}
}
