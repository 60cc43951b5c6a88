package recipe

import (
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// MaxSearchResults 搜尋結果上限
	MaxSearchResults = 50
	// DefaultListingSize 空白查詢時回傳的預設筆數
	DefaultListingSize = 20

	// 主要評分權重
	titleWeight          = 5
	ingredientTextWeight = 3
	ingredientLineWeight = 2
	keywordWeight        = 1

	// 備援評分權重
	fallbackTitleWeight      = 2
	fallbackIngredientWeight = 1

	// 每個 worker 至少處理的食譜數
	minChunkSize = 256
)

// Pass 產生搜尋結果的評分階段
type Pass int

const (
	PassListing Pass = iota
	PassPrimary
	PassFallback
	PassNone
)

func (p Pass) String() string {
	switch p {
	case PassListing:
		return "listing"
	case PassPrimary:
		return "primary"
	case PassFallback:
		return "fallback"
	default:
		return "none"
	}
}

// ScoredResult 單次請求內的評分結果
type ScoredResult struct {
	Recipe *IndexedRecipe
	Score  int
}

type scoreFunc func(r *IndexedRecipe, terms []string) int

// Engine 搜尋與推薦引擎，只讀取不可變的索引
type Engine struct {
	index     *Index
	workers   int
	chunkSize int
}

// NewEngine 創建搜尋引擎；workers <= 1 時依序評分
func NewEngine(index *Index, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{index: index, workers: workers, chunkSize: minChunkSize}
}

// Index 回傳引擎使用的索引
func (e *Engine) Index() *Index {
	return e.index
}

// QueryTerms 將查詢轉小寫並以空白切分，保留重複詞、不保留空字串
func QueryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search 回傳依分數排序的食譜，最多 MaxSearchResults 筆。
// 空白查詢回傳索引中的前 DefaultListingSize 筆。
func (e *Engine) Search(query string) []*IndexedRecipe {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return e.index.First(DefaultListingSize)
	}
	results, _ := e.Rank(terms)
	return recipesOf(results)
}

// Rank 對查詢詞評分。主要評分沒有任何命中時才執行備援評分。
func (e *Engine) Rank(terms []string) ([]ScoredResult, Pass) {
	terms = filterEmpty(terms)
	if len(terms) == 0 {
		return nil, PassNone
	}

	results := e.scoreAll(terms, primaryScore)
	pass := PassPrimary
	if len(results) == 0 {
		results = e.scoreAll(terms, fallbackScore)
		pass = PassFallback
	}
	if len(results) == 0 {
		return nil, PassNone
	}

	sortByScore(results)
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results, pass
}

// primaryScore 標題 +5、食材全文 +3、單一食材行 +2、關鍵字雙向包含 +1
func primaryScore(r *IndexedRecipe, terms []string) int {
	if !r.Matchable() {
		return 0
	}
	score := 0
	for _, term := range terms {
		if strings.Contains(r.titleLower, term) {
			score += titleWeight
		}
		if strings.Contains(r.ingredientsText, term) {
			score += ingredientTextWeight
		}
		for _, ing := range r.ingredientsLower {
			if strings.Contains(ing, term) {
				score += ingredientLineWeight
				break
			}
		}
		for _, kw := range r.Keywords {
			if strings.Contains(kw, term) || strings.Contains(term, kw) {
				score += keywordWeight
				break
			}
		}
	}
	return score
}

// fallbackScore 逐字雙向包含：標題字 +2、食材字 +1，每個命中都累加
func fallbackScore(r *IndexedRecipe, terms []string) int {
	if !r.Matchable() {
		return 0
	}
	score := 0
	for _, term := range terms {
		for _, w := range r.titleWords {
			if strings.Contains(w, term) || strings.Contains(term, w) {
				score += fallbackTitleWeight
			}
		}
		for _, w := range r.ingredientWords {
			if strings.Contains(w, term) || strings.Contains(term, w) {
				score += fallbackIngredientWeight
			}
		}
	}
	return score
}

// scoreAll 將索引切成連續區段平行評分，依區段順序合併以維持索引順序
func (e *Engine) scoreAll(terms []string, fn scoreFunc) []ScoredResult {
	recipes := e.index.All()
	n := len(recipes)
	if n == 0 {
		return nil
	}

	chunks := (n + e.chunkSize - 1) / e.chunkSize
	if chunks > e.workers {
		chunks = e.workers
	}
	if chunks <= 1 {
		return scoreRange(recipes, terms, fn)
	}

	size := (n + chunks - 1) / chunks
	parts := make([][]ScoredResult, chunks)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for c := 0; c < chunks; c++ {
		lo := c * size
		hi := min(lo+size, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			parts[c] = scoreRange(recipes[lo:hi], terms, fn)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	results := make([]ScoredResult, 0, total)
	for _, p := range parts {
		results = append(results, p...)
	}
	return results
}

func scoreRange(recipes []*IndexedRecipe, terms []string, fn scoreFunc) []ScoredResult {
	var out []ScoredResult
	for _, r := range recipes {
		if s := fn(r, terms); s > 0 {
			out = append(out, ScoredResult{Recipe: r, Score: s})
		}
	}
	return out
}

// sortByScore 分數由高到低；同分保留原始順序
func sortByScore(results []ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func recipesOf(results []ScoredResult) []*IndexedRecipe {
	out := make([]*IndexedRecipe, len(results))
	for i, r := range results {
		out[i] = r.Recipe
	}
	return out
}

func filterEmpty(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
