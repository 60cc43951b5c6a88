package recipe

import (
	"sort"
	"strings"

	"recipe-finder/internal/pkg/common"
)

const (
	// MaxRecommendations 推薦結果上限
	MaxRecommendations = 12
	// HistoryWindow 只看最近幾筆查詢
	HistoryWindow = 5
	// TopWordCount 取出現次數最多的幾個詞
	TopWordCount = 5
)

// RecentQueries 回傳最近 HistoryWindow 筆查詢
func RecentQueries(history []string) []string {
	if len(history) <= HistoryWindow {
		return history
	}
	return history[len(history)-HistoryWindow:]
}

// TopWords 統計最近查詢的詞頻，同次數依首次出現順序排列
func TopWords(history []string) []common.WordCount {
	counts := make(map[string]int)
	var order []string
	for _, q := range RecentQueries(history) {
		for _, w := range strings.Fields(strings.ToLower(q)) {
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	words := make([]common.WordCount, len(order))
	for i, w := range order {
		words[i] = common.WordCount{Word: w, Count: counts[w]}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})
	if len(words) > TopWordCount {
		words = words[:TopWordCount]
	}
	return words
}

// Recommend 依查詢歷史推薦食譜，最多 MaxRecommendations 筆。
// 歷史為空時回傳索引中的前 MaxRecommendations 筆。
func (e *Engine) Recommend(history []string) []*IndexedRecipe {
	if len(history) == 0 {
		return e.index.First(MaxRecommendations)
	}

	top := TopWords(history)
	words := make([]string, len(top))
	for i, wc := range top {
		words[i] = wc.Word
	}
	if len(words) == 0 {
		return nil
	}

	results := e.scoreAll(words, recommendScore)
	sortByScore(results)
	if len(results) > MaxRecommendations {
		results = results[:MaxRecommendations]
	}
	return recipesOf(results)
}

// recommendScore 每個高頻詞出現在關鍵字中 +1
func recommendScore(r *IndexedRecipe, words []string) int {
	if len(r.Keywords) == 0 {
		return 0
	}
	score := 0
	for _, w := range words {
		if strings.Contains(r.keywordsText, w) {
			score++
		}
	}
	return score
}
