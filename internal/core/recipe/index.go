package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// RawRecipe 資料來源中的一列
type RawRecipe struct {
	Title        string
	Ingredients  string
	Instructions string
	ImageRef     string
}

// IndexedRecipe 建立索引後的食譜，建立後不可變
type IndexedRecipe struct {
	Position     int
	Title        string
	Ingredients  []string
	Keywords     []string
	Instructions string
	ImageRef     string

	// 預先計算的比對欄位
	titleLower       string
	ingredientsLower []string
	ingredientsText  string
	keywordsText     string
	titleWords       []string
	ingredientWords  []string
}

// Matchable 食材為空的食譜不參與搜尋與推薦評分
func (r *IndexedRecipe) Matchable() bool {
	return len(r.Ingredients) > 0
}

// View 轉為對外輸出格式
func (r *IndexedRecipe) View() common.RecipeView {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return common.RecipeView{
		Title:        r.Title,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		ImageRef:     r.ImageRef,
	}
}

// ToViews 轉換並截斷結果；limit <= 0 表示不截斷
func ToViews(recipes []*IndexedRecipe, limit int) []common.RecipeView {
	recipes = common.Truncate(recipes, limit)
	views := make([]common.RecipeView, len(recipes))
	for i, r := range recipes {
		views[i] = r.View()
	}
	return views
}

func newIndexedRecipe(pos int, title string, ingredients []string, instructions, imageRef string) *IndexedRecipe {
	lower := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lower[i] = strings.ToLower(ing)
	}
	keywords := KeywordSet(ingredients)
	titleLower := strings.ToLower(title)
	ingredientsText := strings.Join(lower, " ")

	return &IndexedRecipe{
		Position:         pos,
		Title:            title,
		Ingredients:      ingredients,
		Keywords:         keywords,
		Instructions:     instructions,
		ImageRef:         imageRef,
		titleLower:       titleLower,
		ingredientsLower: lower,
		ingredientsText:  ingredientsText,
		keywordsText:     strings.ToLower(strings.Join(keywords, " ")),
		titleWords:       strings.Fields(titleLower),
		ingredientWords:  strings.Fields(ingredientsText),
	}
}

// IndexStats 索引建立統計
type IndexStats struct {
	RowsRead           int `json:"rows_read"`
	Indexed            int `json:"indexed"`
	DroppedNoTitle     int `json:"dropped_no_title"`
	InvalidIngredients int `json:"invalid_ingredients"`
	EmptyIngredients   int `json:"empty_ingredients"`
	MalformedRows      int `json:"malformed_rows"`
}

// Index 不可變的食譜索引，可被多個請求同時讀取
type Index struct {
	recipes     []*IndexedRecipe
	stats       IndexStats
	fingerprint string
}

// NewIndex 由原始資料建立索引。標題為空的列會被丟棄；食材無法解析的列保留但不參與評分。
func NewIndex(rows []RawRecipe) *Index {
	idx := &Index{
		recipes: make([]*IndexedRecipe, 0, len(rows)),
	}
	hash := sha256.New()

	for i, row := range rows {
		idx.stats.RowsRead++
		title := strings.TrimSpace(row.Title)
		if title == "" {
			idx.stats.DroppedNoTitle++
			continue
		}

		ingredients, ok := ParseIngredients(row.Ingredients)
		if !ok {
			idx.stats.InvalidIngredients++
			common.LogWarn("Malformed ingredient list, indexing recipe without ingredients",
				zap.Int("row", i),
				zap.String("title", title),
			)
		}
		if len(ingredients) == 0 {
			idx.stats.EmptyIngredients++
		}

		r := newIndexedRecipe(len(idx.recipes), title, ingredients, row.Instructions, strings.TrimSpace(row.ImageRef))
		idx.recipes = append(idx.recipes, r)

		hash.Write([]byte(title))
		hash.Write([]byte{0})
		for _, ing := range ingredients {
			hash.Write([]byte(ing))
			hash.Write([]byte{0})
		}
		hash.Write([]byte{1})
	}

	idx.stats.Indexed = len(idx.recipes)
	idx.fingerprint = hex.EncodeToString(hash.Sum(nil))[:16]
	return idx
}

// All 依索引順序回傳全部食譜
func (idx *Index) All() []*IndexedRecipe {
	return idx.recipes[:len(idx.recipes):len(idx.recipes)]
}

// First 回傳前 n 筆食譜
func (idx *Index) First(n int) []*IndexedRecipe {
	if n < 0 {
		n = 0
	}
	if n > len(idx.recipes) {
		n = len(idx.recipes)
	}
	return idx.recipes[:n:n]
}

// Get 依位置取得食譜
func (idx *Index) Get(pos int) (*IndexedRecipe, bool) {
	if pos < 0 || pos >= len(idx.recipes) {
		return nil, false
	}
	return idx.recipes[pos], true
}

// Len 食譜總數
func (idx *Index) Len() int {
	return len(idx.recipes)
}

// Stats 建立統計
func (idx *Index) Stats() IndexStats {
	return idx.stats
}

// Fingerprint 索引內容指紋，用於快取鍵
func (idx *Index) Fingerprint() string {
	return idx.fingerprint
}
