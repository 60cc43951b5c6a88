package common

// RecipeView 對外輸出的食譜格式，欄位名稱沿用前端頁面的約定
type RecipeView struct {
	Title        string   `json:"Title"`
	Ingredients  []string `json:"parsed_ingredients"`
	Instructions string   `json:"Instructions"`
	ImageRef     string   `json:"Image_Name"`
}

// SearchRequest 搜尋請求
type SearchRequest struct {
	Query string `json:"query"`
}

// WordCount 歷史查詢詞頻
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HistoryResponse 查詢歷史摘要
type HistoryResponse struct {
	Count    int         `json:"count"`
	Recent   []string    `json:"recent"`
	TopWords []WordCount `json:"top_words"`
}

// ListResponse 列表響應
type ListResponse struct {
	Total   int          `json:"total"`
	Recipes []RecipeView `json:"recipes"`
}
