package recipe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// 測試用索引：
// 0 Tomato Soup, 1 Chicken Curry, 2 Pasta Salad, 3 Mystery Dish (食材無法解析),
// 4 Chicken Soup, 5 Garlic Bread
func sampleRows() []RawRecipe {
	return []RawRecipe{
		{Title: "Tomato Soup", Ingredients: `['4 large tomatoes', '1 onion, chopped', '2 cups vegetable stock']`, Instructions: "Simmer."},
		{Title: "Chicken Curry", Ingredients: `['1 lb chicken thighs', '2 tbsp curry powder', '1 cup coconut milk']`, Instructions: "Stir.", ImageRef: "chicken-curry"},
		{Title: "Pasta Salad", Ingredients: `["8 oz pasta", "1 cup cherry tomatoes", "1/4 cup olive oil"]`},
		{Title: "Mystery Dish", Ingredients: "not a list"},
		{Title: "Chicken Soup", Ingredients: `['1 whole chicken', '2 carrots', '1 onion']`},
		{Title: "Garlic Bread", Ingredients: `['1 baguette', '3 cloves garlic', '4 tbsp butter']`},
	}
}

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex(sampleRows())
	require.Equal(t, 6, idx.Len())
	return idx
}

func titles(recipes []*IndexedRecipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

// generatedRows 產生 n 筆食譜，讓平行評分與截斷能被測到
func generatedRows(n int) []RawRecipe {
	proteins := []string{"chicken", "beef", "tofu", "salmon", "pork", "shrimp"}
	veg := []string{"carrot", "spinach", "tomato", "onion", "pepper", "broccoli", "garlic"}
	dishes := []string{"Soup", "Stew", "Salad", "Curry", "Bake", "Stir Fry"}

	rows := make([]RawRecipe, n)
	for i := 0; i < n; i++ {
		p := proteins[i%len(proteins)]
		v := veg[(i/2)%len(veg)]
		d := dishes[(i/3)%len(dishes)]
		rows[i] = RawRecipe{
			Title: fmt.Sprintf("%s %s %s #%d", p, v, d, i),
			Ingredients: fmt.Sprintf(`['%d cups %s', '1 tbsp olive oil', '2 large %s', 'salt']`,
				i%4+1, v, p),
		}
	}
	return rows
}
