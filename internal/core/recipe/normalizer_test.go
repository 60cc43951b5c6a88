package recipe

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"units and quantity", "2 cups all-purpose flour", []string{"all-purpose", "flour"}},
		{"short unit", "1 tsp salt", []string{"salt"}},
		{"mixed fraction and parens", "1 1/2 cups (about 200g) sugar", []string{"sugar"}},
		{"range and descriptor", "2-3 large eggs, beaten", []string{"eggs", "beaten"}},
		{"decimal", "0.5 oz dried porcini mushrooms", []string{"porcini", "mushrooms"}},
		{"duplicates collapse", "salt and salt", []string{"salt", "and"}},
		{"only filler", "1 pinch kosher", nil},
		{"non-ascii digits", "١٢٣٤gram rice", []string{"gram", "rice"}},
		{"plural descriptor kept", "2 tbsp coffee grounds", []string{"coffee", "grounds"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.line))
		})
	}
}

func TestExtractKeywordsProperties(t *testing.T) {
	digits := regexp.MustCompile(`\p{Nd}`)
	lines := []string{
		"2 cups all-purpose flour",
		"1 (14.5-ounce) can diced tomatoes",
		"3/4 lb. ground beef (80/20)",
		"Kosher salt, freshly ground pepper",
		"12 oz. 70% dark chocolate",
		"1½ Tbsp. unsalted butter, divided, plus more",
		"2 large eggs at room temperature",
		"Pinch of cayenne",
		"350°F oven",
		"١٢٣٤gram rice",
		"٢ كوب sugar",
		"   ",
	}

	for _, line := range lines {
		for _, kw := range ExtractKeywords(line) {
			assert.Greater(t, utf8.RuneCountInString(kw), 2, "keyword %q from %q", kw, line)
			assert.False(t, IsStopWord(kw), "stop word %q from %q", kw, line)
			assert.False(t, digits.MatchString(kw), "numeric keyword %q from %q", kw, line)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"cup", "Cups", "tbsp", "lbs", "ounces", "pinches", "tablespoons", "fresh", "unsalted"} {
		assert.True(t, IsStopWord(w), w)
	}
	for _, w := range []string{"cupcake", "flour", "peas", "tomatoes", "grounded", "grounds", "slices", "larges"} {
		assert.False(t, IsStopWord(w), w)
	}
}

func TestKeywordSet(t *testing.T) {
	got := KeywordSet([]string{"2 cups all-purpose flour", "1 tsp salt", "1 cup flour"})

	assert.Equal(t, []string{"all-purpose", "flour", "salt"}, got)
	assert.NotContains(t, got, "cups")
	assert.NotContains(t, got, "tsp")
	assert.NotContains(t, got, "1")
}
