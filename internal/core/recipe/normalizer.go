package recipe

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// 數量：整數、小數、分數、範圍，例如 "1 1/2"、"2-3"、"0.5"（含非 ASCII 數字）
	quantityPattern = regexp.MustCompile(`\p{Nd}+(?:[\s./-]+\p{Nd}+)*`)
	// 括號內的補充說明
	parenPattern = regexp.MustCompile(`\([^)]*\)`)

	// unitWords 度量單位，複數形同樣視為停用詞
	unitWords = map[string]struct{}{
		"cup": {}, "tbsp": {}, "tsp": {}, "oz": {}, "lb": {}, "pound": {}, "ounce": {},
		"tablespoon": {}, "teaspoon": {}, "pinch": {},
	}
	// descriptorWords 描述詞，只比對原形
	descriptorWords = map[string]struct{}{
		"small": {}, "medium": {}, "large": {}, "fresh": {}, "dried": {}, "ground": {},
		"chopped": {}, "sliced": {}, "plus": {}, "divided": {}, "kosher": {}, "unsalted": {},
	}
)

const (
	minKeywordRunes = 3
	trimCutset      = `,;:.!?"'*/-()[]`
)

// IsStopWord 判斷詞是否屬於度量單位（含 cups、ounces、pinches 等複數形）或描述詞
func IsStopWord(word string) bool {
	w := strings.ToLower(word)
	if _, ok := descriptorWords[w]; ok {
		return true
	}
	if _, ok := unitWords[w]; ok {
		return true
	}
	if base, ok := strings.CutSuffix(w, "es"); ok {
		if _, ok := unitWords[base]; ok {
			return true
		}
	}
	if base, ok := strings.CutSuffix(w, "s"); ok {
		if _, ok := unitWords[base]; ok {
			return true
		}
	}
	return false
}

// ExtractKeywords 從單行食材中取出關鍵字，去除數量、單位與描述詞
func ExtractKeywords(line string) []string {
	cleaned := strings.ToLower(line)
	cleaned = quantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = parenPattern.ReplaceAllString(cleaned, " ")

	seen := make(map[string]struct{})
	var keywords []string
	for _, field := range strings.Fields(cleaned) {
		word := strings.Trim(field, trimCutset)
		if !isKeyword(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

func isKeyword(word string) bool {
	if utf8.RuneCountInString(word) < minKeywordRunes {
		return false
	}
	return !IsStopWord(word)
}

// KeywordSet 合併多行食材的關鍵字，回傳排序後的集合
func KeywordSet(lines []string) []string {
	set := make(map[string]struct{})
	for _, line := range lines {
		for _, kw := range ExtractKeywords(line) {
			set[kw] = struct{}{}
		}
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
