package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-finder/internal/pkg/common"
)

// ParseIngredients 解析資料來源中的食材清單字串。
// 支援 JSON 陣列以及單/雙引號混用的 Python 串列字面值，例如 ['1 cup flour', "baker's yeast"]。
// 空白或 nan 視為空清單；無法解析時回傳空清單與 ok=false，不會中斷整批載入。
func ParseIngredients(raw string) (items []string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return []string{}, true
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return []string{}, false
	}

	var decoded []interface{}
	if err := common.ParseJSON(s, &decoded); err == nil {
		return stringifyItems(decoded), true
	}

	items, err := scanListLiteral(s)
	if err != nil {
		return []string{}, false
	}
	return items, true
}

func stringifyItems(values []interface{}) []string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			items = append(items, t)
		default:
			items = append(items, fmt.Sprint(t))
		}
	}
	return items
}

// scanListLiteral 掃描 Python 風格的串列字面值
func scanListLiteral(s string) ([]string, error) {
	sc := listScanner{src: []rune(s)}
	return sc.scan()
}

type listScanner struct {
	src []rune
	pos int
}

func (sc *listScanner) scan() ([]string, error) {
	items := []string{}
	if !sc.consume('[') {
		return nil, fmt.Errorf("expected '[' at %d", sc.pos)
	}
	sc.skipSpace()
	if sc.consume(']') {
		return items, sc.expectEnd()
	}

	for {
		sc.skipSpace()
		item, keep, err := sc.item()
		if err != nil {
			return nil, err
		}
		if keep {
			items = append(items, item)
		}
		sc.skipSpace()
		switch {
		case sc.consume(','):
			sc.skipSpace()
			// 允許結尾逗號
			if sc.consume(']') {
				return items, sc.expectEnd()
			}
		case sc.consume(']'):
			return items, sc.expectEnd()
		default:
			return nil, fmt.Errorf("unexpected character at %d", sc.pos)
		}
	}
}

// item 讀取一個元素；keep=false 表示 None
func (sc *listScanner) item() (text string, keep bool, err error) {
	if sc.pos >= len(sc.src) {
		return "", false, fmt.Errorf("unexpected end of input")
	}
	quote := sc.src[sc.pos]
	if quote != '\'' && quote != '"' {
		return sc.bare()
	}
	sc.pos++

	var b strings.Builder
	for sc.pos < len(sc.src) {
		r := sc.src[sc.pos]
		sc.pos++
		switch r {
		case '\\':
			if sc.pos >= len(sc.src) {
				return "", false, fmt.Errorf("dangling escape")
			}
			esc := sc.src[sc.pos]
			sc.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
		case quote:
			return b.String(), true, nil
		default:
			b.WriteRune(r)
		}
	}
	return "", false, fmt.Errorf("unterminated string")
}

// bare 讀取未加引號的元素，只接受數字、None、True、False
func (sc *listScanner) bare() (string, bool, error) {
	start := sc.pos
	for sc.pos < len(sc.src) && sc.src[sc.pos] != ',' && sc.src[sc.pos] != ']' {
		sc.pos++
	}
	text := strings.TrimSpace(string(sc.src[start:sc.pos]))
	switch text {
	case "None":
		return "", false, nil
	case "True", "False":
		return text, true, nil
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return "", false, fmt.Errorf("unquoted item %q at %d", text, start)
	}
	return text, true, nil
}

func (sc *listScanner) consume(r rune) bool {
	if sc.pos < len(sc.src) && sc.src[sc.pos] == r {
		sc.pos++
		return true
	}
	return false
}

func (sc *listScanner) skipSpace() {
	for sc.pos < len(sc.src) && strings.ContainsRune(" \t\r\n", sc.src[sc.pos]) {
		sc.pos++
	}
}

func (sc *listScanner) expectEnd() error {
	sc.skipSpace()
	if sc.pos != len(sc.src) {
		return fmt.Errorf("trailing data at %d", sc.pos)
	}
	return nil
}
