package recipe

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 資料來源欄位名稱（不分大小寫），依優先順序
var (
	titleColumns       = []string{"title"}
	ingredientColumns  = []string{"cleaned_ingredients", "ingredients"}
	instructionColumns = []string{"instructions"}
	imageColumns       = []string{"image_name", "image"}
)

// Loader 讀取 CSV 食譜資料並建立索引
type Loader struct {
	client *resty.Client
}

// NewLoader 創建新的載入器，fetchTimeout 用於遠端來源
func NewLoader(fetchTimeout time.Duration) *Loader {
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "text/csv, text/plain, */*")
	return &Loader{client: client}
}

// LoadIndex 以預設設定載入索引
func LoadIndex(ctx context.Context, source string) (*Index, error) {
	return NewLoader(60*time.Second).Load(ctx, source)
}

// Load 從本地路徑或 http(s) URL 載入並建立索引。
// 單列資料錯誤只記錄警告；來源無法讀取或缺少標題欄位時回傳錯誤。
func (l *Loader) Load(ctx context.Context, source string) (*Index, error) {
	start := time.Now()

	body, err := l.open(ctx, source)
	if err != nil {
		return nil, common.ErrIndexLoad.Wrap(err)
	}
	defer body.Close()

	rows, malformed, err := ReadRows(body)
	if err != nil {
		return nil, common.ErrIndexLoad.Wrap(fmt.Errorf("%s: %w", source, err))
	}

	idx := NewIndex(rows)
	idx.stats.MalformedRows = malformed

	stats := idx.Stats()
	common.LogInfo("Recipe index loaded",
		zap.String("source", source),
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("indexed", stats.Indexed),
		zap.Int("dropped_no_title", stats.DroppedNoTitle),
		zap.Int("invalid_ingredients", stats.InvalidIngredients),
		zap.Int("malformed_rows", stats.MalformedRows),
		zap.String("fingerprint", idx.Fingerprint()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return idx, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isRemote(source) {
		resp, err := l.client.R().SetContext(ctx).Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("failed to fetch %s: status %d", source, resp.StatusCode())
		}
		return io.NopCloser(bytes.NewReader(resp.Body())), nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe source: %w", err)
	}
	return f, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ReadRows 解析 CSV，回傳資料列與格式錯誤而略過的列數
func ReadRows(r io.Reader) ([]RawRecipe, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("empty recipe source")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	cols := columnIndex(header)
	titleCol := findColumn(cols, titleColumns)
	if titleCol < 0 {
		return nil, 0, fmt.Errorf("missing title column in header %v", header)
	}
	ingCol := findColumn(cols, ingredientColumns)
	instCol := findColumn(cols, instructionColumns)
	imgCol := findColumn(cols, imageColumns)

	var (
		rows      []RawRecipe
		malformed int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				malformed++
				common.LogWarn("Skipping malformed CSV row",
					zap.Int("line", parseErr.Line),
					zap.Error(parseErr.Err),
				)
				continue
			}
			return nil, malformed, fmt.Errorf("failed to read recipe rows: %w", err)
		}

		rows = append(rows, RawRecipe{
			Title:        field(record, titleCol),
			Ingredients:  field(record, ingCol),
			Instructions: field(record, instCol),
			ImageRef:     field(record, imgCol),
		})
	}

	return rows, malformed, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

func findColumn(cols map[string]int, names []string) int {
	for _, name := range names {
		if i, ok := cols[name]; ok {
			return i
		}
	}
	return -1
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	v := record[col]
	if strings.EqualFold(strings.TrimSpace(v), "nan") {
		return ""
	}
	return v
}
