package recipe

import (
	"strings"
	"sync"
)

// QueryHistory 只可追加的查詢歷史，由 Service 持有
type QueryHistory struct {
	mu      sync.RWMutex
	queries []string
}

// NewQueryHistory 創建空的查詢歷史
func NewQueryHistory() *QueryHistory {
	return &QueryHistory{}
}

// Record 追加非空白查詢（保留原始字串），回傳是否已記錄
func (h *QueryHistory) Record(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	h.mu.Lock()
	h.queries = append(h.queries, query)
	h.mu.Unlock()
	return true
}

// Snapshot 回傳目前歷史的副本
func (h *QueryHistory) Snapshot() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.queries))
	copy(out, h.queries)
	return out
}

// Len 歷史筆數
func (h *QueryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.queries)
}
