package hub

import (
	"sync"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

// History is a bounded in-memory buffer of the most recent records, oldest
// evicted first. It is safe for concurrent use: the hub loop appends while
// HTTP handlers snapshot.
type History struct {
	mu      sync.RWMutex
	records []models.LogRecord
	limit   int
}

// NewHistory creates a history keeping at most limit records.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		records: make([]models.LogRecord, 0, limit),
		limit:   limit,
	}
}

// Add appends a record, evicting the oldest once the cap is reached.
func (h *History) Add(record models.LogRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) == h.limit {
		copy(h.records, h.records[1:])
		h.records[len(h.records)-1] = record
		return
	}
	h.records = append(h.records, record)
}

// Recent returns a copy of the buffered records in arrival order.
func (h *History) Recent() []models.LogRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.LogRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of buffered records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
