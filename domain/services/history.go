package services

import "lottosim/domain/entities"

// DefaultHistoryLimit is how many trials a simulation keeps
const DefaultHistoryLimit = 500

// History is a fixed-capacity ring of the most recent trials. It is not safe
// for concurrent use; the engine guards it.
type History struct {
	records []entities.TrialRecord
	start   int
	size    int
}

// NewHistory creates a ring holding at most limit records
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{records: make([]entities.TrialRecord, limit)}
}

// Add appends a record, evicting the oldest when full
func (h *History) Add(r entities.TrialRecord) {
	capacity := len(h.records)
	if h.size < capacity {
		h.records[(h.start+h.size)%capacity] = r
		h.size++
		return
	}
	h.records[h.start] = r
	h.start = (h.start + 1) % capacity
}

// Recent returns up to n of the newest records, oldest first. n <= 0 means all.
func (h *History) Recent(n int) []entities.TrialRecord {
	if n <= 0 || n > h.size {
		n = h.size
	}
	out := make([]entities.TrialRecord, n)
	capacity := len(h.records)
	first := h.start + h.size - n
	for i := 0; i < n; i++ {
		out[i] = h.records[(first+i)%capacity]
	}
	return out
}

// Len returns the number of kept records
func (h *History) Len() int {
	return h.size
}

// Cap returns the maximum number of kept records
func (h *History) Cap() int {
	return len(h.records)
}

// Reset drops every record
func (h *History) Reset() {
	clear(h.records)
	h.start = 0
	h.size = 0
}
