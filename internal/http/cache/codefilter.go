package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeFilter sits in front of the redirect path and answers "definitely not a
// known code" without touching the store. False positives fall through to the
// repository lookup; false negatives cannot happen as long as every created
// code is added.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter sizes the filter for the expected number of codes at the given
// false positive rate.
func NewCodeFilter(expectedCodes uint, falsePositiveRate float64) *CodeFilter {
	return &CodeFilter{
		filter: bloom.NewWithEstimates(expectedCodes, falsePositiveRate),
	}
}

// Add records a newly created code.
func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}

// MightContain reports whether code could be known. False means certainly unknown.
func (f *CodeFilter) MightContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}

// Warm loads every existing short code from the store so restarts do not turn
// live links into bloom misses.
func (f *CodeFilter) Warm(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	rows, err := pool.Query(ctx, "SELECT short_code FROM short_links")
	if err != nil {
		return 0, fmt.Errorf("codefilter: scan codes: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return n, fmt.Errorf("codefilter: scan row: %w", err)
		}
		f.Add(code)
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("codefilter: iterate rows: %w", err)
	}
	return n, nil
}
