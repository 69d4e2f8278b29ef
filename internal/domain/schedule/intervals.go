package schedule

import (
	"github.com/wordflow/wordflow-api/internal/domain"
)

// Intervals holds the review interval tables, in days, indexed by bucket
// and keyed by item status. Modeling the tables as a typed lookup keeps the
// bucket/interval relationship in one place instead of scattering it across
// conditionals.
type Intervals struct {
	tables map[domain.ItemStatus][]int
}

// Bucket index at which a learning item is promoted to reviewing.
const promotionBucket = 3

// NewDefaultIntervals creates the standard interval tables.
func NewDefaultIntervals() *Intervals {
	return &Intervals{
		tables: map[domain.ItemStatus][]int{
			domain.ItemStatusLearning:  {1, 3, 7, 14, 30},
			domain.ItemStatusReviewing: {7, 14, 30, 90},
			domain.ItemStatusMastered:  {180, 365},
		},
	}
}

// NewIntervals creates interval tables from the given per-status day lists.
// Statuses without an entry fall back to the learning table.
func NewIntervals(tables map[domain.ItemStatus][]int) *Intervals {
	merged := NewDefaultIntervals()
	for status, days := range tables {
		if len(days) > 0 {
			merged.tables[status] = days
		}
	}
	return merged
}

// Table returns the interval table for the given status. Statuses without
// their own table (archived included) use the learning table so lookups are
// always defined.
func (iv *Intervals) Table(status domain.ItemStatus) []int {
	if table, ok := iv.tables[status]; ok {
		return table
	}
	return iv.tables[domain.ItemStatusLearning]
}

// MaxBucket returns the highest valid bucket index for the given status.
func (iv *Intervals) MaxBucket(status domain.ItemStatus) int {
	return len(iv.Table(status)) - 1
}

// Days returns the interval, in days, for the given status and bucket.
// Buckets beyond the end of the table are clamped to the last entry.
func (iv *Intervals) Days(status domain.ItemStatus, bucket int) int {
	table := iv.Table(status)
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(table) {
		bucket = len(table) - 1
	}
	return table[bucket]
}
