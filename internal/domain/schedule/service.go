package schedule

import (
	"errors"
	"time"

	"github.com/wordflow/wordflow-api/internal/domain"
)

// Common errors
var (
	ErrNilItem = errors.New("learning item cannot be nil")
)

// Service defines the interface for scheduling engine operations.
type Service interface {
	// Advance computes the learning item's next scheduling state for a
	// reported action. The returned item is a new instance; the input is
	// never mutated.
	Advance(
		item *domain.LearningItem,
		action domain.ReportedAction,
		now time.Time,
	) (*domain.LearningItem, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	intervals *Intervals
}

// NewDefaultService creates a scheduling service with the default interval
// tables.
func NewDefaultService() Service {
	return &defaultService{
		intervals: NewDefaultIntervals(),
	}
}

// NewServiceWithIntervals creates a scheduling service with custom interval
// tables.
func NewServiceWithIntervals(intervals *Intervals) Service {
	return &defaultService{
		intervals: intervals,
	}
}

// Advance implements the Service interface.
func (s *defaultService) Advance(
	item *domain.LearningItem,
	action domain.ReportedAction,
	now time.Time,
) (*domain.LearningItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	return advanceItem(item, action, now, s.intervals), nil
}
