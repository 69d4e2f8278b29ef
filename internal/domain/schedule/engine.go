package schedule

import (
	"time"

	"github.com/wordflow/wordflow-api/internal/domain"
)

// advanceItem computes the next scheduling state for a learning item given
// a reported action. It is a pure function: it never mutates the input and
// produces identical output for identical input.
//
// Transition precedence:
//  1. learn_again resets the item to learning at bucket 0 with streak 0.
//  2. mastered moves the item to the mastered table, clamping the bucket
//     into its bounds.
//  3. favorited only sets the flag; the schedule is untouched.
//  4. Anything else is a normal review: the bucket advances one step
//     (capped at the end of the current status's table), and a learning
//     item reaching the promotion bucket moves to reviewing.
//
// Every transition stamps LastReviewedAt and increments ReviewCount.
// Unknown actions take the default branch, so the function is total over
// the action space; the service boundary rejects unrecognized actions
// before they get here.
func advanceItem(
	item *domain.LearningItem,
	action domain.ReportedAction,
	now time.Time,
	intervals *Intervals,
) *domain.LearningItem {
	next := &domain.LearningItem{
		UserID:         item.UserID,
		TermID:         item.TermID,
		Status:         item.Status,
		Bucket:         item.Bucket,
		ReviewCount:    item.ReviewCount,
		EaseFactor:     item.EaseFactor,
		Streak:         item.Streak,
		Favorited:      item.Favorited,
		LastReviewedAt: item.LastReviewedAt,
		NextReviewAt:   item.NextReviewAt,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      now,
	}

	next.LastReviewedAt = now
	next.ReviewCount++

	switch {
	case action == domain.ActionLearnAgain:
		next.Status = domain.ItemStatusLearning
		next.Bucket = 0
		next.Streak = 0
		next.NextReviewAt = reviewDate(now, intervals.Days(next.Status, next.Bucket))

	case action == domain.ActionMastered:
		next.Status = domain.ItemStatusMastered
		if max := intervals.MaxBucket(next.Status); next.Bucket > max {
			next.Bucket = max
		}
		next.Streak++
		next.NextReviewAt = reviewDate(now, intervals.Days(next.Status, next.Bucket))

	case action == domain.ActionFavorited:
		next.Favorited = true
		// Schedule untouched.

	case item.Status == domain.ItemStatusArchived:
		// Archived items are terminal; a stray action only touches the
		// review stamp.

	default:
		if max := intervals.MaxBucket(next.Status); next.Bucket < max {
			next.Bucket++
		}
		next.Streak++
		if next.Status == domain.ItemStatusLearning && next.Bucket >= promotionBucket {
			next.Status = domain.ItemStatusReviewing
		}
		next.NextReviewAt = reviewDate(now, intervals.Days(next.Status, next.Bucket))
	}

	return next
}

// reviewDate returns the next review time for an interval of the given
// number of days.
func reviewDate(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}
