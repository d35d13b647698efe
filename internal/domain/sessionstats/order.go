package sessionstats

import (
	"slices"

	"github.com/okian/portal/internal/domain/model"
)

// SortMostRecentFirst returns a copy of sessions ordered by StartTime
// descending. Sessions with equal start times keep their relative order.
func SortMostRecentFirst(sessions []model.TrainingSession) []model.TrainingSession {
	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b model.TrainingSession) int {
		return b.StartTime.Compare(a.StartTime)
	})
	return sorted
}

// IsMostRecentFirst reports whether sessions already satisfy the ordering
// Compute expects.
func IsMostRecentFirst(sessions []model.TrainingSession) bool {
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartTime.After(sessions[i-1].StartTime) {
			return false
		}
	}
	return true
}
