package services

import "github.com/learnlite/course-platform/internal/models"

// RecomputeProgress derives OverallProgress and IsCompleted from the
// completed sets and the course's current lesson/quiz counts. It is a pure
// function and idempotent; every call site that mutates a completed set must
// invoke it before persisting, rather than relying on a save hook.
//
// A course with no lessons or quizzes yields 0 / not completed: an empty
// course can never be "completed". If content is added after a user reached
// 100%, a later recompute naturally lowers the percentage and clears the
// flag; the aggregator is always correct for the current course state.
func RecomputeProgress(progress *models.Progress, totalLessons, totalQuizzes int) {
	completedLessons := len(progress.CompletedLessons)
	completedQuizzes := len(progress.CompletedQuizzes)

	totalItems := totalLessons + totalQuizzes
	if totalItems == 0 {
		progress.OverallProgress = 0
		progress.IsCompleted = false
		return
	}

	progress.OverallProgress = roundPercent(completedLessons+completedQuizzes, totalItems)
	progress.IsCompleted = completedLessons == totalLessons && completedQuizzes == totalQuizzes
}

// roundPercent computes round-half-up of 100*part/total using integer
// arithmetic so there is no float drift at the .5 boundary.
func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
