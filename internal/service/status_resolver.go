package service

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/observability"
	"github.com/noah-isme/course-progress-api/internal/repository"
)

// StatusResolver answers point queries about submission and completion
// standing within one course from a snapshot taken at construction. The
// snapshot is immutable, so a built resolver is safe for concurrent readers
// without locking; observing later data changes requires a fresh resolver.
type StatusResolver struct {
	courseID   uint
	submitted  map[models.ActivityKey]struct{}
	completion map[models.ActivityKey]models.CompletionState
}

// NewStatusResolver builds the snapshot for courseID through exactly two bulk
// reads. Either both caches populate fully or construction fails outright; no
// partially loaded resolver is ever returned.
func NewStatusResolver(ctx context.Context, repo repository.ProgressSnapshotRepository, courseID uint) (*StatusResolver, error) {
	start := time.Now()

	keys, err := repo.FindSubmittedActivityKeys(ctx, courseID)
	if err != nil {
		observability.SnapshotBuilds().WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load submitted activity keys: %w", err)
	}

	rows, err := repo.FindCompletionStates(ctx, courseID)
	if err != nil {
		observability.SnapshotBuilds().WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load completion states: %w", err)
	}

	submitted := make(map[models.ActivityKey]struct{}, len(keys))
	for _, key := range keys {
		submitted[key] = struct{}{}
	}

	completion := make(map[models.ActivityKey]models.CompletionState, len(rows))
	for _, row := range rows {
		completion[row.Key()] = models.CompletionStateFromCode(row.State)
	}

	observability.SnapshotBuilds().WithLabelValues("success").Inc()
	observability.SnapshotBuildSeconds().Observe(time.Since(start).Seconds())

	return &StatusResolver{
		courseID:   courseID,
		submitted:  submitted,
		completion: completion,
	}, nil
}

// CourseID returns the course the snapshot was taken for.
func (r *StatusResolver) CourseID() uint {
	return r.courseID
}

// SubmittedCount returns how many (student, module) pairs hold a qualifying
// submission in the snapshot.
func (r *StatusResolver) SubmittedCount() int {
	return len(r.submitted)
}

// CompletionCount returns how many completion entries the snapshot holds.
func (r *StatusResolver) CompletionCount() int {
	return len(r.completion)
}

// IsSubmitted reports whether the student handed in a qualifying submission
// for the module. Keys the snapshot never saw are simply not submitted.
func (r *StatusResolver) IsSubmitted(studentID, moduleID uint) bool {
	_, ok := r.submitted[models.ActivityKey{StudentID: studentID, ModuleID: moduleID}]
	return ok
}

// CompletionState returns the recorded completion state for the pair, or
// CompletionIncomplete when no entry exists.
func (r *StatusResolver) CompletionState(studentID, moduleID uint) models.CompletionState {
	state, ok := r.completion[models.ActivityKey{StudentID: studentID, ModuleID: moduleID}]
	if !ok {
		return models.CompletionIncomplete
	}
	return state
}

// Status resolves both signals into a single code. An engaged completion
// state wins outright: the upstream completion rule already folds the
// submission signal in, together with grading or viewing context this
// service never sees.
func (r *StatusResolver) Status(studentID, moduleID uint) models.ActivityStatus {
	observability.StatusLookups().Inc()

	status := models.StatusNotSubmitted
	if r.IsSubmitted(studentID, moduleID) {
		status = models.StatusSubmitted
	}

	switch r.CompletionState(studentID, moduleID) {
	case models.CompletionComplete:
		status = models.StatusCompleted
	case models.CompletionCompletePass:
		status = models.StatusCompletedPass
	case models.CompletionCompleteFail:
		status = models.StatusCompletedFail
	}

	return status
}
