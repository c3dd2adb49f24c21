package models

import "time"

// Quiz attempt states. Finished and abandoned attempts both qualify a key
// for the submitted set; attempts still in progress do not.
const (
	QuizAttemptInProgress = "inprogress"
	QuizAttemptFinished   = "finished"
	QuizAttemptAbandoned  = "abandoned"
)

// QuizAttempt is one run a student made at a quiz module.
type QuizAttempt struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ModuleID   uint       `gorm:"not null;index" json:"module_id"`
	StudentID  uint       `gorm:"not null;index" json:"student_id"`
	Attempt    int        `gorm:"not null;default:1" json:"attempt"`
	State      string     `gorm:"size:32;not null" json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// Counts reports whether the attempt qualifies as a submission.
func (a QuizAttempt) Counts() bool {
	return a.State == QuizAttemptFinished || a.State == QuizAttemptAbandoned
}
