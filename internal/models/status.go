package models

// ActivityKey identifies one student's relationship to one course module.
// It is comparable and is used directly as a map key by the snapshot caches,
// so the same key always addresses the same (student, module) pair in both.
type ActivityKey struct {
	StudentID uint
	ModuleID  uint
}

// CompletionState mirrors the numeric completion codes recorded by the
// completion tracking store: 0 incomplete, 1 complete, 2 complete with a
// passing grade, 3 complete with a failing grade.
type CompletionState int

// Completion states as persisted by the completion tracking store.
const (
	CompletionIncomplete   CompletionState = 0
	CompletionComplete     CompletionState = 1
	CompletionCompletePass CompletionState = 2
	CompletionCompleteFail CompletionState = 3
)

// CompletionStateFromCode maps a raw store code onto a CompletionState.
// Codes this service does not recognise fold to CompletionIncomplete so that
// new codes introduced upstream never break a lookup.
func CompletionStateFromCode(code int) CompletionState {
	switch CompletionState(code) {
	case CompletionComplete, CompletionCompletePass, CompletionCompleteFail:
		return CompletionState(code)
	default:
		return CompletionIncomplete
	}
}

func (s CompletionState) String() string {
	switch s {
	case CompletionComplete:
		return "complete"
	case CompletionCompletePass:
		return "complete_pass"
	case CompletionCompleteFail:
		return "complete_fail"
	default:
		return "incomplete"
	}
}

// ActivityStatus is the resolved standing of one student on one course
// module. Values are distinct bit flags so callers can test a group of
// statuses with a single mask, e.g. StatusCompleted|StatusCompletedPass.
type ActivityStatus int

// Resolved activity statuses, ordered by priority of resolution.
const (
	StatusNotSubmitted  ActivityStatus = 1 << iota // no qualifying submission, no completion
	StatusSubmitted                                // qualifying submission, completion still open
	StatusCompleted                                // completion recorded without a pass/fail verdict
	StatusCompletedPass                            // completion recorded with a passing grade
	StatusCompletedFail                            // completion recorded with a failing grade
)

// AnyCompleted matches every completion variant.
const AnyCompleted = StatusCompleted | StatusCompletedPass | StatusCompletedFail

// Has reports whether the status matches any flag in mask.
func (s ActivityStatus) Has(mask ActivityStatus) bool {
	return s&mask != 0
}

func (s ActivityStatus) String() string {
	switch s {
	case StatusNotSubmitted:
		return "not_submitted"
	case StatusSubmitted:
		return "submitted"
	case StatusCompleted:
		return "completed"
	case StatusCompletedPass:
		return "completed_pass"
	case StatusCompletedFail:
		return "completed_fail"
	default:
		return "unknown"
	}
}
