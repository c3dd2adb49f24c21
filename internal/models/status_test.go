package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivityStatusFlagsAreDistinctBits(t *testing.T) {
	statuses := []ActivityStatus{
		StatusNotSubmitted,
		StatusSubmitted,
		StatusCompleted,
		StatusCompletedPass,
		StatusCompletedFail,
	}

	seen := ActivityStatus(0)
	for _, status := range statuses {
		require.NotZero(t, status)
		require.Zero(t, status&(status-1), "%v is not a power of two", status)
		require.Zero(t, seen&status, "%v overlaps an earlier flag", status)
		seen |= status
	}
}

func TestActivityStatusHas(t *testing.T) {
	require.True(t, StatusCompleted.Has(AnyCompleted))
	require.True(t, StatusCompletedPass.Has(AnyCompleted))
	require.True(t, StatusCompletedFail.Has(AnyCompleted))
	require.False(t, StatusSubmitted.Has(AnyCompleted))
	require.False(t, StatusNotSubmitted.Has(AnyCompleted))
	require.True(t, StatusSubmitted.Has(StatusNotSubmitted|StatusSubmitted))
}

func TestActivityStatusString(t *testing.T) {
	require.Equal(t, "not_submitted", StatusNotSubmitted.String())
	require.Equal(t, "submitted", StatusSubmitted.String())
	require.Equal(t, "completed", StatusCompleted.String())
	require.Equal(t, "completed_pass", StatusCompletedPass.String())
	require.Equal(t, "completed_fail", StatusCompletedFail.String())
	require.Equal(t, "unknown", ActivityStatus(0).String())
}

func TestCompletionStateFromCode(t *testing.T) {
	require.Equal(t, CompletionComplete, CompletionStateFromCode(1))
	require.Equal(t, CompletionCompletePass, CompletionStateFromCode(2))
	require.Equal(t, CompletionCompleteFail, CompletionStateFromCode(3))
	require.Equal(t, CompletionIncomplete, CompletionStateFromCode(0))
	require.Equal(t, CompletionIncomplete, CompletionStateFromCode(-1))
	require.Equal(t, CompletionIncomplete, CompletionStateFromCode(99))
}
