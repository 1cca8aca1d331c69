package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
)

func TestParseApplicationStatus_CanonicalCasing(t *testing.T) {
	cases := map[string]job.ApplicationStatus{
		"Applied":     job.ApplicationApplied,
		"applied":     job.ApplicationApplied,
		"SHORTLISTED": job.ApplicationShortlisted,
		"interviewed": job.ApplicationInterviewed,
		" rejected ":  job.ApplicationRejected,
		"accepted":    job.ApplicationAccepted,
	}
	for input, want := range cases {
		got, err := job.ParseApplicationStatus(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseApplicationStatus_Invalid(t *testing.T) {
	for _, input := range []string{"", "hired", "pending"} {
		_, err := job.ParseApplicationStatus(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, common.Is(err, common.CodeValidation))
	}
}

func TestParseType(t *testing.T) {
	got, err := job.ParseType("remote")
	require.NoError(t, err)
	assert.Equal(t, job.TypeRemote, got)

	got, err = job.ParseType("On-Site")
	require.NoError(t, err)
	assert.Equal(t, job.TypeOnSite, got)

	_, err = job.ParseType("hybrid")
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestParseStatus(t *testing.T) {
	got, err := job.ParseStatus("closed")
	require.NoError(t, err)
	assert.Equal(t, job.StatusClosed, got)

	_, err = job.ParseStatus("archived")
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestApplicationLookups(t *testing.T) {
	seekerID := common.NewUUID()
	appID := common.NewUUID()
	j := job.Job{Applications: []job.Application{{ID: appID, UserID: seekerID, Status: job.ApplicationApplied}}}

	byUser, ok := j.ApplicationByUser(seekerID)
	require.True(t, ok)
	assert.Equal(t, appID, byUser.ID)

	byID, ok := j.ApplicationByID(appID)
	require.True(t, ok)
	assert.Equal(t, seekerID, byID.UserID)

	_, ok = j.ApplicationByUser(common.NewUUID())
	assert.False(t, ok)
}
