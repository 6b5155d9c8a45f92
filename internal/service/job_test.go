package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

// addCV stores an accepted CV for the given user and returns its ID.
func addCV(t *testing.T, user model.User, fileName string) uint {
	t.Helper()
	id, err := NewCVService(testDB).Add(user.ID, fileName, 85, []string{"Quantify achievements"}, []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	return id
}

func futureDate() time.Time {
	return time.Now().AddDate(0, 1, 0)
}

func TestPostJob(t *testing.T) {
	jobs := NewJobService(testDB)

	job, err := jobs.Post(database.TestHRApproved.ID, model.EditableJobInfo{
		Title:           "Platform Engineer",
		Description:     "Keep the lights on.",
		Skills:          "Go,Kubernetes",
		LastDateToApply: futureDate(),
	})
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
	// Company name snapshots from the posting account
	assert.Equal(t, *database.TestHRApproved.CompanyName, job.CompanyName)
	assert.Equal(t, database.TestHRApproved.ID, job.HRID)
}

func TestPostJobUnapprovedHR(t *testing.T) {
	_, err := NewJobService(testDB).Post(database.TestHRPending.ID, model.EditableJobInfo{
		Title:           "Never Posted",
		LastDateToApply: futureDate(),
	})
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestPostJobMissingCompanyName(t *testing.T) {
	hr := registerHR(t, "svc_hr_no_company", nil, true)

	_, err := NewJobService(testDB).Post(hr.ID, model.EditableJobInfo{
		Title:           "Never Posted",
		LastDateToApply: futureDate(),
	})
	assert.ErrorIs(t, err, ErrCompanyNameMissing)
}

func TestPostJobPastDate(t *testing.T) {
	_, err := NewJobService(testDB).Post(database.TestHRApproved.ID, model.EditableJobInfo{
		Title:           "Never Posted",
		LastDateToApply: time.Now().AddDate(0, 0, -2),
	})
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestApplyTwice(t *testing.T) {
	jobs := NewJobService(testDB)
	applicant := registerApplicant(t, "svc_apply_twice")
	cvID := addCV(t, applicant, "twice.pdf")

	resume, err := jobs.Apply(database.TestJob1.ID, applicant.ID, cvID, applicant.FullName)
	require.NoError(t, err)
	assert.NotZero(t, resume.ID)
	assert.Equal(t, applicant.FullName, resume.CandidateName)

	_, err = jobs.Apply(database.TestJob1.ID, applicant.ID, cvID, applicant.FullName)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	// The rejected attempt must leave exactly one marker and one submission
	var markers int64
	require.NoError(t, testDB.Model(&model.AppliedJob{}).
		Where("user_id = ? AND job_id = ?", applicant.ID, database.TestJob1.ID).
		Count(&markers).Error)
	assert.EqualValues(t, 1, markers)

	rows, err := jobs.ResumesForJob(database.TestJob1.ID)
	require.NoError(t, err)
	mine := 0
	for _, r := range rows {
		if r.UserID == applicant.ID {
			mine++
			assert.Equal(t, "twice.pdf", r.FileName)
		}
	}
	assert.Equal(t, 1, mine)
}

func TestApplyWithForeignCV(t *testing.T) {
	applicant := registerApplicant(t, "svc_apply_foreign_cv")

	_, err := NewJobService(testDB).Apply(database.TestJob1.ID, applicant.ID, database.TestCV1.ID, applicant.FullName)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyUnknownJob(t *testing.T) {
	applicant := registerApplicant(t, "svc_apply_no_job")
	cvID := addCV(t, applicant, "nojob.pdf")

	_, err := NewJobService(testDB).Apply(999999, applicant.ID, cvID, applicant.FullName)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAvailableExcludesApplied(t *testing.T) {
	jobs := NewJobService(testDB)
	applicant := registerApplicant(t, "svc_list_available")
	cvID := addCV(t, applicant, "avail.pdf")

	_, err := jobs.Apply(database.TestJob2.ID, applicant.ID, cvID, applicant.FullName)
	require.NoError(t, err)

	available, err := jobs.ListAvailable(applicant.ID)
	require.NoError(t, err)

	for _, j := range available {
		assert.NotEqual(t, database.TestJob2.ID, j.ID, "applied job still listed")
	}
	// Soonest closing date first
	for i := 1; i < len(available); i++ {
		assert.False(t, available[i].LastDateToApply.Before(available[i-1].LastDateToApply),
			"jobs out of order at index %d", i)
	}

	applied, err := jobs.AppliedJobs(applicant.ID)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, database.TestJob2.ID, applied[0].ID)
	assert.False(t, applied[0].AppliedAt.IsZero())
}

func TestEvaluateResume(t *testing.T) {
	jobs := NewJobService(testDB)
	applicant := registerApplicant(t, "svc_evaluate")
	cvID := addCV(t, applicant, "eval.pdf")

	resume, err := jobs.Apply(database.TestJob3.ID, applicant.ID, cvID, applicant.FullName)
	require.NoError(t, err)

	require.NoError(t, jobs.Evaluate(resume.ID, 82, "Solid backend experience", true))

	selected, err := jobs.SelectedResumesForJob(database.TestJob3.ID)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, resume.ID, selected[0].ID)
	require.NotNil(t, selected[0].EvaluationScore)
	assert.Equal(t, 82, *selected[0].EvaluationScore)
	require.NotNil(t, selected[0].EvaluationComments)
	assert.Equal(t, "Solid backend experience", *selected[0].EvaluationComments)

	// Re-evaluating flips the selection off again
	require.NoError(t, jobs.Evaluate(resume.ID, 55, "On second look, too junior", false))
	selected, err = jobs.SelectedResumesForJob(database.TestJob3.ID)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestEvaluateUnknownResume(t *testing.T) {
	err := NewJobService(testDB).Evaluate(999999, 50, "", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageAndInbox(t *testing.T) {
	jobs := NewJobService(testDB)
	candidate := registerApplicant(t, "svc_inbox")

	err := jobs.SendMessage(database.TestHRApproved.ID, candidate.ID, database.TestJob1.ID,
		"We'd like to schedule an interview next week.")
	require.NoError(t, err)

	inbox, err := jobs.MessagesForCandidate(candidate.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "We'd like to schedule an interview next week.", inbox[0].Message)
	assert.Equal(t, database.TestHRApproved.FullName, inbox[0].HRName)
	assert.Equal(t, database.TestJob1.Title, inbox[0].JobTitle)
	assert.False(t, inbox[0].SentAt.IsZero())
}

func TestSendMessageUnknownJob(t *testing.T) {
	candidate := registerApplicant(t, "svc_msg_no_job")
	err := NewJobService(testDB).SendMessage(database.TestHRApproved.ID, candidate.ID, 999999, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteJobCascades(t *testing.T) {
	jobs := NewJobService(testDB)
	applicant := registerApplicant(t, "svc_job_cascade")
	cvID := addCV(t, applicant, "cascade.pdf")

	job, err := jobs.Post(database.TestHRApproved.ID, model.EditableJobInfo{
		Title:           "Short Lived Role",
		Description:     "desc",
		Skills:          "skills",
		LastDateToApply: futureDate(),
	})
	require.NoError(t, err)

	_, err = jobs.Apply(job.ID, applicant.ID, cvID, applicant.FullName)
	require.NoError(t, err)

	require.NoError(t, jobs.Delete(job.ID))

	_, err = jobs.GetByID(job.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var markers int64
	require.NoError(t, testDB.Model(&model.AppliedJob{}).Where("job_id = ?", job.ID).Count(&markers).Error)
	assert.Zero(t, markers)

	rows, err := jobs.ResumesForJob(job.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteUnknownJob(t *testing.T) {
	err := NewJobService(testDB).Delete(999999)
	assert.ErrorIs(t, err, ErrNotFound)
}
