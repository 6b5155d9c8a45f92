package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

func TestAddCVRejectsBelowGate(t *testing.T) {
	cvs := NewCVService(testDB)
	applicant := registerApplicant(t, "svc_cv_low")

	_, err := cvs.Add(applicant.ID, "low.pdf", 65, []string{"Use stronger action verbs"}, []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrScoreTooLow)

	// A rejected CV is never stored
	list, err := cvs.List(applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddCVAcceptsExactGate(t *testing.T) {
	cvs := NewCVService(testDB)
	applicant := registerApplicant(t, "svc_cv_exact")

	id, err := cvs.Add(applicant.ID, "exact.pdf", MinAcceptedScore, nil, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	cv, err := cvs.Get(id)
	require.NoError(t, err)
	assert.EqualValues(t, MinAcceptedScore, cv.ATSScore)
}

func TestListCVsOmitsPayload(t *testing.T) {
	cvs := NewCVService(testDB)
	applicant := registerApplicant(t, "svc_cv_list")

	first, err := cvs.Add(applicant.ID, "first.pdf", 75, []string{"Trim to two pages"}, []byte("%PDF-1.4 one"))
	require.NoError(t, err)
	second, err := cvs.Add(applicant.ID, "second.pdf", 90, nil, []byte("%PDF-1.4 two"))
	require.NoError(t, err)

	list, err := cvs.List(applicant.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := []uint{list[0].ID, list[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	for _, row := range list {
		assert.NotEmpty(t, row.FileName)
		assert.False(t, row.UploadDate.IsZero())
	}
}

func TestGetOwnedWrongUser(t *testing.T) {
	applicant := registerApplicant(t, "svc_cv_not_mine")

	_, err := NewCVService(testDB).GetOwned(database.TestCV1.ID, applicant.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOwnedRoundTrip(t *testing.T) {
	cvs := NewCVService(testDB)

	cv, err := cvs.GetOwned(database.TestCV1.ID, database.TestApplicant1.ID)
	require.NoError(t, err)
	assert.Equal(t, database.TestCV1.FileName, cv.FileName)
	assert.Equal(t, []byte(database.TestCV1.Data), cv.Data)
	assert.EqualValues(t, database.TestCV1.Recommendations, cv.Recommendations)
}

func TestDeleteCVNotOwner(t *testing.T) {
	applicant := registerApplicant(t, "svc_cv_del_foreign")

	err := NewCVService(testDB).Delete(database.TestCV1.ID, applicant.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The row survives the foreign delete attempt
	var count int64
	require.NoError(t, testDB.Model(&model.UserCV{}).Where("id = ?", database.TestCV1.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteCV(t *testing.T) {
	cvs := NewCVService(testDB)
	applicant := registerApplicant(t, "svc_cv_delete")

	id, err := cvs.Add(applicant.ID, "gone.pdf", 80, nil, []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.NoError(t, cvs.Delete(id, applicant.ID))
	_, err = cvs.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}
