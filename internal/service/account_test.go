package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/sudais391/hirezy-project/internal/database"
	"github.com/sudais391/hirezy-project/internal/model"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

const testPassword = "TestPass123!"

func TestMain(m *testing.M) {
	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// registerApplicant creates a fresh approved applicant account so tests don't
// mutate the shared seed fixtures.
func registerApplicant(t *testing.T, username string) model.User {
	t.Helper()
	industry := "Software"
	user, err := NewAccountService(testDB).Register(model.RoleUser, Registration{
		FullName: "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
		Industry: &industry,
	})
	require.NoError(t, err)
	return user
}

// registerHR creates an HR account, optionally pre-approved.
func registerHR(t *testing.T, username string, companyName *string, approved bool) model.User {
	t.Helper()
	accounts := NewAccountService(testDB)
	cnic := "61101-" + username
	user, err := accounts.Register(model.RoleHR, Registration{
		FullName:    "Test " + username,
		Username:    username,
		Email:       username + "@example.com",
		Password:    testPassword,
		CNIC:        &cnic,
		CompanyName: companyName,
	})
	require.NoError(t, err)
	if approved {
		require.NoError(t, accounts.ApproveHR(user.ID))
		user.IsApproved = true
	}
	return user
}

func TestRegisterDuplicateUsername(t *testing.T) {
	accounts := NewAccountService(testDB)

	_, err := accounts.Register(model.RoleUser, Registration{
		FullName: "Copycat",
		Username: database.TestApplicant1.Username,
		Email:    "copycat_username@example.com",
		Password: testPassword,
	})

	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	// Failed insert must not leave a row behind
	exists, err := accounts.EmailExists("copycat_username@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := NewAccountService(testDB)

	_, err := accounts.Register(model.RoleUser, Registration{
		FullName: "Copycat",
		Username: "copycat_email",
		Email:    database.TestApplicant1.Email,
		Password: testPassword,
	})

	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	exists, err := accounts.UsernameExists("copycat_email")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterDuplicateCNIC(t *testing.T) {
	accounts := NewAccountService(testDB)

	_, err := accounts.Register(model.RoleHR, Registration{
		FullName: "Copycat",
		Username: "copycat_cnic",
		Email:    "copycat_cnic@example.com",
		Password: testPassword,
		CNIC:     database.TestHRApproved.CNIC,
	})

	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "CNIC", dup.Field)
}

func TestRegisterUnknownRole(t *testing.T) {
	_, err := NewAccountService(testDB).Register("Moderator", Registration{
		FullName: "Nobody",
		Username: "unknown_role",
		Email:    "unknown_role@example.com",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRegisterInvalidIndustry(t *testing.T) {
	industry := "Astrology"
	_, err := NewAccountService(testDB).Register(model.RoleUser, Registration{
		FullName: "Nobody",
		Username: "bad_industry",
		Email:    "bad_industry@example.com",
		Password: testPassword,
		Industry: &industry,
	})
	assert.ErrorIs(t, err, ErrInvalidIndustry)
}

func TestAuthenticateByUsernameAndEmail(t *testing.T) {
	accounts := NewAccountService(testDB)

	byName, err := accounts.Authenticate(database.TestApplicant1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	assert.Equal(t, database.TestApplicant1.ID, byName.ID)
	assert.Equal(t, model.RoleUser, byName.Role.Name)

	byEmail, err := accounts.Authenticate(database.TestApplicant1.Email, database.TestSeedPassword)
	require.NoError(t, err)
	assert.Equal(t, database.TestApplicant1.ID, byEmail.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	_, err := NewAccountService(testDB).Authenticate(database.TestApplicant1.Username, "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	_, err := NewAccountService(testDB).Authenticate("nobody_here", database.TestSeedPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticatePendingHR(t *testing.T) {
	_, err := NewAccountService(testDB).Authenticate(database.TestHRPending.Username, database.TestSeedPassword)
	assert.ErrorIs(t, err, ErrPendingApproval)
}

// Wrong password on a pending account must read as bad credentials so the
// approval state leaks only to whoever holds the password.
func TestAuthenticatePendingHRWrongPassword(t *testing.T) {
	_, err := NewAccountService(testDB).Authenticate(database.TestHRPending.Username, "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestApproveHRUnblocksLogin(t *testing.T) {
	accounts := NewAccountService(testDB)
	company := "Initech"
	hr := registerHR(t, "svc_hr_to_approve", &company, false)

	_, err := accounts.Authenticate(hr.Username, testPassword)
	require.ErrorIs(t, err, ErrPendingApproval)

	require.NoError(t, accounts.ApproveHR(hr.ID))

	got, err := accounts.Authenticate(hr.Username, testPassword)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
}

func TestRejectHRRemovesAccount(t *testing.T) {
	accounts := NewAccountService(testDB)
	company := "Initech"
	hr := registerHR(t, "svc_hr_to_reject", &company, false)

	require.NoError(t, accounts.RejectHR(hr.ID))

	_, err := accounts.Get(hr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUnknownAccount(t *testing.T) {
	name := "Ghost"
	err := NewAccountService(testDB).Update(uuid.New(), AccountUpdate{FullName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDuplicateEmail(t *testing.T) {
	user := registerApplicant(t, "svc_update_dup")

	err := NewAccountService(testDB).Update(user.ID, AccountUpdate{Email: &database.TestApplicant1.Email})

	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUpdatePartialFields(t *testing.T) {
	accounts := NewAccountService(testDB)
	user := registerApplicant(t, "svc_update_partial")

	contact := "0300-1234567"
	require.NoError(t, accounts.Update(user.ID, AccountUpdate{ContactNumber: &contact}))

	got, err := accounts.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ContactNumber)
	assert.Equal(t, contact, *got.ContactNumber)
	// Untouched fields survive
	assert.Equal(t, user.FullName, got.FullName)
	require.NotNil(t, got.Industry)
	assert.Equal(t, "Software", *got.Industry)
}

func TestDeleteAccountCascadesJobs(t *testing.T) {
	accounts := NewAccountService(testDB)
	jobs := NewJobService(testDB)
	company := "Soylent"
	hr := registerHR(t, "svc_hr_delete", &company, true)

	closing := time.Now().AddDate(0, 1, 0)
	for _, title := range []string{"QA Engineer", "SRE"} {
		_, err := jobs.Post(hr.ID, model.EditableJobInfo{
			Title:           title,
			Description:     "desc",
			Skills:          "skills",
			LastDateToApply: closing,
		})
		require.NoError(t, err)
	}

	deleted, err := accounts.Delete(hr.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = accounts.Get(hr.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := jobs.ListForHR(hr.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteUnknownAccount(t *testing.T) {
	_, err := NewAccountService(testDB).Delete(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingHRListing(t *testing.T) {
	pending, err := NewAccountService(testDB).PendingHR()
	require.NoError(t, err)

	found := false
	for _, u := range pending {
		assert.False(t, u.IsApproved)
		assert.Equal(t, model.RoleHR, u.Role.Name)
		if u.ID == database.TestHRPending.ID {
			found = true
		}
	}
	assert.True(t, found, "seeded pending HR missing from listing")
}

func TestListByRoleSearch(t *testing.T) {
	accounts := NewAccountService(testDB)
	needle := registerApplicant(t, "svc_search_needle")

	// Case-insensitive match on the username fragment
	users, err := accounts.ListByRole(model.RoleUser, "SEARCH_NEEDLE")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, needle.ID, users[0].ID)

	// Full-name fragment matches too
	users, err = accounts.ListByRole(model.RoleUser, "Test svc_search")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, needle.ID, users[0].ID)

	users, err = accounts.ListByRole(model.RoleUser, "no-such-account-anywhere")
	require.NoError(t, err)
	assert.Empty(t, users)

	// An empty query keeps the unfiltered listing
	users, err = accounts.ListByRole(model.RoleUser, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(users), 2)
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+c@sub-domain.co.uk",
		"under_score@example.io",
	}
	invalid := []string{
		"",
		"no-at-sign.com",
		"two@@example.com",
		"@example.com",
		"alice@",
		".leading@example.com",
		"trailing.@example.com",
		"double..dot@example.com",
		"alice@nodot",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Abcdef1!"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("lettersonly!"))
	assert.False(t, IsValidPassword("12345678!"))
	assert.False(t, IsValidPassword("NoSymbol123"))
}
