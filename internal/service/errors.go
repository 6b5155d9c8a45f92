// Package service holds the business rules of the platform. Every invariant
// (uniqueness, approval gating, score gate, apply-once) is enforced here so
// no HTTP surface can bypass it.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound reports a zero-row lookup or update
	ErrNotFound = errors.New("record not found")
	// ErrUnknownRole reports a registration against a role that was never seeded
	ErrUnknownRole = errors.New("role not found, ensure roles are initialized")
	// ErrInvalidCredentials reports a failed username/email + password match
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	// ErrPendingApproval blocks HR logins until an admin approves the account
	ErrPendingApproval = errors.New("your HR account is pending approval by an admin")
	// ErrInvalidEmail reports an email that fails the format policy
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPassword reports a password that fails the strength policy
	ErrInvalidPassword = errors.New("password must be 8+ characters with letters, numbers, and a special character")
	// ErrInvalidIndustry reports an industry outside the allowed set
	ErrInvalidIndustry = errors.New("invalid industry value")
	// ErrAlreadyApplied reports a second application for the same (user, job)
	ErrAlreadyApplied = errors.New("you have already applied to this job")
	// ErrScoreTooLow rejects a CV whose overall ATS score is below the accept gate
	ErrScoreTooLow = errors.New("CV ATS score is below the acceptance threshold")
	// ErrNotApproved blocks job posting from an HR account awaiting approval
	ErrNotApproved = errors.New("HR account is not approved yet")
	// ErrCompanyNameMissing blocks job posting until the HR profile has a company name
	ErrCompanyNameMissing = errors.New("cannot post a job without a company name on the profile")
	// ErrDateInPast rejects a job whose last date to apply has already passed
	ErrDateInPast = errors.New("last date to apply must be in the future")
)

// DuplicateFieldError reports a unique-constraint violation on a specific
// field so callers can present a field-specific message.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("the %s is already registered, please use a different %s", e.Field, e.Field)
}

// translateUniqueViolation maps postgres unique violations onto
// DuplicateFieldError by constraint name; other errors pass through.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return &DuplicateFieldError{Field: "username"}
	case strings.Contains(pgErr.ConstraintName, "email"):
		return &DuplicateFieldError{Field: "email"}
	case strings.Contains(pgErr.ConstraintName, "cnic"):
		return &DuplicateFieldError{Field: "CNIC"}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
