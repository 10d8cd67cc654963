package services

import (
	"errors"
	"fmt"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
)

// Authentication errors.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrProfileMissing        = errors.New("no employee profile is linked to this account")
	ErrEmailNotFound         = errors.New("email not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUserNotFound          = errors.New("user not found")
)

// ErrForbidden is returned by every role check.
var ErrForbidden = auth.ErrForbidden

// Leave ledger errors.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidDate      = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("to_date cannot be before from_date")
	ErrInvalidLeaveType = errors.New("leave_type must be one of leave, work-from-home, floater")
	ErrQuotaExceeded    = errors.New("annual leave quota exceeded")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrNoPendingRequest = errors.New("no pending leave request found")
)

// Employee directory errors.
var (
	ErrInvalidRole = errors.New("role must be one of admin, hr, employee")
	ErrEmailTaken  = errors.New("an employee with this email already exists")
)

// QuotaExceededError reports how many days were still available when an
// application was refused. It matches ErrQuotaExceeded with errors.Is.
type QuotaExceededError struct {
	Remaining int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: only %d days remaining", ErrQuotaExceeded, e.Remaining)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
