package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the access level carried by a credential and by session tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleHR:
		return RoleHR, true
	case RoleEmployee:
		return RoleEmployee, true
	default:
		return "", false
	}
}

// RoleSet is the set of roles allowed to perform an operation.
type RoleSet []Role

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

// Managers is the role set for HR back-office operations.
var Managers = RoleSet{RoleAdmin, RoleHR}

// Everyone is the role set for operations open to any signed-in user.
var Everyone = RoleSet{RoleAdmin, RoleHR, RoleEmployee}

// LeaveStatus is the state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// ParseLeaveStatus accepts any of the three statuses in any case.
func ParseLeaveStatus(s string) (LeaveStatus, bool) {
	switch LeaveStatus(strings.ToLower(strings.TrimSpace(s))) {
	case LeavePending:
		return LeavePending, true
	case LeaveApproved:
		return LeaveApproved, true
	case LeaveRejected:
		return LeaveRejected, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveTypeLeave        LeaveType = "leave"
	LeaveTypeWorkFromHome LeaveType = "work-from-home"
	LeaveTypeFloater      LeaveType = "floater"
)

// ParseLeaveType accepts any known leave type in any case.
func ParseLeaveType(s string) (LeaveType, bool) {
	switch LeaveType(strings.ToLower(strings.TrimSpace(s))) {
	case LeaveTypeLeave:
		return LeaveTypeLeave, true
	case LeaveTypeWorkFromHome:
		return LeaveTypeWorkFromHome, true
	case LeaveTypeFloater:
		return LeaveTypeFloater, true
	default:
		return "", false
	}
}

// NormalizeUserID returns the canonical upper-case form of an employee user_id.
// All writes store this form and all reads compare against it.
func NormalizeUserID(userID string) string {
	return strings.ToUpper(strings.TrimSpace(userID))
}

// DateLayout is the ISO calendar date format used on the wire and in the store.
const DateLayout = "2006-01-02"

// Date is a calendar date (UTC midnight) serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// DaysThrough returns the inclusive number of calendar days from d to end.
// It is 1 when both dates are equal and <= 0 when end is before d.
func (d Date) DaysThrough(end Date) int {
	return int(end.Sub(d.Time).Hours()/24) + 1
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(d.String())
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", value)
}

// Credential is a login record.
type Credential struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// EmployeeProfile is an onboarded employee. UserID is the natural key used by
// leave, attendance and payroll records.
type EmployeeProfile struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"userid" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Department  string    `json:"department" db:"department"`
	Role        Role      `json:"role" db:"role"`
	JoiningDate Date      `json:"joining_date" db:"joining_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LeaveRequest is a single leave application.
type LeaveRequest struct {
	ID            string      `json:"id" db:"id"`
	UserID        string      `json:"user_id" db:"user_id"`
	LeaveType     LeaveType   `json:"leave_type" db:"leave_type"`
	FromDate      Date        `json:"from_date" db:"from_date"`
	ToDate        Date        `json:"to_date" db:"to_date"`
	Reason        string      `json:"reason" db:"reason"`
	Status        LeaveStatus `json:"status" db:"status"`
	DaysRequested int         `json:"days_requested" db:"days_requested"`
	AppliedAt     time.Time   `json:"applied_at" db:"applied_at"`
	ProcessedAt   *time.Time  `json:"processed_at,omitempty" db:"processed_at"`
}

// LeaveView is a leave request enriched with its owner's profile for
// back-office and calendar listings.
type LeaveView struct {
	LeaveRequest
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
}

// NewLeaveView joins a request with its profile; profile may be nil when the
// employee record has since gone missing.
func NewLeaveView(req LeaveRequest, profile *EmployeeProfile) LeaveView {
	view := LeaveView{LeaveRequest: req}
	if profile != nil {
		view.EmployeeName = profile.Name
		view.Email = profile.Email
		view.Department = profile.Department
	}
	return view
}
