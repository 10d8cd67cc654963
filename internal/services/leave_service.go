package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
	"github.com/anudeepvarma123/TalentTrack/internal/repositories"
)

// CalendarKeyLayout formats calendar buckets, e.g. "March 2024".
const CalendarKeyLayout = "January 2006"

// ApplyInput is a leave application as submitted by the employee.
type ApplyInput struct {
	LeaveType string
	FromDate  string
	ToDate    string
	Reason    string
}

// ApplyResult is the stored request plus the quota projection assuming it is
// approved. Quota is only consumed on approval.
type ApplyResult struct {
	Request         models.LeaveRequest `json:"request"`
	AvailableLeaves int                 `json:"available_leaves"`
	UsedLeaves      int                 `json:"used_leaves"`
}

// LeaveSummary is an employee's own view of the ledger.
type LeaveSummary struct {
	AvailableLeaves int                   `json:"available_leaves"`
	UsedLeaves      int                   `json:"used_leaves"`
	History         []models.LeaveRequest `json:"history"`
}

// LeaveService is the leave ledger: applications, quota enforcement and the
// pending -> approved|rejected state machine.
//
// Quota is checked against approved history only, and the sum-then-insert in
// Apply is not atomic. Concurrent or stacked pending applications are not
// checked against each other.
type LeaveService struct {
	leaves    LeaveStore
	employees EmployeeStore
	quota     int
	now       func() time.Time
	newID     func() string
	log       *logger.Logger
}

func NewLeaveService(leaves LeaveStore, employees EmployeeStore, cfg config.LeaveConfig, log *logger.Logger) *LeaveService {
	return &LeaveService{
		leaves:    leaves,
		employees: employees,
		quota:     cfg.AnnualQuota,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		log:       log,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *LeaveService) WithClock(now func() time.Time) *LeaveService {
	cp := *s
	cp.now = now
	return &cp
}

// Quota is the annual allowance in days.
func (s *LeaveService) Quota() int { return s.quota }

func yearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (s *LeaveService) usedThisYear(ctx context.Context, userID string, now time.Time) (int, error) {
	used, err := s.leaves.SumApprovedDaysSince(ctx, userID, yearStart(now))
	if err != nil {
		return 0, fmt.Errorf("year to date consumption: %w", err)
	}
	return used, nil
}

// Apply records a pending leave request for userID.
func (s *LeaveService) Apply(ctx context.Context, userID string, in ApplyInput) (*ApplyResult, error) {
	profile, err := s.employees.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if profile == nil {
		return nil, ErrEmployeeNotFound
	}

	leaveType, ok := models.ParseLeaveType(in.LeaveType)
	if !ok {
		return nil, ErrInvalidLeaveType
	}
	from, err := models.ParseDate(in.FromDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := models.ParseDate(in.ToDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if to.Before(from.Time) {
		return nil, ErrInvalidDateRange
	}
	days := from.DaysThrough(to)

	now := s.now().UTC()
	used, err := s.usedThisYear(ctx, profile.UserID, now)
	if err != nil {
		return nil, err
	}
	if used+days > s.quota {
		// Approved history can exceed the quota after racing applications.
		return nil, &QuotaExceededError{Remaining: max(s.quota-used, 0)}
	}

	req := models.LeaveRequest{
		ID:            s.newID(),
		UserID:        profile.UserID,
		LeaveType:     leaveType,
		FromDate:      from,
		ToDate:        to,
		Reason:        in.Reason,
		Status:        models.LeavePending,
		DaysRequested: days,
		AppliedAt:     now,
	}
	if err := s.leaves.Insert(ctx, &req); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "leave_applied",
		Message: "leave request created",
		UserID:  req.UserID,
		Additional: map[string]any{
			"leave_id": req.ID,
			"days":     days,
		},
	})
	return &ApplyResult{
		Request:         req,
		AvailableLeaves: s.quota - used - days,
		UsedLeaves:      used,
	}, nil
}

// ListMine returns the caller's quota position and full history, newest first.
func (s *LeaveService) ListMine(ctx context.Context, userID string) (*LeaveSummary, error) {
	used, err := s.usedThisYear(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	history, err := s.leaves.List(ctx, repositories.LeaveFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list my leaves: %w", err)
	}
	return &LeaveSummary{
		AvailableLeaves: s.quota - used,
		UsedLeaves:      used,
		History:         history,
	}, nil
}

// ListAll returns every request with its owner's profile.
func (s *LeaveService) ListAll(ctx context.Context, callerRole models.Role) ([]models.LeaveView, error) {
	if err := auth.RequireRoleOf(callerRole, models.Managers); err != nil {
		return nil, err
	}
	return s.listViews(ctx, repositories.LeaveFilter{})
}

// ByStatus returns the requests in one status with their owners' profiles.
func (s *LeaveService) ByStatus(ctx context.Context, status string, callerRole models.Role) ([]models.LeaveView, error) {
	if err := auth.RequireRoleOf(callerRole, models.Managers); err != nil {
		return nil, err
	}
	st, ok := models.ParseLeaveStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	return s.listViews(ctx, repositories.LeaveFilter{Status: st})
}

// UpdateStatus resolves the most recently applied pending request of userID.
// Older pending requests are left untouched.
func (s *LeaveService) UpdateStatus(ctx context.Context, userID, newStatus string, callerRole models.Role) (*models.LeaveRequest, error) {
	if err := auth.RequireRoleOf(callerRole, models.Managers); err != nil {
		return nil, err
	}
	to, ok := models.ParseLeaveStatus(newStatus)
	if !ok || !to.IsTerminal() {
		return nil, ErrInvalidStatus
	}

	pending, err := s.leaves.LatestPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if pending == nil {
		return nil, ErrNoPendingRequest
	}

	processedAt := s.now().UTC()
	moved, err := s.leaves.Transition(ctx, pending.ID, to, processedAt)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !moved {
		// Another caller resolved it between the read and the update.
		return nil, ErrNoPendingRequest
	}

	pending.Status = to
	pending.ProcessedAt = &processedAt
	s.log.Info(logger.Entry{
		Action:     "leave_status_updated",
		Message:    "leave request " + string(to),
		UserID:     pending.UserID,
		Additional: map[string]any{"leave_id": pending.ID},
	})
	return pending, nil
}

// Calendar groups approved requests by the month and year of their start
// date. Employees only see their own.
func (s *LeaveService) Calendar(ctx context.Context, caller auth.Identity) (map[string][]models.LeaveView, error) {
	if err := auth.RequireRole(caller, models.Everyone); err != nil {
		return nil, err
	}
	filter := repositories.LeaveFilter{Status: models.LeaveApproved}
	if caller.Role == models.RoleEmployee {
		filter.UserID = caller.UserID
	}

	views, err := s.listViews(ctx, filter)
	if err != nil {
		return nil, err
	}
	calendar := make(map[string][]models.LeaveView)
	for _, v := range views {
		key := v.FromDate.Format(CalendarKeyLayout)
		calendar[key] = append(calendar[key], v)
	}
	return calendar, nil
}

func (s *LeaveService) listViews(ctx context.Context, filter repositories.LeaveFilter) ([]models.LeaveView, error) {
	leaves, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, l := range leaves {
		if _, ok := seen[l.UserID]; !ok {
			seen[l.UserID] = struct{}{}
			ids = append(ids, l.UserID)
		}
	}
	profiles, err := s.employees.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("enrich leaves: %w", err)
	}

	views := make([]models.LeaveView, 0, len(leaves))
	for _, l := range leaves {
		views = append(views, models.NewLeaveView(l, profiles[l.UserID]))
	}
	return views, nil
}
