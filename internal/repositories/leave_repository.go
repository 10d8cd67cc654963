package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

const leaveColumns = `id, user_id, leave_type, from_date, to_date, reason, status, days_requested, applied_at, processed_at`

// LeaveFilter narrows List. Zero fields do not filter.
type LeaveFilter struct {
	UserID string
	Status models.LeaveStatus
}

// LeaveRepository stores leave requests.
type LeaveRepository struct {
	db *sql.DB
}

func NewLeaveRepository(db *sql.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func scanLeave(s rowScanner) (*models.LeaveRequest, error) {
	l := &models.LeaveRequest{}
	var processedAt sql.NullTime
	if err := s.Scan(&l.ID, &l.UserID, &l.LeaveType, &l.FromDate, &l.ToDate, &l.Reason,
		&l.Status, &l.DaysRequested, &l.AppliedAt, &processedAt); err != nil {
		return nil, err
	}
	if processedAt.Valid {
		t := processedAt.Time
		l.ProcessedAt = &t
	}
	return l, nil
}

// Insert stores a new request. The caller assigns the ID.
func (r *LeaveRepository) Insert(ctx context.Context, l *models.LeaveRequest) error {
	l.UserID = models.NormalizeUserID(l.UserID)
	query := `
		INSERT INTO leave_requests (` + leaveColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.UserID, string(l.LeaveType), l.FromDate, l.ToDate, l.Reason,
		string(l.Status), l.DaysRequested, l.AppliedAt, l.ProcessedAt)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	return nil
}

// SumApprovedDaysSince totals days_requested of the user's approved requests
// applied at or after since.
func (r *LeaveRepository) SumApprovedDaysSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(days_requested), 0)
		FROM leave_requests
		WHERE user_id = ? AND status = ? AND applied_at >= ?`

	var total int
	err := r.db.QueryRowContext(ctx, query, models.NormalizeUserID(userID), string(models.LeaveApproved), since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum approved leave days: %w", err)
	}
	return total, nil
}

// List returns matching requests, most recently applied first.
func (r *LeaveRepository) List(ctx context.Context, filter LeaveFilter) ([]models.LeaveRequest, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, models.NormalizeUserID(filter.UserID))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + leaveColumns + ` FROM leave_requests`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY applied_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	leaves := []models.LeaveRequest{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		leaves = append(leaves, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leave requests: %w", err)
	}
	return leaves, nil
}

// LatestPending returns the most recently applied pending request of the
// user, or nil, nil when there is none.
func (r *LeaveRepository) LatestPending(ctx context.Context, userID string) (*models.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE user_id = ? AND status = ?
		ORDER BY applied_at DESC, id DESC
		LIMIT 1`

	l, err := scanLeave(r.db.QueryRowContext(ctx, query, models.NormalizeUserID(userID), string(models.LeavePending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest pending leave: %w", err)
	}
	return l, nil
}

// Transition moves a pending request to a terminal status. It reports false
// when the request was no longer pending.
func (r *LeaveRepository) Transition(ctx context.Context, id string, to models.LeaveStatus, processedAt time.Time) (bool, error) {
	query := `
		UPDATE leave_requests
		SET status = ?, processed_at = ?
		WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, query, string(to), processedAt, id, string(models.LeavePending))
	if err != nil {
		return false, fmt.Errorf("update leave status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update leave status rows: %w", err)
	}
	return n == 1, nil
}

// sqlRepeatParams returns "?, ?, ..." with count placeholders.
func sqlRepeatParams(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
