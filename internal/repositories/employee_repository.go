package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

const employeeColumns = `id, user_id, name, email, department, role, joining_date, created_at`

// EmployeeRepository stores employee profiles. user_id values are written and
// compared in their normalised (upper-case) form.
type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(s rowScanner) (*models.EmployeeProfile, error) {
	e := &models.EmployeeProfile{}
	if err := s.Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.Department, &e.Role, &e.JoiningDate, &e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.EmployeeProfile, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + where
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return e, nil
}

// FindByUserID returns nil, nil when no profile matches.
func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID string) (*models.EmployeeProfile, error) {
	return r.findOne(ctx, "user_id = ?", models.NormalizeUserID(userID))
}

// FindByEmail returns nil, nil when no profile matches.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.EmployeeProfile, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUserIDs returns the profiles keyed by user_id. Unknown ids are absent.
func (r *EmployeeRepository) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.EmployeeProfile, error) {
	out := make(map[string]*models.EmployeeProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	args := make([]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		args = append(args, models.NormalizeUserID(id))
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id IN (` + sqlRepeatParams(len(args)) + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find employees by user ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out[e.UserID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

// List returns all profiles ordered by user_id.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.EmployeeProfile, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := []models.EmployeeProfile{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

// CreateWithCredential inserts a profile and its login credential in one
// transaction, normalising the user_id and setting both IDs. Neither row is
// kept when either insert fails.
func (r *EmployeeRepository) CreateWithCredential(ctx context.Context, e *models.EmployeeProfile, c *models.Credential) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin onboarding transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit onboarding transaction: %w", err)
		}
	}()

	e.UserID = models.NormalizeUserID(e.UserID)
	query := `
		INSERT INTO employees (user_id, name, email, department, role, joining_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, query, e.UserID, e.Name, e.Email, e.Department, string(e.Role), e.JoiningDate, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("employee insert id: %w", err)
	}
	if err = insertCredential(ctx, tx, c); err != nil {
		return err
	}
	e.ID = id
	return nil
}

// NextSequence atomically increments the named counter and returns the new
// value. The first call for a name returns 1.
func (r *EmployeeRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, seq) VALUES (?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return seq, nil
}
