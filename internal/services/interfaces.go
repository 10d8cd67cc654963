package services

import (
	"context"
	"time"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
	"github.com/anudeepvarma123/TalentTrack/internal/repositories"
)

// Store interfaces are declared here, on the consuming side; the
// repositories package provides the MySQL implementations. Lookups return
// nil, nil when nothing matches.

type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) (bool, error)
}

type EmployeeStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.EmployeeProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.EmployeeProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.EmployeeProfile, error)
	List(ctx context.Context) ([]models.EmployeeProfile, error)
	// CreateWithCredential stores both rows atomically.
	CreateWithCredential(ctx context.Context, e *models.EmployeeProfile, c *models.Credential) error
	NextSequence(ctx context.Context, name string) (int64, error)
}

type LeaveStore interface {
	Insert(ctx context.Context, l *models.LeaveRequest) error
	SumApprovedDaysSince(ctx context.Context, userID string, since time.Time) (int, error)
	List(ctx context.Context, filter repositories.LeaveFilter) ([]models.LeaveRequest, error)
	LatestPending(ctx context.Context, userID string) (*models.LeaveRequest, error)
	Transition(ctx context.Context, id string, to models.LeaveStatus, processedAt time.Time) (bool, error)
}

// ResetMailer delivers password-reset links.
type ResetMailer interface {
	SendResetEmail(ctx context.Context, to, link string) error
}

var (
	_ CredentialStore = (*repositories.CredentialRepository)(nil)
	_ EmployeeStore   = (*repositories.EmployeeRepository)(nil)
	_ LeaveStore      = (*repositories.LeaveRepository)(nil)
)
