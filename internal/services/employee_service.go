package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

const employeeIDCounter = "employee_id"

// OnboardInput is the onboarding form. Password is the initial login
// password for the new credential.
type OnboardInput struct {
	Name        string
	Email       string
	Department  string
	Role        string
	JoiningDate string
	Password    string
}

// EmployeeService manages the employee directory.
type EmployeeService struct {
	employees   EmployeeStore
	credentials CredentialStore
	hasher      func(string) (string, error)
	now         func() time.Time
	log         *logger.Logger
}

// NewEmployeeService hashes initial passwords through authSvc so onboarding
// and password resets share the bcrypt cost.
func NewEmployeeService(employees EmployeeStore, credentials CredentialStore, authSvc *AuthService, log *logger.Logger) *EmployeeService {
	return &EmployeeService{
		employees:   employees,
		credentials: credentials,
		hasher:      authSvc.HashPassword,
		now:         time.Now,
		log:         log,
	}
}

// Onboard creates a profile with the next EMPnnn user_id and its credential.
func (s *EmployeeService) Onboard(ctx context.Context, callerRole models.Role, in OnboardInput) (*models.EmployeeProfile, error) {
	if err := auth.RequireRoleOf(callerRole, models.Managers); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	joining, err := models.ParseDate(in.JoiningDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	email := strings.TrimSpace(in.Email)

	existing, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("onboard: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	taken, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("onboard: %w", err)
	}
	if taken != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher(in.Password)
	if err != nil {
		return nil, err
	}
	seq, err := s.employees.NextSequence(ctx, employeeIDCounter)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}

	now := s.now().UTC()
	profile := &models.EmployeeProfile{
		UserID:      fmt.Sprintf("EMP%03d", seq),
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Department:  strings.TrimSpace(in.Department),
		Role:        role,
		JoiningDate: joining,
		CreatedAt:   now,
	}
	cred := &models.Credential{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.employees.CreateWithCredential(ctx, profile, cred); err != nil {
		return nil, fmt.Errorf("onboard: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:     "employee_onboarded",
		Message:    "employee created",
		UserID:     profile.UserID,
		Additional: map[string]any{"role": string(role)},
	})
	return profile, nil
}

func (s *EmployeeService) Get(ctx context.Context, userID string) (*models.EmployeeProfile, error) {
	e, err := s.employees.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]models.EmployeeProfile, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}
