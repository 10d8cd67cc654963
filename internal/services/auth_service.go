package services

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/crypto/bcrypt"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

// UserDetails is the profile snapshot returned with a session token.
type UserDetails struct {
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Department  string      `json:"department"`
	JoiningDate models.Date `json:"joining_date"`
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	Role        models.Role `json:"role"`
	UserDetails UserDetails `json:"userDetails"`
}

// AuthService verifies credentials and runs the password-reset flow.
type AuthService struct {
	credentials  CredentialStore
	employees    EmployeeStore
	tokens       *auth.TokenService
	mailer       ResetMailer
	resetURLBase string
	bcryptCost   int
	log          *logger.Logger
}

func NewAuthService(credentials CredentialStore, employees EmployeeStore, tokens *auth.TokenService,
	mailer ResetMailer, cfg config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		credentials:  credentials,
		employees:    employees,
		tokens:       tokens,
		mailer:       mailer,
		resetURLBase: cfg.Mail.ResetURLBase,
		bcryptCost:   cfg.Security.BcryptCost,
		log:          log,
	}
}

// Login checks email and password and issues a session token whose subject is
// the employee user_id.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if cred == nil || !cred.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.employees.FindByEmail(ctx, cred.Email)
	if err != nil {
		return nil, fmt.Errorf("login profile: %w", err)
	}
	if profile == nil {
		s.log.Warn(logger.Entry{
			Action:     "login_profile_missing",
			Message:    "credential has no employee profile",
			Additional: map[string]any{"email": cred.Email},
		})
		return nil, ErrProfileMissing
	}

	token, err := s.tokens.IssueSession(profile.UserID, cred.Role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.log.Info(logger.Entry{Action: "login", Message: "session issued", UserID: profile.UserID})
	return &LoginResult{
		AccessToken: token,
		Role:        cred.Role,
		UserDetails: UserDetails{
			UserID:      profile.UserID,
			Name:        profile.Name,
			Email:       profile.Email,
			Department:  profile.Department,
			JoiningDate: profile.JoiningDate,
		},
	}, nil
}

// RequestPasswordReset mails a one-hour reset link. Nothing is stored until
// the reset is completed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	cred, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}
	if cred == nil {
		return ErrEmailNotFound
	}

	token, err := s.tokens.IssueReset(cred.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	link := s.resetURLBase + "?token=" + url.QueryEscape(token)

	if err := s.mailer.SendResetEmail(ctx, cred.Email, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	s.log.Info(logger.Entry{
		Action:     "password_reset_requested",
		Message:    "reset link sent",
		Additional: map[string]any{"email": cred.Email},
	})
	return nil
}

// CompletePasswordReset replaces the password of the credential named by a
// valid reset token.
func (s *AuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.VerifyReset(token)
	if err != nil {
		s.log.Warn(logger.Entry{Action: "reset_token_rejected", Message: err.Error()})
		return ErrInvalidOrExpiredToken
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	updated, err := s.credentials.UpdatePasswordHash(ctx, claims.Subject, hash)
	if err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}

	s.log.Info(logger.Entry{
		Action:     "password_reset_completed",
		Message:    "password replaced",
		Additional: map[string]any{"email": claims.Subject},
	})
	return nil
}

// HashPassword hashes with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
