package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

// Purpose separates token classes that share the signing machinery.
type Purpose string

const (
	PurposeSession       Purpose = "session"
	PurposePasswordReset Purpose = "password_reset"
)

var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenWrongPurpose     = errors.New("token was issued for a different purpose")
)

// Claims is the signed payload. Subject is the employee user_id for session
// tokens and the credential email for reset tokens; reset tokens carry no role.
type Claims struct {
	Role    models.Role `json:"role,omitempty"`
	Purpose Purpose     `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	sessionSecret []byte
	resetSecret   []byte
	sessionTTL    time.Duration
	resetTTL      time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	resetSecret := cfg.ResetSecret
	if resetSecret == "" {
		resetSecret = cfg.SessionSecret
	}
	return &TokenService{
		sessionSecret: []byte(cfg.SessionSecret),
		resetSecret:   []byte(resetSecret),
		sessionTTL:    cfg.SessionTTL,
		resetTTL:      cfg.ResetTTL,
		now:           time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// IssueSession signs a 24h-style session token for an employee.
func (s *TokenService) IssueSession(userID string, role models.Role) (string, error) {
	return s.issue(userID, role, PurposeSession, s.sessionTTL, s.sessionSecret)
}

// IssueReset signs a password-reset token bound to an email address.
func (s *TokenService) IssueReset(email string) (string, error) {
	return s.issue(email, "", PurposePasswordReset, s.resetTTL, s.resetSecret)
}

func (s *TokenService) issue(subject string, role models.Role, purpose Purpose, ttl time.Duration, secret []byte) (string, error) {
	now := s.now()
	claims := &Claims{
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// VerifySession validates a session token.
func (s *TokenService) VerifySession(tokenString string) (*Claims, error) {
	claims, err := s.verify(tokenString, PurposeSession, s.sessionSecret)
	if err != nil {
		return nil, err
	}
	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// VerifyReset validates a password-reset token.
func (s *TokenService) VerifyReset(tokenString string) (*Claims, error) {
	return s.verify(tokenString, PurposePasswordReset, s.resetSecret)
}

// expiryClock lags the service clock by a nanosecond. jwt rejects a token
// once now reaches exp; ours stay valid through exp and expire strictly after.
func (s *TokenService) expiryClock() time.Time {
	return s.now().Add(-time.Nanosecond)
}

func (s *TokenService) verify(tokenString string, purpose Purpose, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.expiryClock),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Purpose != purpose {
		return nil, ErrTokenWrongPurpose
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
