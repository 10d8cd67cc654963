package auth

import (
	"errors"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

// ErrForbidden is the single opaque outcome of any authentication or
// authorization failure.
var ErrForbidden = errors.New("forbidden")

// Identity is the caller extracted from a verified session token.
type Identity struct {
	UserID string
	Role   models.Role
}

// Guard authenticates bearer tokens for resource handlers.
type Guard struct {
	tokens *TokenService
	log    *logger.Logger
}

func NewGuard(tokens *TokenService, log *logger.Logger) *Guard {
	return &Guard{tokens: tokens, log: log}
}

// Authenticate verifies a session token. The underlying reason is logged and
// never returned.
func (g *Guard) Authenticate(token string) (Identity, error) {
	claims, err := g.tokens.VerifySession(token)
	if err != nil {
		g.log.Warn(logger.Entry{
			Action:  "token_rejected",
			Message: err.Error(),
		})
		return Identity{}, ErrForbidden
	}
	return Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// RequireRole fails with ErrForbidden unless the identity's role is allowed.
func RequireRole(id Identity, allowed models.RoleSet) error {
	return RequireRoleOf(id.Role, allowed)
}

// RequireRoleOf is RequireRole for callers that only hold the role.
func RequireRoleOf(role models.Role, allowed models.RoleSet) error {
	if !allowed.Contains(role) {
		return ErrForbidden
	}
	return nil
}
