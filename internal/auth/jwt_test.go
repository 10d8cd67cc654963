package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

var issuedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTokens(sessionSecret, resetSecret string) *TokenService {
	return NewTokenService(config.JWTConfig{
		SessionSecret: sessionSecret,
		ResetSecret:   resetSecret,
		SessionTTL:    24 * time.Hour,
		ResetTTL:      time.Hour,
	}).WithClock(fixedClock(issuedAt))
}

func TestSessionRoundTrip(t *testing.T) {
	svc := newTokens("secret", "")

	tok, err := svc.IssueSession("EMP001", models.RoleEmployee)
	require.NoError(t, err)

	claims, err := svc.VerifySession(tok)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", claims.Subject)
	assert.Equal(t, models.RoleEmployee, claims.Role)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
}

func TestIssueIsDeterministicForSameClock(t *testing.T) {
	svc := newTokens("secret", "")
	a, err := svc.IssueSession("EMP001", models.RoleHR)
	require.NoError(t, err)
	b, err := svc.IssueSession("EMP001", models.RoleHR)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExpiredTokenReportsExpiryNotSignature(t *testing.T) {
	svc := newTokens("secret", "")
	tok, err := svc.IssueSession("EMP001", models.RoleAdmin)
	require.NoError(t, err)

	for _, after := range []time.Duration{24*time.Hour + time.Nanosecond, 24*time.Hour + time.Second, 30 * 24 * time.Hour} {
		_, err = svc.WithClock(fixedClock(issuedAt.Add(after))).VerifySession(tok)
		assert.ErrorIs(t, err, ErrTokenExpired, after.String())
		assert.NotErrorIs(t, err, ErrTokenInvalidSignature)
	}

	_, err = svc.WithClock(fixedClock(issuedAt.Add(23 * time.Hour))).VerifySession(tok)
	assert.NoError(t, err)
}

func TestTokenIsValidAtExactExpiry(t *testing.T) {
	svc := newTokens("secret", "reset-secret")
	session, err := svc.IssueSession("EMP001", models.RoleEmployee)
	require.NoError(t, err)
	reset, err := svc.IssueReset("asha@example.com")
	require.NoError(t, err)

	_, err = svc.WithClock(fixedClock(issuedAt.Add(24 * time.Hour))).VerifySession(session)
	assert.NoError(t, err)
	_, err = svc.WithClock(fixedClock(issuedAt.Add(time.Hour))).VerifyReset(reset)
	assert.NoError(t, err)

	_, err = svc.WithClock(fixedClock(issuedAt.Add(time.Hour + time.Nanosecond))).VerifyReset(reset)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetTokenExpiresAfterOneHour(t *testing.T) {
	svc := newTokens("secret", "reset-secret")
	tok, err := svc.IssueReset("asha@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifyReset(tok)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", claims.Subject)
	assert.Empty(t, claims.Role)

	_, err = svc.WithClock(fixedClock(issuedAt.Add(61 * time.Minute))).VerifyReset(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretIsInvalidSignature(t *testing.T) {
	tok, err := newTokens("one", "").IssueSession("EMP001", models.RoleEmployee)
	require.NoError(t, err)

	_, err = newTokens("two", "").VerifySession(tok)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestMalformedToken(t *testing.T) {
	svc := newTokens("secret", "")
	for _, tok := range []string{"", "abc", "a.b.c", "not-a-jwt.at.all"} {
		_, err := svc.VerifySession(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, tok)
	}
}

func TestPurposesAreNotInterchangeable(t *testing.T) {
	// Same secret for both classes: only the purpose claim keeps them apart.
	svc := newTokens("shared", "shared")

	reset, err := svc.IssueReset("asha@example.com")
	require.NoError(t, err)
	_, err = svc.VerifySession(reset)
	assert.ErrorIs(t, err, ErrTokenWrongPurpose)

	session, err := svc.IssueSession("EMP001", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.VerifyReset(session)
	assert.ErrorIs(t, err, ErrTokenWrongPurpose)
}

func TestDistinctSecretsRejectCrossUse(t *testing.T) {
	svc := newTokens("session", "reset")

	reset, err := svc.IssueReset("asha@example.com")
	require.NoError(t, err)
	_, err = svc.VerifySession(reset)
	assert.Error(t, err)
}

func TestRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Role:    models.RoleAdmin,
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "EMP001",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTokens("secret", "").VerifySession(tok)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newTokens("secret", "").VerifySession(unsigned)
	assert.Error(t, err)
}

func TestSessionTokenWithUnknownRoleIsRejected(t *testing.T) {
	claims := &Claims{
		Role:    "superuser",
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "EMP001",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTokens("secret", "").VerifySession(tok)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
