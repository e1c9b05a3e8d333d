package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", time.Hour).WithClock(fixedClock(&now))

	tok, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.Exp)

	id, err := issuer.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestTokenIssuerExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", time.Hour).WithClock(fixedClock(&now))

	tok, err := issuer.Issue(7)
	require.NoError(t, err)

	now = now.Add(time.Hour - time.Second)
	_, err = issuer.Verify(tok.Token)
	assert.NoError(t, err, "valid one second before expiry")

	now = now.Add(time.Second)
	_, err = issuer.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "rejected at expiry")

	now = now.Add(time.Minute)
	_, err = issuer.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	tok, err := other.Issue(1)
	require.NoError(t, err)
	_, err = issuer.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsOtherAlgorithms(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRequiresExpiryAndSubject(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(badSub)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
