package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVerifier() Verifier {
	return Verifier{
		Secret:    "test-secret",
		Algorithm: "HS256",
		Issuer:    "auth-service",
		Audience:  "dpd-app",
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := testVerifier()

	token, err := v.GenerateToken("A12345", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "A12345", claims.AccountNo)
	assert.Equal(t, "auth-service", claims.Issuer)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	v := testVerifier()

	token, err := v.GenerateToken("A12345", -time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifier_WrongSecret(t *testing.T) {
	v := testVerifier()

	token, err := v.GenerateToken("A12345", time.Hour)
	require.NoError(t, err)

	other := testVerifier()
	other.Secret = "different-secret"

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_WrongIssuer(t *testing.T) {
	v := testVerifier()
	v.Issuer = "some-other-service"

	token, err := v.GenerateToken("A12345", time.Hour)
	require.NoError(t, err)

	_, err = testVerifier().VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifier_WrongAudience(t *testing.T) {
	v := testVerifier()
	v.Audience = "some-other-app"

	token, err := v.GenerateToken("A12345", time.Hour)
	require.NoError(t, err)

	_, err = testVerifier().VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifier_RejectsUnexpectedAlgorithm(t *testing.T) {
	v := testVerifier()

	// Sign with HS512; the verifier only accepts HS256.
	claims := Claims{
		AccountNo: "A12345",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.Issuer,
			Audience:  jwt.ClaimStrings{v.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(v.Secret))
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_RejectsTokenWithoutExpiry(t *testing.T) {
	v := testVerifier()

	claims := Claims{
		AccountNo: "A12345",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   v.Issuer,
			Audience: jwt.ClaimStrings{v.Audience},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(v.Secret))
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifier_GarbageToken(t *testing.T) {
	_, err := testVerifier().VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_UnknownAlgorithm(t *testing.T) {
	v := testVerifier()
	v.Algorithm = "HS999"

	_, err := v.GenerateToken("A12345", time.Hour)
	assert.Error(t, err)
}
