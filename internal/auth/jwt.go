// Package auth issues and verifies the bearer tokens that carry an
// account_no claim. Tokens are normally minted by the external auth
// service; issuing lives here for tests and the token subcommand.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims this service understands.
type Claims struct {
	AccountNo string `json:"account_no"`
	jwt.RegisteredClaims
}

// TokenExpiry is the default token lifetime for locally minted tokens.
const TokenExpiry = 24 * time.Hour

// Verifier validates bearer tokens against a shared secret and the
// configured issuer, audience and signing algorithm.
type Verifier struct {
	Secret    string
	Algorithm string
	Issuer    string
	Audience  string
}

// Token verification failures, distinguished for response messages.
var (
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrInvalidToken  = errors.New("invalid token")
)

// GenerateToken creates a signed token carrying an account_no claim.
func (v Verifier) GenerateToken(accountNo string, ttl time.Duration) (string, error) {
	method := jwt.GetSigningMethod(v.Algorithm)
	if method == nil {
		return "", fmt.Errorf("unknown signing algorithm %q", v.Algorithm)
	}

	now := time.Now()
	claims := Claims{
		AccountNo: accountNo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.Issuer,
			Audience:  jwt.ClaimStrings{v.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(v.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning its claims.
func (v Verifier) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(v.Secret), nil
	},
		jwt.WithValidMethods([]string{v.Algorithm}),
		jwt.WithIssuer(v.Issuer),
		jwt.WithAudience(v.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrInvalidClaims
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
