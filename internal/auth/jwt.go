// Package auth verifies identity tokens issued by the external identity
// provider. It only establishes who the actor is; what they may do is decided
// by the policy package.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/najdeno/internal/model"
)

// Claims are the JWT claims read from an identity token. The subject is the
// actor's user ID.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// Profile returns the contact details carried by the token.
func (c *Claims) Profile() model.Profile {
	p := model.Profile{Name: c.Name, Email: c.Email}
	if c.Phone != "" {
		phone := c.Phone
		p.Phone = &phone
	}
	return p
}

// TokenExpiry is the lifetime of tokens minted by GenerateToken.
const TokenExpiry = 24 * time.Hour

// GenerateToken mints an identity token for subject. The server only needs
// this for development and tests; in production the identity provider signs
// tokens with the shared secret.
func GenerateToken(secret, issuer, subject string, profile model.Profile) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Name:  profile.Name,
		Email: profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if profile.Phone != nil {
		claims.Phone = *profile.Phone
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates an identity token. When issuer is
// non-empty the token's iss claim must match it. Tokens without a subject
// are rejected.
func ValidateToken(secret, issuer, tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
