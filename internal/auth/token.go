package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/savannahlabs/orders-backend/internal/model"
)

const issuer = "savannah-orders"

// Claims are the access-token claims; Scope is a space-separated grant list.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{Secret: []byte(secret), TTL: ttl}
}

// Issue returns a signed token for the application plus the record to persist
// for revocation lookups.
func (m *TokenManager) Issue(app *model.Application, scope string) (string, *model.AccessToken, error) {
	now := time.Now()
	expiresAt := now.Add(m.TTL)
	jti := uuid.NewString()

	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   app.ClientID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", nil, err
	}

	record := &model.AccessToken{
		JTI:           jti,
		ApplicationID: app.ID,
		Scope:         scope,
		ExpiresAt:     expiresAt,
	}
	return signed, record, nil
}

// Parse validates the signature and standard claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseUnverifiedExpiry parses without validating expiry, for revocation of
// already-expired tokens.
func (m *TokenManager) ParseUnverifiedExpiry(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// HasScopes reports whether the space-separated granted set covers every
// required scope.
func HasScopes(granted string, required ...string) bool {
	have := map[string]bool{}
	for _, s := range strings.Fields(granted) {
		have[s] = true
	}
	for _, s := range required {
		if !have[s] {
			return false
		}
	}
	return true
}
