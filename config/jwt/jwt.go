package jwt

import (
	"errors"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	ID string `json:"id"`
	gojwt.RegisteredClaims
}

var (
	mu        sync.RWMutex
	secret    []byte
	expiresIn = 7 * 24 * time.Hour

	ErrNoSecret = errors.New("jwt secret not configured")
)

// Init sets the signing secret and token lifetime for the process.
func Init(key string, lifetime time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	secret = []byte(key)
	if lifetime > 0 {
		expiresIn = lifetime
	}
}

/*
* Sign the user id with HS256
* iat is whole seconds so it can be compared with passwordChangedAt
 */
func GenerateJWT(id string) (string, error) {
	mu.RLock()
	key, lifetime := secret, expiresIn
	mu.RUnlock()
	if len(key) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		ID: id,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseJWT verifies signature and expiry and returns the claims.
func ParseJWT(token string) (*Claims, error) {
	mu.RLock()
	key := secret
	mu.RUnlock()
	if len(key) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (interface{}, error) {
		return key, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}), gojwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, gojwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IssuedAtTime returns the iat claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
