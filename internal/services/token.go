package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthErrorKind classifies why a bearer token was rejected.
type AuthErrorKind int

const (
	// AuthMalformed means the token encoding is not well-formed.
	AuthMalformed AuthErrorKind = iota
	// AuthInvalidSignature means the signature does not match the active key.
	AuthInvalidSignature
	// AuthExpired means the token's expiry has passed.
	AuthExpired
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthInvalidSignature:
		return "invalid signature"
	case AuthExpired:
		return "expired"
	default:
		return "malformed"
	}
}

// AuthError is a token verification failure. Callers map every kind to the
// same uniform unauthorized response; the kind exists for logging and tests.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TokenService issues and verifies signed, time-bound identity tokens.
// Tokens are stateless: validity is computable from signature and expiry
// alone, and there is no revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. The secret must be non-empty;
// a misconfigured signing key is fatal and checked by the caller at startup.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token for the given subject, expiring after ttl.
// A non-positive ttl falls back to the configured default.
func (s *TokenService) Issue(subjectID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature integrity and expiry and returns the subject id.
// Expiry is recomputed against the current time on every call; results must
// never be cached past a request boundary.
func (s *TokenService) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", &AuthError{Kind: AuthExpired, Err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", &AuthError{Kind: AuthInvalidSignature, Err: err}
		default:
			return "", &AuthError{Kind: AuthMalformed, Err: err}
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", &AuthError{Kind: AuthMalformed, Err: errors.New("missing subject claim")}
	}

	return claims.Subject, nil
}
