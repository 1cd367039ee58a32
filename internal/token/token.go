package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials covers every verification failure: bad signature,
// expired token, missing subject. Callers never learn which one it was.
var ErrInvalidCredentials = errors.New("could not validate credentials")

// Service issues and verifies bearer tokens. It is built once at startup
// and never mutated afterwards.
type Service struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func New(secret, algorithm string, expireMinutes int) (*Service, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &Service{
		secret: []byte(secret),
		method: method,
		ttl:    time.Duration(expireMinutes) * time.Minute,
	}, nil
}

// Issue signs a token carrying {sub: subject, exp: now + ttl} and nothing else.
func (s *Service) Issue(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the subject claim.
func (s *Service) Verify(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
