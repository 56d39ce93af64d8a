package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const tokenIssuer = "illustra-admin"

// Manager signs and parses admin session tokens.
type Manager struct {
	signingKey string
	now        func() time.Time
}

func NewManager(signingKey string) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}

	return &Manager{signingKey: signingKey, now: time.Now}, nil
}

// NewJWT issues a token for subject valid for ttl.
func (m *Manager) NewJWT(subject string, ttl time.Duration) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: now.Add(ttl).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    tokenIssuer,
		Subject:   subject,
	})

	return token.SignedString([]byte(m.signingKey))
}

// Parse validates accessToken and returns its subject.
func (m *Manager) Parse(accessToken string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	if claims.Issuer != tokenIssuer {
		return "", fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}

	return claims.Subject, nil
}
