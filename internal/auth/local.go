package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"illustraBack/internal/models"
)

// LocalAuthenticator accepts the single admin configured with a bcrypt
// password hash.
type LocalAuthenticator struct {
	Email        string
	PasswordHash string
}

func (a *LocalAuthenticator) Authenticate(_ context.Context, email, password string) (models.Identity, error) {
	if a.PasswordHash == "" || !strings.EqualFold(strings.TrimSpace(email), a.Email) {
		return models.Identity{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return models.Identity{}, models.ErrInvalidCredentials
	}
	return models.Identity{UID: "local:" + strings.ToLower(a.Email), Email: a.Email}, nil
}
