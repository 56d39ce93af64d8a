package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	fbauth "firebase.google.com/go/auth"

	"illustraBack/internal/models"
)

const identityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseAuthenticator signs in through the Identity Toolkit password
// endpoint and verifies the returned ID token with the Admin SDK.
type FirebaseAuthenticator struct {
	APIKey     string
	Verifier   TokenVerifier
	HTTPClient *http.Client
	Endpoint   string
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, email, password string) (models.Identity, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return models.Identity{}, err
	}

	endpoint := a.Endpoint
	if endpoint == "" {
		endpoint = identityToolkitEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(a.APIKey), bytes.NewReader(payload))
	if err != nil {
		return models.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Identity{}, fmt.Errorf("identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Identity{}, fmt.Errorf("identity toolkit: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		if resp.StatusCode == http.StatusBadRequest {
			return models.Identity{}, fmt.Errorf("%w: %s", models.ErrInvalidCredentials, msg)
		}
		return models.Identity{}, fmt.Errorf("identity toolkit: %s", msg)
	}

	if a.Verifier != nil {
		token, err := a.Verifier.VerifyIDToken(ctx, out.IDToken)
		if err != nil {
			return models.Identity{}, fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
		}
		return models.Identity{UID: token.UID, Email: out.Email}, nil
	}
	return models.Identity{UID: out.LocalID, Email: out.Email}, nil
}
