package commission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSDispatcher sends templates through the EmailJS REST API.
type EmailJSDispatcher struct {
	HTTPClient *http.Client
	Endpoint   string
	ServiceID  string
	PublicKey  string
	PrivateKey string
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

func (d *EmailJSDispatcher) Send(ctx context.Context, templateID string, params map[string]string) error {
	payload, err := json.Marshal(emailJSRequest{
		ServiceID:      d.ServiceID,
		TemplateID:     templateID,
		UserID:         d.PublicKey,
		TemplateParams: params,
		AccessToken:    d.PrivateKey,
	})
	if err != nil {
		return err
	}

	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
