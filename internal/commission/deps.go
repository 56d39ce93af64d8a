package commission

import (
	"context"
	"errors"
)

// Logger provides minimal logging required by the commission flow.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Dispatcher sends one transactional email template.
type Dispatcher interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

// Limiter decides whether another request for key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Pusher delivers an operator push notification.
type Pusher interface {
	Push(ctx context.Context, title, body string, data map[string]string) error
}

// ServiceLister yields the localized titles of the offered services.
type ServiceLister interface {
	ServiceTitles(ctx context.Context, lang string) ([]string, error)
}

// Deps groups the collaborators of the commission flow. Limiter and Pusher
// are optional.
type Deps struct {
	Dispatcher Dispatcher
	Limiter    Limiter
	Pusher     Pusher
	Services   ServiceLister
	Logger     Logger

	OperatorEmail       string
	OperatorTemplateID  string
	RequesterTemplateID string
}

// Validate ensures required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Dispatcher == nil {
		return errors.New("commission deps: Dispatcher is required")
	}
	if d.Services == nil {
		return errors.New("commission deps: Services is required")
	}
	if d.Logger == nil {
		return errors.New("commission deps: Logger is required")
	}
	if d.OperatorEmail == "" {
		return errors.New("commission deps: OperatorEmail is required")
	}
	return nil
}
