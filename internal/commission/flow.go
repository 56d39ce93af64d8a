package commission

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"illustraBack/internal/models"
)

// Option is one entry of the service select input.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var otherLabels = map[string]string{"it": "Altro", "en": "Other"}

// Flow validates commission requests and dispatches their emails.
type Flow struct {
	deps Deps
}

func NewFlow(deps Deps) (*Flow, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return &Flow{deps: deps}, nil
}

// ServiceOptions lists the services a requester can pick plus "altro".
func (f *Flow) ServiceOptions(ctx context.Context, lang string) ([]Option, error) {
	titles, err := f.deps.Services.ServiceTitles(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("service options: %w", err)
	}
	opts := make([]Option, 0, len(titles)+1)
	for _, t := range titles {
		opts = append(opts, Option{Value: t, Label: t})
	}
	label, ok := otherLabels[lang]
	if !ok {
		label = otherLabels["it"]
	}
	return append(opts, Option{Value: OtherService, Label: label}), nil
}

// Submit sends the operator notification and the requester confirmation.
// It succeeds only when both emails were accepted; the request itself is
// never stored.
func (f *Flow) Submit(ctx context.Context, req models.CommissionRequest, lang string) error {
	req = Normalize(req)
	if err := Validate(req); err != nil {
		return err
	}

	if f.deps.Limiter != nil {
		ok, err := f.deps.Limiter.Allow(ctx, req.Email)
		if err != nil {
			// Limiter outages do not block requests.
			f.deps.Logger.Errorf("commission rate limit for %s: %v", req.Email, err)
		} else if !ok {
			return models.ErrRateLimited
		}
	}

	body := RenderBody(req, lang)
	subject, greeting := confirmationText(lang)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.deps.Dispatcher.Send(gctx, f.deps.OperatorTemplateID, map[string]string{
			"to_email":   f.deps.OperatorEmail,
			"from_name":  req.Name,
			"from_email": req.Email,
			"reply_to":   req.Email,
			"message":    body,
		})
	})
	g.Go(func() error {
		return f.deps.Dispatcher.Send(gctx, f.deps.RequesterTemplateID, map[string]string{
			"to_email": req.Email,
			"to_name":  req.Name,
			"subject":  subject,
			"greeting": greeting,
			"message":  body,
		})
	})
	if err := g.Wait(); err != nil {
		f.deps.Logger.Errorf("commission dispatch for %s: %v", req.Email, err)
		return fmt.Errorf("%w: %v", models.ErrDispatchFailed, err)
	}
	f.deps.Logger.Infof("commission request from %s dispatched (service %s)", req.Email, req.Service)

	if f.deps.Pusher != nil {
		err := f.deps.Pusher.Push(ctx, "Nuova commissione", req.Name+" - "+req.Service, map[string]string{
			"email":   req.Email,
			"service": req.Service,
		})
		if err != nil {
			f.deps.Logger.Errorf("commission push: %v", err)
		}
	}
	return nil
}
