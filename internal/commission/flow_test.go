package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"illustraBack/internal/models"
)

type sentEmail struct {
	template string
	params   map[string]string
}

type stubDispatcher struct {
	mu   sync.Mutex
	sent []sentEmail
	fail map[string]error
}

func (d *stubDispatcher) Send(_ context.Context, templateID string, params map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[templateID]; err != nil {
		return err
	}
	d.sent = append(d.sent, sentEmail{template: templateID, params: params})
	return nil
}

type stubLimiter struct {
	allow bool
	err   error
}

func (l stubLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.err }

type stubPusher struct {
	calls int
	err   error
}

func (p *stubPusher) Push(context.Context, string, string, map[string]string) error {
	p.calls++
	return p.err
}

type stubServices []string

func (s stubServices) ServiceTitles(context.Context, string) ([]string, error) { return s, nil }

type testLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *testLogger) Infof(string, ...interface{}) {}
func (l *testLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func validRequest() models.CommissionRequest {
	return models.CommissionRequest{
		Name:        "Giulia",
		Email:       "giulia@example.com",
		Service:     "Ritratto",
		Description: "Ritratto del mio gatto",
		Budget:      "50",
	}
}

func newTestFlow(t *testing.T, d *stubDispatcher, l Limiter, p Pusher) (*Flow, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	flow, err := NewFlow(Deps{
		Dispatcher:          d,
		Limiter:             l,
		Pusher:              p,
		Services:            stubServices{"Ritratto", "Logo"},
		Logger:              logger,
		OperatorEmail:       "studio@example.com",
		OperatorTemplateID:  "tpl_operator",
		RequesterTemplateID: "tpl_requester",
	})
	if err != nil {
		t.Fatal(err)
	}
	return flow, logger
}

func TestSubmitSendsBothEmails(t *testing.T) {
	d := &stubDispatcher{}
	p := &stubPusher{}
	flow, _ := newTestFlow(t, d, stubLimiter{allow: true}, p)

	if err := flow.Submit(context.Background(), validRequest(), "it"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(d.sent) != 2 {
		t.Fatalf("sent = %d emails", len(d.sent))
	}
	byTemplate := map[string]map[string]string{}
	for _, s := range d.sent {
		byTemplate[s.template] = s.params
	}
	if byTemplate["tpl_operator"]["to_email"] != "studio@example.com" {
		t.Fatalf("operator email = %+v", byTemplate["tpl_operator"])
	}
	if byTemplate["tpl_requester"]["to_email"] != "giulia@example.com" {
		t.Fatalf("requester email = %+v", byTemplate["tpl_requester"])
	}
	if !strings.Contains(byTemplate["tpl_operator"]["message"], "Ritratto del mio gatto") {
		t.Fatalf("message = %q", byTemplate["tpl_operator"]["message"])
	}
	if p.calls != 1 {
		t.Fatalf("push calls = %d", p.calls)
	}
}

func TestSubmitFailsWhenOneEmailFails(t *testing.T) {
	d := &stubDispatcher{fail: map[string]error{"tpl_requester": errors.New("quota")}}
	p := &stubPusher{}
	flow, logger := newTestFlow(t, d, nil, p)

	err := flow.Submit(context.Background(), validRequest(), "en")
	if !errors.Is(err, models.ErrDispatchFailed) {
		t.Fatalf("Submit = %v", err)
	}
	if p.calls != 0 {
		t.Fatal("push sent after failed dispatch")
	}
	if len(logger.errors) != 1 {
		t.Fatalf("logged errors = %v", logger.errors)
	}
}

func TestSubmitValidation(t *testing.T) {
	d := &stubDispatcher{}
	flow, _ := newTestFlow(t, d, nil, nil)

	req := validRequest()
	req.Email = "not-an-email"
	req.Description = "   "
	err := flow.Submit(context.Background(), req, "it")

	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, models.ErrInvalidRequest) {
		t.Fatalf("Submit = %v", err)
	}
	if verr.Fields["email"] != "invalid" || verr.Fields["description"] != "required" {
		t.Fatalf("fields = %v", verr.Fields)
	}
	if len(d.sent) != 0 {
		t.Fatal("emails sent for invalid request")
	}
}

func TestSubmitRateLimited(t *testing.T) {
	d := &stubDispatcher{}
	flow, _ := newTestFlow(t, d, stubLimiter{allow: false}, nil)
	if err := flow.Submit(context.Background(), validRequest(), "it"); !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("Submit = %v", err)
	}
}

func TestSubmitLimiterOutageAllows(t *testing.T) {
	d := &stubDispatcher{}
	flow, logger := newTestFlow(t, d, stubLimiter{err: errors.New("redis down")}, nil)
	if err := flow.Submit(context.Background(), validRequest(), "it"); err != nil {
		t.Fatalf("Submit = %v", err)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("logged errors = %v", logger.errors)
	}
}

func TestPushFailureIsOnlyLogged(t *testing.T) {
	d := &stubDispatcher{}
	flow, logger := newTestFlow(t, d, nil, &stubPusher{err: errors.New("fcm")})
	if err := flow.Submit(context.Background(), validRequest(), "it"); err != nil {
		t.Fatalf("Submit = %v", err)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("logged errors = %v", logger.errors)
	}
}

func TestServiceOptionsEndWithOther(t *testing.T) {
	flow, _ := newTestFlow(t, &stubDispatcher{}, nil, nil)
	opts, err := flow.ServiceOptions(context.Background(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 3 || opts[2].Value != OtherService || opts[2].Label != "Other" {
		t.Fatalf("options = %+v", opts)
	}
}

func TestDepsValidate(t *testing.T) {
	if _, err := NewFlow(Deps{}); err == nil {
		t.Fatal("expected error for empty deps")
	}
}
