package commission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmailJSDispatcherSend(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	d := &EmailJSDispatcher{HTTPClient: srv.Client(), Endpoint: srv.URL, ServiceID: "svc", PublicKey: "pub", PrivateKey: "priv"}
	if err := d.Send(context.Background(), "tpl", map[string]string{"to_email": "a@b.c"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.ServiceID != "svc" || got.TemplateID != "tpl" || got.UserID != "pub" || got.AccessToken != "priv" {
		t.Fatalf("payload = %+v", got)
	}
	if got.TemplateParams["to_email"] != "a@b.c" {
		t.Fatalf("params = %v", got.TemplateParams)
	}
}

func TestEmailJSDispatcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The template ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := &EmailJSDispatcher{HTTPClient: srv.Client(), Endpoint: srv.URL}
	if err := d.Send(context.Background(), "tpl", nil); err == nil {
		t.Fatal("expected error")
	}
}
