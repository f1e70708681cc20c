package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casatienda/storefront-backend/pkg/config"
)

func testConfig(baseURL string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "+15550000001",
		Recipient:  "+15550000002",
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cfg := testConfig("https://api.twilio.com")
	cfg.AccountSID = ""
	if _, err := NewClient(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected missing account sid to error")
	}

	cfg = testConfig("https://api.twilio.com")
	cfg.Recipient = ""
	if _, err := NewClient(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected missing recipient to error")
	}
}

func TestSendPostsTwilioForm(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Send(context.Background(), "new order received"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotUser != "AC123" || gotPass != "token" {
		t.Fatalf("unexpected basic auth %s:%s", gotUser, gotPass)
	}
	if gotTo != "whatsapp:+15550000002" {
		t.Fatalf("unexpected To %s", gotTo)
	}
	if gotFrom != "whatsapp:+15550000001" {
		t.Fatalf("unexpected From %s", gotFrom)
	}
	if gotBody != "new order received" {
		t.Fatalf("unexpected Body %s", gotBody)
	}
}

func TestSendSurfacesTwilioErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 20003, "message": "authentication error"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
