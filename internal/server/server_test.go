package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/congo-pay/account_ledger/internal/config"
	"github.com/congo-pay/account_ledger/internal/logging"
)

func TestNewServesHealthAndShutsDown(t *testing.T) {
	cfg := config.Config{AppName: "AccountLedger", AppEnv: "test", Port: "0"}
	srv, err := New(cfg, nil, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewFailsWithoutDatabaseInProduction(t *testing.T) {
	cfg := config.Config{AppName: "AccountLedger", AppEnv: "production"}
	if _, err := New(cfg, nil, nil, nil, logging.Discard()); err == nil {
		t.Fatal("expected error without database")
	}
}
