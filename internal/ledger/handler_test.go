package ledger

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/account_ledger/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	h := NewHandler(NewService(NewInMemory(), nil, logging.Discard()))
	app := fiber.New()
	group := app.Group("/account")
	group.Post("/create", h.Create)
	group.Get("/all", h.List)
	group.Get("/:accountNumber", h.Get)
	group.Put("/deposit/:accountNumber/:amount", h.Deposit)
	group.Put("/withdraw/:accountNumber/:amount", h.Withdraw)
	group.Delete("/delete/:accountNumber", h.Close)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, payload
}

func decodeAccount(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("invalid json %s: %v", string(payload), err)
	}
	return decoded
}

func TestHandlerAccountLifecycle(t *testing.T) {
	app := setupTestApp(t)

	status, payload := doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"John Doe","accountBalance":5000.0}`)
	if status != http.StatusCreated {
		t.Fatalf("create: expected %d got %d (%s)", http.StatusCreated, status, payload)
	}
	created := decodeAccount(t, payload)
	if created["accountNumber"] != float64(1) || created["accountHolderName"] != "John Doe" || created["accountBalance"] != float64(5000) {
		t.Fatalf("unexpected created account: %v", created)
	}

	status, payload = doRequest(t, app, fiber.MethodPut, "/account/deposit/1/1000", "")
	if status != http.StatusOK {
		t.Fatalf("deposit: expected 200 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != float64(6000) {
		t.Fatalf("expected balance 6000, got %v", got)
	}

	status, payload = doRequest(t, app, fiber.MethodPut, "/account/withdraw/1/500", "")
	if status != http.StatusOK {
		t.Fatalf("withdraw: expected 200 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != float64(5500) {
		t.Fatalf("expected balance 5500, got %v", got)
	}

	status, payload = doRequest(t, app, fiber.MethodGet, "/account/1", "")
	if status != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != float64(5500) {
		t.Fatalf("expected balance 5500, got %v", got)
	}

	status, payload = doRequest(t, app, fiber.MethodDelete, "/account/delete/1", "")
	if status != http.StatusOK || string(payload) != ClosedMessage {
		t.Fatalf("close: got %d %q", status, string(payload))
	}

	status, _ = doRequest(t, app, fiber.MethodGet, "/account/1", "")
	if status != http.StatusNotFound {
		t.Fatalf("get after close: expected 404 got %d", status)
	}
}

func TestHandlerListAccounts(t *testing.T) {
	app := setupTestApp(t)

	status, payload := doRequest(t, app, fiber.MethodGet, "/account/all", "")
	if status != http.StatusOK || strings.TrimSpace(string(payload)) != "[]" {
		t.Fatalf("empty list: got %d %s", status, payload)
	}

	doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"John Doe","accountBalance":5000}`)
	doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"Jane Smith","accountBalance":10000}`)

	status, payload = doRequest(t, app, fiber.MethodGet, "/account/all", "")
	if status != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", status)
	}
	var accounts []map[string]any
	if err := json.Unmarshal(payload, &accounts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(accounts) != 2 || accounts[0]["accountHolderName"] != "John Doe" || accounts[1]["accountHolderName"] != "Jane Smith" {
		t.Fatalf("unexpected accounts: %v", accounts)
	}
}

func TestHandlerNotFound(t *testing.T) {
	app := setupTestApp(t)

	cases := []struct {
		method string
		target string
	}{
		{fiber.MethodGet, "/account/999"},
		{fiber.MethodPut, "/account/deposit/999/1000"},
		{fiber.MethodPut, "/account/withdraw/999/1000"},
		{fiber.MethodDelete, "/account/delete/999"},
	}
	for _, tc := range cases {
		status, payload := doRequest(t, app, tc.method, tc.target, "")
		if status != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404 got %d", tc.method, tc.target, status)
		}
		if string(payload) != ErrAccountNotFound.Error() {
			t.Fatalf("%s %s: unexpected body %q", tc.method, tc.target, string(payload))
		}
	}
}

func TestHandlerRejectsMalformedInput(t *testing.T) {
	app := setupTestApp(t)
	doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"John Doe","accountBalance":5000}`)

	cases := []struct {
		method string
		target string
		body   string
	}{
		{fiber.MethodPost, "/account/create", `{not json`},
		{fiber.MethodGet, "/account/abc", ""},
		{fiber.MethodPut, "/account/deposit/abc/1000", ""},
		{fiber.MethodPut, "/account/deposit/1/ten", ""},
		{fiber.MethodPut, "/account/withdraw/1/ten", ""},
		{fiber.MethodDelete, "/account/delete/abc", ""},
	}
	for _, tc := range cases {
		if status, _ := doRequest(t, app, tc.method, tc.target, tc.body); status != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400 got %d", tc.method, tc.target, status)
		}
	}
}

func TestHandlerNegativeAndNonFiniteAmounts(t *testing.T) {
	app := setupTestApp(t)
	doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"John Doe","accountBalance":5000}`)

	status, payload := doRequest(t, app, fiber.MethodPut, "/account/deposit/1/-1000", "")
	if status != http.StatusOK {
		t.Fatalf("negative deposit: expected 200 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != float64(4000) {
		t.Fatalf("expected 4000, got %v", got)
	}

	status, payload = doRequest(t, app, fiber.MethodPut, "/account/deposit/1/NaN", "")
	if status != http.StatusOK {
		t.Fatalf("NaN deposit: expected 200 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != "NaN" {
		t.Fatalf("expected NaN balance, got %v", got)
	}
}

func TestHandlerCreateWithNullFields(t *testing.T) {
	app := setupTestApp(t)

	status, payload := doRequest(t, app, fiber.MethodPost, "/account/create", `{}`)
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", status)
	}
	created := decodeAccount(t, payload)
	if created["accountHolderName"] != nil || created["accountBalance"] != nil {
		t.Fatalf("expected null fields, got %v", created)
	}

	status, payload = doRequest(t, app, fiber.MethodPost, "/account/create", `{"accountHolderName":"Inf","accountBalance":"-Infinity"}`)
	if status != http.StatusCreated {
		t.Fatalf("create infinite: expected 201 got %d", status)
	}
	if got := decodeAccount(t, payload)["accountBalance"]; got != "-Infinity" {
		t.Fatalf("expected -Infinity, got %v", got)
	}
}
