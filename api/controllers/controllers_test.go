package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-core/api/responses"
	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/internal/storefront"
	"github.com/angelmondragon/storefront-core/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/store"
)

func newShell(t *testing.T) *storefront.Storefront {
	t.Helper()
	verifier, err := session.DefaultVerifier()
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	sf, err := storefront.New(context.Background(), storefront.Params{Store: store.NewMemory(), Verifier: verifier})
	if err != nil {
		t.Fatalf("storefront: %v", err)
	}
	return sf
}

func withProductID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) responses.APIError {
	t.Helper()
	var envelope responses.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	sf := newShell(t)
	handler := CartAddItem(sf, nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"id":"1","name":"Beras","unit_price":"65000"}`))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
	}

	resp := httptest.NewRecorder()
	CartFetch(sf).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	body := decodeCart(t, resp)
	if body.ItemCount != 2 || len(body.Lines) != 1 || body.Subtotal.String() != "130000" {
		t.Fatalf("unexpected cart %+v", body)
	}
}

func TestCartAddItemIgnoresZeroQuantity(t *testing.T) {
	sf := newShell(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"id":"1","name":"Beras","unit_price":"1","quantity":0}`))
	resp := httptest.NewRecorder()
	CartAddItem(sf, nil).ServeHTTP(resp, req)

	body := decodeCart(t, resp)
	if body.Changed == nil || *body.Changed || body.ItemCount != 0 {
		t.Fatalf("expected unchanged empty cart, got %+v", body)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	sf := newShell(t)
	cases := []string{
		`{"name":"Beras","unit_price":"1"}`,
		`{"id":"1","name":"Beras","unit_price":"-1"}`,
		`{"id":"1","name":"Beras","unit_price":"1","colour":"red"}`,
		`{"id":"1","name":"Beras","unit_price":"1","quantity":1000001}`,
	}
	for _, body := range cases {
		resp := httptest.NewRecorder()
		CartAddItem(sf, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.Code)
		}
	}
}

func TestCartUpdateAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	sf := newShell(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"1","name":"Beras","unit_price":"2","quantity":2}`))
	CartAddItem(sf, nil).ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	resp := httptest.NewRecorder()
	CartUpdateItem(sf, nil).ServeHTTP(resp, withProductID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":0}`)), "1"))
	if body := decodeCart(t, resp); body.ItemCount != 2 || *body.Changed {
		t.Fatalf("expected qty 0 ignored, got %+v", body)
	}

	resp = httptest.NewRecorder()
	CartUpdateItem(sf, nil).ServeHTTP(resp, withProductID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":5}`)), "1"))
	if body := decodeCart(t, resp); body.ItemCount != 5 || !*body.Changed {
		t.Fatalf("expected qty 5, got %+v", body)
	}

	resp = httptest.NewRecorder()
	CartUpdateItem(sf, nil).ServeHTTP(resp, withProductID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`)), "1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	CartRemoveItem(sf).ServeHTTP(resp, withProductID(httptest.NewRequest(http.MethodDelete, "/", nil), "1"))
	if body := decodeCart(t, resp); body.ItemCount != 0 || len(body.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", body)
	}
}

func TestSessionLoginMismatchReason(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"admin","secret":"wrong","role":"admin"}`))
	SessionLogin(sf, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	apiErr := decodeError(t, resp)
	details, _ := apiErr.Details.(map[string]any)
	if apiErr.Code != string(pkgerrors.CodeUnauthorized) || details["reason"] != "secret" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestSessionLoginInvalidRole(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"admin","secret":"admin123","role":"root"}`))
	SessionLogin(sf, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSessionLoginRoleMessage(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"admin","secret":"admin123","role":"owner"}`))
	SessionLogin(sf, nil).ServeHTTP(resp, req)

	apiErr := decodeError(t, resp)
	details, _ := apiErr.Details.(map[string]any)
	if resp.Code != http.StatusBadRequest || details["role"] != "must be one of admin customer user" {
		t.Fatalf("unexpected error %d %+v", resp.Code, apiErr)
	}
}

func TestCartUpdateItemRejectsOversizedQuantity(t *testing.T) {
	sf := newShell(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"1","name":"Beras","unit_price":"2"}`))
	CartAddItem(sf, nil).ServeHTTP(httptest.NewRecorder(), req)

	resp := httptest.NewRecorder()
	CartUpdateItem(sf, nil).ServeHTTP(resp, withProductID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":1000001}`)), "1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if sf.CartItemCount() != 1 {
		t.Fatalf("expected cart unchanged, got %d items", sf.CartItemCount())
	}
}

func TestSessionLoginAndLogout(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login":"user@nindyamart.com","secret":"user123","role":"user"}`))
	SessionLogin(sf, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data sessionResponse `json:"data"`
	}
	resp = httptest.NewRecorder()
	SessionCurrent(sf).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.Authenticated || envelope.Data.Identity.ID != "2" {
		t.Fatalf("unexpected session %+v", envelope.Data)
	}

	SessionLogout(sf).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/", nil))
	if sf.CurrentIdentity() != nil {
		t.Fatalf("expected anonymous after logout")
	}
}

func TestGuardCheck(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	GuardCheck(sf, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/guard?view=user/dashboard", nil))

	var envelope struct {
		Data struct {
			Kind     string `json:"kind"`
			Location string `json:"location"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Kind != "redirect_to_login" || envelope.Data.Location != "/user/login" {
		t.Fatalf("unexpected decision %+v", envelope.Data)
	}

	resp = httptest.NewRecorder()
	GuardCheck(sf, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/guard", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing view, got %d", resp.Code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	sf := newShell(t)
	resp := httptest.NewRecorder()
	CheckoutComplete(sf, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "dev"

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]store.Pinger{"redis": okPinger{}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]store.Pinger{"db": failingPinger{}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if got := resp.Header().Get(envHeader); got != "dev" {
		t.Fatalf("expected env header, got %q", got)
	}
}
