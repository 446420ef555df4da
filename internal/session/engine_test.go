package session

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/angelmondragon/storefront-core/pkg/store"
)

type brokenStore struct {
	store.Store
}

func (brokenStore) Set(context.Context, string, string) error { return errors.New("set unavailable") }
func (brokenStore) Remove(context.Context, string) error       { return errors.New("remove unavailable") }

func newTestEngine(t *testing.T, st store.Store) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), st, defaultVerifier(t), Options{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestNewEngineRequiresDependencies(t *testing.T) {
	if _, err := NewEngine(context.Background(), nil, defaultVerifier(t), Options{}); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := NewEngine(context.Background(), store.NewMemory(), nil, Options{}); err == nil {
		t.Fatalf("expected error for nil verifier")
	}
}

func TestLoginPersistsIdentity(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e := newTestEngine(t, st)

	identity, err := e.Login(ctx, "admin@nindyamart.com", "admin123", enums.RoleAdmin)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.ID != "1" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if !e.HasRole(enums.RoleAdmin) || e.HasRole(enums.RoleCustomer) {
		t.Fatalf("unexpected role checks for %+v", identity)
	}

	reloaded := newTestEngine(t, st)
	current, ok := reloaded.Current()
	if !ok || current != identity {
		t.Fatalf("expected identity to survive reload, got %+v ok=%v", current, ok)
	}
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e := newTestEngine(t, st)

	if _, err := e.Login(ctx, "admin", "nope", enums.RoleAdmin); mismatchReason(t, err) != MismatchSecret {
		t.Fatalf("expected secret mismatch")
	}
	if _, ok := e.Current(); ok {
		t.Fatalf("expected anonymous session")
	}
	if _, ok, _ := st.Get(ctx, store.KeySession); ok {
		t.Fatalf("expected nothing persisted")
	}

	if _, err := e.Login(ctx, "azmi", "azmi123", enums.RoleCustomer); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := e.Login(ctx, "x", "y", enums.RoleAdmin); mismatchReason(t, err) != MismatchBoth {
		t.Fatalf("expected both mismatch")
	}
	current, ok := e.Current()
	if !ok || current.ID != "azmi" {
		t.Fatalf("expected previous identity to be kept, got %+v", current)
	}
}

func TestReloginOverwritesIdentity(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, store.NewMemory())

	if _, err := e.Login(ctx, "azmi", "azmi123", enums.RoleCustomer); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := e.Login(ctx, "admin", "admin123", enums.RoleAdmin); err != nil {
		t.Fatalf("second login: %v", err)
	}
	current, _ := e.Current()
	if current.ID != "admin" || current.Role != enums.RoleAdmin {
		t.Fatalf("expected admin identity, got %+v", current)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e := newTestEngine(t, st)

	e.Logout(ctx)
	if _, err := e.Login(ctx, "azmi", "azmi123", enums.RoleCustomer); err != nil {
		t.Fatalf("login: %v", err)
	}
	e.Logout(ctx)
	e.Logout(ctx)

	if _, ok := e.Current(); ok {
		t.Fatalf("expected anonymous after logout")
	}
	if _, ok, _ := st.Get(ctx, store.KeySession); ok {
		t.Fatalf("expected session record removed")
	}
	if _, ok := newTestEngine(t, st).Current(); ok {
		t.Fatalf("expected anonymous after reload")
	}
}

func TestStoreFailuresDoNotFailSession(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, brokenStore{Store: store.NewMemory()})

	if _, err := e.Login(ctx, "azmi", "azmi123", enums.RoleCustomer); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !e.HasRole(enums.RoleCustomer) {
		t.Fatalf("expected in-memory identity despite persist failure")
	}
	e.Logout(ctx)
	if _, ok := e.Current(); ok {
		t.Fatalf("expected anonymous despite remove failure")
	}
}

func TestHydrateFallsBackToAnonymous(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{"id":`,
		"unknown role": `{"id":"1","display_name":"x","login":"x","role":"root"}`,
		"missing id":   `{"id":"","display_name":"x","login":"x","role":"admin"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemory()
			if err := st.Set(context.Background(), store.KeySession, raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if _, ok := newTestEngine(t, st).Current(); ok {
				t.Fatalf("expected anonymous session")
			}
		})
	}
}

func TestHydrateAcceptsLegacyRole(t *testing.T) {
	st := store.NewMemory()
	raw := `{"id":"2","display_name":"Customer NindyaMart","login":"user@nindyamart.com","role":"user"}`
	if err := st.Set(context.Background(), store.KeySession, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	e := newTestEngine(t, st)
	if !e.HasRole(enums.RoleCustomer) {
		t.Fatalf("expected legacy user role to hydrate as customer")
	}
}
