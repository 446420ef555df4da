package guard

import (
	"testing"

	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/enums"
)

func identity(role enums.Role) *session.Identity {
	return &session.Identity{ID: "1", DisplayName: "Test", Login: "test", Role: role}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		identity *session.Identity
		required enums.Role
		want     Decision
	}{
		{"anonymous admin view", nil, enums.RoleAdmin, Decision{Kind: KindRedirectToLogin, Role: enums.RoleAdmin, Location: "/admin/login"}},
		{"anonymous customer view", nil, enums.RoleCustomer, Decision{Kind: KindRedirectToLogin, Role: enums.RoleCustomer, Location: "/user/login"}},
		{"customer on admin view", identity(enums.RoleCustomer), enums.RoleAdmin, Decision{Kind: KindRedirectHome, Location: "/"}},
		{"admin on customer view", identity(enums.RoleAdmin), enums.RoleCustomer, Decision{Kind: KindRedirectHome, Location: "/"}},
		{"admin on admin view", identity(enums.RoleAdmin), enums.RoleAdmin, Decision{Kind: KindAllow}},
		{"customer on customer view", identity(enums.RoleCustomer), enums.RoleCustomer, Decision{Kind: KindAllow}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.identity, tc.required)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
			if !got.Kind.IsValid() {
				t.Fatalf("invalid kind %q", got.Kind)
			}
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	who := identity(enums.RoleCustomer)
	first := Decide(who, enums.RoleAdmin)
	for i := 0; i < 10; i++ {
		if got := Decide(who, enums.RoleAdmin); got != first {
			t.Fatalf("decision changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestPolicyDecide(t *testing.T) {
	p := DefaultPolicy()

	if d := p.Decide(nil, "/admin/dashboard/"); d.Kind != KindRedirectToLogin || d.Location != "/admin/login" {
		t.Fatalf("unexpected decision for admin dashboard: %+v", d)
	}
	if d := p.Decide(nil, "User/Dashboard"); d.Kind != KindRedirectToLogin || d.Role != enums.RoleCustomer {
		t.Fatalf("unexpected decision for user dashboard: %+v", d)
	}
	if d := p.Decide(nil, "catalog"); !d.Allowed() {
		t.Fatalf("expected public view to be allowed, got %+v", d)
	}
	if d := p.Decide(identity(enums.RoleAdmin), "user/dashboard"); d.Kind != KindRedirectHome {
		t.Fatalf("expected admin redirected home from user dashboard, got %+v", d)
	}
}

func TestLoginPathUnknownRole(t *testing.T) {
	if got := LoginPath(enums.Role("ghost")); got != HomePath {
		t.Fatalf("expected home path for unknown role, got %s", got)
	}
}
