package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
)

func defaultVerifier(t *testing.T) *StaticVerifier {
	t.Helper()
	v, err := DefaultVerifier()
	if err != nil {
		t.Fatalf("default verifier: %v", err)
	}
	return v
}

func mismatchReason(t *testing.T, err error) MismatchReason {
	t.Helper()
	var mismatch *CredentialMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected credential mismatch, got %v", err)
	}
	return mismatch.Reason
}

func TestDefaultVerifierPartitions(t *testing.T) {
	v := defaultVerifier(t)
	if got := v.Accounts(enums.RoleAdmin); got != 2 {
		t.Fatalf("expected 2 admin accounts, got %d", got)
	}
	if got := v.Accounts(enums.RoleCustomer); got != 3 {
		t.Fatalf("expected 3 customer accounts, got %d", got)
	}
}

func TestVerifySuccess(t *testing.T) {
	v := defaultVerifier(t)
	cases := []struct {
		login, secret string
		role          enums.Role
		wantID        string
	}{
		{"admin", "admin123", enums.RoleAdmin, "admin"},
		{"admin@nindyamart.com", "admin123", enums.RoleAdmin, "1"},
		{"azmi", "azmi123", enums.RoleCustomer, "azmi"},
		{"  User@NindyaMart.com ", "user123", enums.RoleCustomer, "2"},
		{"customer@nindyamart.com", "customer123", enums.RoleCustomer, "3"},
	}
	for _, tc := range cases {
		identity, err := v.Verify(context.Background(), tc.login, tc.secret, tc.role)
		if err != nil {
			t.Fatalf("verify %s: %v", tc.login, err)
		}
		if identity.ID != tc.wantID || identity.Role != tc.role {
			t.Fatalf("verify %s: unexpected identity %+v", tc.login, identity)
		}
	}
}

func TestVerifyMismatchReasons(t *testing.T) {
	v := defaultVerifier(t)
	cases := []struct {
		name          string
		login, secret string
		role          enums.Role
		want          MismatchReason
	}{
		{"wrong secret", "admin", "wrong", enums.RoleAdmin, MismatchSecret},
		{"wrong identifier", "root", "admin123", enums.RoleAdmin, MismatchIdentifier},
		{"both wrong", "x", "y", enums.RoleAdmin, MismatchBoth},
		{"secret of other account", "admin", "azmi123", enums.RoleAdmin, MismatchSecret},
		{"customer login in admin partition", "azmi", "azmi123", enums.RoleAdmin, MismatchBoth},
		{"admin login in customer partition", "admin", "admin123", enums.RoleCustomer, MismatchBoth},
		{"secret is case sensitive", "azmi", "AZMI123", enums.RoleCustomer, MismatchSecret},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tc.login, tc.secret, tc.role)
			if got := mismatchReason(t, err); got != tc.want {
				t.Fatalf("expected reason %s, got %s", tc.want, got)
			}
		})
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	v := defaultVerifier(t)
	_, err := v.Verify(context.Background(), "admin", "admin123", enums.Role("superuser"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewStaticVerifierRejectsBadRows(t *testing.T) {
	cases := map[string][]Credential{
		"empty":     nil,
		"bad role":  {{Login: "a", Secret: "b", ID: "1", Role: "owner"}},
		"no login":  {{Login: " ", Secret: "b", ID: "1", Role: "admin"}},
		"no id":     {{Login: "a", Secret: "b", Role: "admin"}},
		"duplicate": {{Login: "a", Secret: "b", ID: "1", Role: "admin"}, {Login: "A", Secret: "c", ID: "2", Role: "admin"}},
	}
	for name, rows := range cases {
		if _, err := NewStaticVerifier(rows); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadVerifierFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	body := strings.Join([]string{
		"accounts:",
		"  - login: ops",
		"    secret: s3cret",
		"    id: ops-1",
		"    display_name: Ops",
		"    role: user",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	v, err := LoadVerifier(path)
	if err != nil {
		t.Fatalf("load verifier: %v", err)
	}
	identity, err := v.Verify(context.Background(), "ops", "s3cret", enums.RoleCustomer)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.ID != "ops-1" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if v.Accounts(enums.RoleAdmin) != 0 {
		t.Fatalf("expected override to replace embedded table")
	}
}

func TestLoadVerifierRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	if err := os.WriteFile(path, []byte("accounts:\n  - login: a\n    password: b\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadVerifier(path); err == nil {
		t.Fatalf("expected decode error for unknown field")
	}
}
