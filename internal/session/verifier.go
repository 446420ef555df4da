package session

import (
	"bytes"
	"context"
	"crypto/subtle"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed credentials.yaml
var defaultCredentials []byte

// IdentityVerifier checks a credential pair for a requested role.
type IdentityVerifier interface {
	Verify(ctx context.Context, login, secret string, role enums.Role) (Identity, error)
}

// Credential is one row of a static credential table.
type Credential struct {
	Login       string `yaml:"login"`
	Secret      string `yaml:"secret"`
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role"`
}

type credentialFile struct {
	Accounts []Credential `yaml:"accounts"`
}

type account struct {
	login    string
	secret   []byte
	identity Identity
}

// StaticVerifier verifies against a fixed, role-partitioned table.
type StaticVerifier struct {
	byRole map[enums.Role][]account
}

var _ IdentityVerifier = (*StaticVerifier)(nil)

// DefaultVerifier returns the verifier for the embedded prototype accounts.
func DefaultVerifier() (*StaticVerifier, error) {
	return ParseCredentials(bytes.NewReader(defaultCredentials))
}

// LoadVerifier reads a YAML credential table from path, or the embedded
// table when path is empty.
func LoadVerifier(path string) (*StaticVerifier, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVerifier()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open credentials %s: %w", path, err)
	}
	defer f.Close()
	return ParseCredentials(f)
}

// ParseCredentials decodes a YAML credential table.
func ParseCredentials(r io.Reader) (*StaticVerifier, error) {
	var file credentialFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return NewStaticVerifier(file.Accounts)
}

// NewStaticVerifier validates the rows and builds the role partitions.
func NewStaticVerifier(rows []Credential) (*StaticVerifier, error) {
	v := &StaticVerifier{byRole: make(map[enums.Role][]account)}
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		role, err := enums.ParseRole(row.Role)
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", i, err)
		}
		login := normalizeLogin(row.Login)
		if login == "" {
			return nil, fmt.Errorf("credential %d: login is required", i)
		}
		if strings.TrimSpace(row.ID) == "" {
			return nil, fmt.Errorf("credential %d: id is required", i)
		}
		key := string(role) + "\x00" + login
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("credential %d: duplicate login %q for role %s", i, row.Login, role)
		}
		seen[key] = struct{}{}

		v.byRole[role] = append(v.byRole[role], account{
			login:  login,
			secret: []byte(row.Secret),
			identity: Identity{
				ID:          row.ID,
				DisplayName: row.DisplayName,
				Login:       strings.TrimSpace(row.Login),
				Role:        role,
			},
		})
	}
	if len(v.byRole) == 0 {
		return nil, fmt.Errorf("credential table is empty")
	}
	return v, nil
}

// Verify computes identifier and secret matches independently within the
// role's partition. When the identifier is unknown the secret counts as
// matched if any account of that role uses it.
func (v *StaticVerifier) Verify(_ context.Context, login, secret string, role enums.Role) (Identity, error) {
	if !role.IsValid() {
		return Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
			WithDetails(map[string]any{"role": role.String()})
	}
	accounts := v.byRole[role]
	wanted := normalizeLogin(login)
	given := []byte(secret)

	var matched *account
	for i := range accounts {
		if accounts[i].login == wanted {
			matched = &accounts[i]
			break
		}
	}

	if matched != nil {
		secretOK := subtle.ConstantTimeCompare(matched.secret, given) == 1
		if err := mismatchFor(true, secretOK); err != nil {
			return Identity{}, err
		}
		return matched.identity, nil
	}

	secretOK := false
	for i := range accounts {
		if subtle.ConstantTimeCompare(accounts[i].secret, given) == 1 {
			secretOK = true
		}
	}
	return Identity{}, mismatchFor(false, secretOK)
}

// Accounts reports how many rows carry role.
func (v *StaticVerifier) Accounts(role enums.Role) int {
	return len(v.byRole[role])
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
