package session

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-core/pkg/enums"
)

// Identity is the authenticated principal. It carries no secret.
type Identity struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Login       string     `json:"login"`
	Role        enums.Role `json:"role"`
}

// HasRole reports whether the identity carries role.
func (i Identity) HasRole(role enums.Role) bool {
	return i.Role == role
}

// normalize rejects records that cannot stand for a real identity and maps
// legacy role spellings onto the current ones.
func (i Identity) normalize() (Identity, error) {
	if strings.TrimSpace(i.ID) == "" {
		return Identity{}, fmt.Errorf("identity id is required")
	}
	role, err := enums.ParseRole(string(i.Role))
	if err != nil {
		return Identity{}, err
	}
	i.Role = role
	return i, nil
}
