package guard

import (
	"strings"

	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/enums"
)

// Policy maps restricted views to the role they require. Views not listed
// are public.
type Policy map[string]enums.Role

// DefaultPolicy gates the two dashboards.
func DefaultPolicy() Policy {
	return Policy{
		"admin/dashboard": enums.RoleAdmin,
		"user/dashboard":  enums.RoleCustomer,
	}
}

// Required returns the role for view, normalizing slashes and case.
func (p Policy) Required(view string) (enums.Role, bool) {
	role, ok := p[normalizeView(view)]
	return role, ok
}

// Decide applies the policy for view.
func (p Policy) Decide(identity *session.Identity, view string) Decision {
	role, ok := p.Required(view)
	if !ok {
		return Decision{Kind: KindAllow}
	}
	return Decide(identity, role)
}

func normalizeView(view string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(view)), "/")
}
