// Package guard decides whether an identity may see a role-restricted view.
package guard

import (
	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/enums"
)

// Kind is the outcome of an access decision.
type Kind string

const (
	KindAllow           Kind = "allow"
	KindRedirectToLogin Kind = "redirect_to_login"
	KindRedirectHome    Kind = "redirect_home"
)

var validKinds = []Kind{KindAllow, KindRedirectToLogin, KindRedirectHome}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	for _, candidate := range validKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// HomePath is where an authenticated identity with the wrong role is sent.
const HomePath = "/"

var loginPaths = map[enums.Role]string{
	enums.RoleAdmin:    "/admin/login",
	enums.RoleCustomer: "/user/login",
}

// LoginPath returns the login view for role.
func LoginPath(role enums.Role) string {
	if path, ok := loginPaths[role]; ok {
		return path
	}
	return HomePath
}

// Decision carries the outcome plus where to send the client. Role is the
// required role for RedirectToLogin so the login view can preselect it.
type Decision struct {
	Kind     Kind       `json:"kind"`
	Role     enums.Role `json:"role,omitempty"`
	Location string     `json:"location,omitempty"`
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool {
	return d.Kind == KindAllow
}

// Decide is pure: it reads nothing but its arguments.
func Decide(identity *session.Identity, required enums.Role) Decision {
	if identity == nil {
		return Decision{Kind: KindRedirectToLogin, Role: required, Location: LoginPath(required)}
	}
	if identity.Role != required {
		return Decision{Kind: KindRedirectHome, Location: HomePath}
	}
	return Decision{Kind: KindAllow}
}
