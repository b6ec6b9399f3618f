package member

// Principal is the unified in-memory view of an authenticated identity for one
// request or session. It is materialized from a Member row (or a social
// provider response) and never persisted itself.
//
// Email is immutable for the lifetime of the value. Attributes is set exactly
// once, from the provider response of a social login, and is empty for
// password accounts.
type Principal struct {
	Email      string
	Password   string // stored hash, never the plaintext secret
	Name       string
	Roles      []string
	FromSocial bool
	Attributes map[string]any
}

// FromMember resolves a stored account into a Principal. It is total for any
// row written by this module: role codes map to authority tags by the ROLE_
// prefix convention.
func FromMember(m *Member) *Principal {
	roles, _ := m.RoleSet()
	tags := make([]string, 0, len(roles))
	for _, r := range roles {
		tags = append(tags, RolePrefix+string(r))
	}
	return &Principal{
		Email:      m.Email,
		Password:   m.Password,
		Name:       m.Name,
		Roles:      tags,
		FromSocial: m.FromSocial,
	}
}

// FromSocialMember resolves a stored account together with the provider
// attributes of the current social login event.
func FromSocialMember(m *Member, attrs map[string]any) *Principal {
	p := FromMember(m)
	p.FromSocial = true
	p.Attributes = attrs
	return p
}

// HasRole reports whether the principal carries the given authority tag.
// Bare role codes are accepted and prefixed before comparison.
func (p *Principal) HasRole(role string) bool {
	if len(role) < len(RolePrefix) || role[:len(RolePrefix)] != RolePrefix {
		role = RolePrefix + role
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
