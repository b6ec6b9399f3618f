package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

// ErrUnsupportedProvider means no extraction rule exists for the provider.
var ErrUnsupportedProvider = errors.New("auth: unsupported social provider")

// PlaceholderPassword is assigned (hashed) to accounts created from a social
// login. The success handler nudges such members to replace it, see
// api.LoginSuccessHandler.
const PlaceholderPassword = "1111"

// SocialResolver turns a provider's user-info response into a Principal,
// creating the backing member row on first login.
type SocialResolver struct {
	store  domain.MemberStorage
	hasher domain.Hasher
}

func NewSocialResolver(store domain.MemberStorage, hasher domain.Hasher) *SocialResolver {
	return &SocialResolver{store: store, hasher: hasher}
}

// extractEmail applies the per-provider identity extraction rule.
func extractEmail(provider string, attrs map[string]any) (string, error) {
	switch provider {
	case "Google", "google":
		email, _ := attrs["email"].(string)
		if email == "" {
			return "", fmt.Errorf("auth: provider %s response has no email", provider)
		}
		return email, nil
	default:
		return "", ErrUnsupportedProvider
	}
}

// FromSocialLogin resolves the canonical identity from the provider response
// and finds or creates the matching member. The create path assigns the USER
// role and the hashed placeholder password; the find path returns the stored
// row unchanged; repeat logins never refresh name or attributes.
func (r *SocialResolver) FromSocialLogin(ctx context.Context, provider string, attrs map[string]any) (*member.Principal, error) {
	email, err := extractEmail(provider, attrs)
	if err != nil {
		return nil, err
	}

	hashed, err := r.hasher.Hash(PlaceholderPassword)
	if err != nil {
		return nil, err
	}

	fresh := &member.Member{
		Email:      email,
		Name:       email,
		Password:   hashed,
		FromSocial: true,
	}
	if err := fresh.SetRoleSet([]member.Role{member.RoleUser}); err != nil {
		return nil, err
	}

	m, err := r.store.FindOrCreateSocialMember(ctx, fresh)
	if err != nil {
		return nil, err
	}

	return member.FromSocialMember(m, attrs), nil
}
