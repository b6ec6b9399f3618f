// Package auth makes the credential authentication decision and reconciles
// social-provider identities into the shared member space.
package auth

import (
	"context"
	"errors"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

var (
	// ErrMissingIdentity means the attempt carried no identifier.
	ErrMissingIdentity = errors.New("email cannot be null")
	// ErrAccountNotFound means no password account matches the identifier.
	ErrAccountNotFound = errors.New("Check Email or Social")
	// ErrBadCredential means the presented secret does not match the stored hash.
	ErrBadCredential = errors.New("Bad credentials")
)

// Attempt carries presented credentials into one authentication decision. It
// is never persisted; the secret must not be logged.
type Attempt struct {
	Email  string
	Secret string
}

// Authenticator decides whether presented credentials identify a member.
// It reads account state and never mutates it.
type Authenticator struct {
	store  domain.MemberStorage
	hasher domain.Hasher
}

func NewAuthenticator(store domain.MemberStorage, hasher domain.Hasher) *Authenticator {
	return &Authenticator{store: store, hasher: hasher}
}

// Authenticate resolves the attempt into a Principal or one of
// ErrMissingIdentity, ErrAccountNotFound, ErrBadCredential. The three kinds
// stay distinguishable here; the HTTP boundary collapses them into a single
// 401 so callers cannot probe which half of the pair was wrong.
func (a *Authenticator) Authenticate(ctx context.Context, attempt Attempt) (*member.Principal, error) {
	if attempt.Email == "" {
		return nil, ErrMissingIdentity
	}

	m, err := a.store.GetMemberByEmail(ctx, attempt.Email, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if !a.hasher.Compare(attempt.Secret, m.Password) {
		return nil, ErrBadCredential
	}

	return member.FromMember(m), nil
}
