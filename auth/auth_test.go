package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

type mockMemberStore struct {
	members map[string]*member.Member // key: email + social flag
	creates int
}

func key(email string, fromSocial bool) string {
	if fromSocial {
		return email + ":social"
	}
	return email + ":local"
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{members: make(map[string]*member.Member)}
}

func (s *mockMemberStore) GetMemberByEmail(_ context.Context, email string, fromSocial bool) (*member.Member, error) {
	m, ok := s.members[key(email, fromSocial)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *mockMemberStore) CreateMember(_ context.Context, m *member.Member) error {
	s.members[key(m.Email, m.FromSocial)] = m
	s.creates++
	return nil
}

func (s *mockMemberStore) FindOrCreateSocialMember(ctx context.Context, fresh *member.Member) (*member.Member, error) {
	if m, ok := s.members[key(fresh.Email, true)]; ok {
		cp := *m
		return &cp, nil
	}
	if err := s.CreateMember(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func seedMember(t *testing.T, store *mockMemberStore, hasher domain.Hasher, email, password string) {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	m := &member.Member{Email: email, Password: hash, Name: "tester"}
	if err := m.SetRoleSet([]member.Role{member.RoleUser, member.RoleManager}); err != nil {
		t.Fatalf("failed to set roles: %v", err)
	}
	if err := store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newMockMemberStore()
	hasher := NewBcryptHasher(4)
	seedMember(t, store, hasher, "u@x.com", "right")

	a := NewAuthenticator(store, hasher)
	ctx := context.Background()

	p, err := a.Authenticate(ctx, Attempt{Email: "u@x.com", Secret: "right"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if p.Email != "u@x.com" {
		t.Errorf("expected identity u@x.com, got %q", p.Email)
	}
	if !p.HasRole("USER") || !p.HasRole("ROLE_MANAGER") {
		t.Errorf("expected USER and MANAGER roles, got %v", p.Roles)
	}
	if p.FromSocial {
		t.Error("local account should not be marked social")
	}

	if _, err := a.Authenticate(ctx, Attempt{Email: "u@x.com", Secret: "wrong"}); !errors.Is(err, ErrBadCredential) {
		t.Errorf("expected ErrBadCredential, got %v", err)
	}

	if _, err := a.Authenticate(ctx, Attempt{Email: "nouser@x.com", Secret: "right"}); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	if _, err := a.Authenticate(ctx, Attempt{Email: "", Secret: "right"}); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestAuthenticateDoesNotMutate(t *testing.T) {
	store := newMockMemberStore()
	hasher := NewBcryptHasher(4)
	seedMember(t, store, hasher, "u@x.com", "right")

	a := NewAuthenticator(store, hasher)
	before := *store.members[key("u@x.com", false)]

	a.Authenticate(context.Background(), Attempt{Email: "u@x.com", Secret: "right"})
	a.Authenticate(context.Background(), Attempt{Email: "u@x.com", Secret: "wrong"})

	after := *store.members[key("u@x.com", false)]
	if before.Password != after.Password || string(before.Roles) != string(after.Roles) {
		t.Error("authenticate must not mutate the account")
	}
}

func TestSocialLoginIdempotent(t *testing.T) {
	store := newMockMemberStore()
	hasher := NewBcryptHasher(4)
	r := NewSocialResolver(store, hasher)
	ctx := context.Background()

	attrs := map[string]any{"email": "a@b.com", "name": "A B", "picture": "http://img"}

	p1, err := r.FromSocialLogin(ctx, "Google", attrs)
	if err != nil {
		t.Fatalf("first social login failed: %v", err)
	}
	if p1.Email != "a@b.com" {
		t.Errorf("expected identity a@b.com, got %q", p1.Email)
	}
	if !p1.FromSocial {
		t.Error("social principal must be flagged as such")
	}
	if p1.Attributes["picture"] != "http://img" {
		t.Error("provider attributes missing from principal")
	}
	if !p1.HasRole("USER") {
		t.Errorf("new social member should get the USER role, got %v", p1.Roles)
	}
	if !hasher.Compare(PlaceholderPassword, p1.Password) {
		t.Error("new social member should carry the hashed placeholder password")
	}

	stored := *store.members[key("a@b.com", true)]

	p2, err := r.FromSocialLogin(ctx, "Google", attrs)
	if err != nil {
		t.Fatalf("second social login failed: %v", err)
	}
	if p2.Email != p1.Email {
		t.Errorf("expected same account, got %q and %q", p1.Email, p2.Email)
	}
	if store.creates != 1 {
		t.Errorf("expected exactly one account creation, got %d", store.creates)
	}

	after := *store.members[key("a@b.com", true)]
	if stored.Password != after.Password || string(stored.Roles) != string(after.Roles) {
		t.Error("repeat social login must not alter roles or credential hash")
	}
}

func TestSocialLoginUnsupportedProvider(t *testing.T) {
	store := newMockMemberStore()
	r := NewSocialResolver(store, NewBcryptHasher(4))

	_, err := r.FromSocialLogin(context.Background(), "Kakao", map[string]any{"email": "a@b.com"})
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestSocialLoginMissingEmail(t *testing.T) {
	store := newMockMemberStore()
	r := NewSocialResolver(store, NewBcryptHasher(4))

	if _, err := r.FromSocialLogin(context.Background(), "Google", map[string]any{}); err == nil {
		t.Error("expected error when provider response has no email")
	}
}
