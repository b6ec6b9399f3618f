package domain

import (
	"context"
	"errors"

	"github.com/pdh8788/club/member"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("storage: not found")

// Storage defines the interface for all persistence operations.
type Storage interface {
	MemberStorage
	SessionStorage
	NoteStorage
	MembershipStorage
}

type MemberStorage interface {
	// GetMemberByEmail returns the member with the given email and social
	// origin flag, or ErrNotFound.
	GetMemberByEmail(ctx context.Context, email string, fromSocial bool) (*member.Member, error)
	CreateMember(ctx context.Context, m *member.Member) error
	// FindOrCreateSocialMember returns the existing social member for the
	// email, creating the given row only if none exists. Concurrent calls for
	// the same email observe exactly one row.
	FindOrCreateSocialMember(ctx context.Context, m *member.Member) (*member.Member, error)
}

type SessionStorage interface {
	CreateSession(ctx context.Context, s *member.Session) error
	GetSession(ctx context.Context, id string) (*member.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type NoteStorage interface {
	CreateNote(ctx context.Context, n *member.Note) error
	GetNoteWithWriter(ctx context.Context, num int64) (*member.Note, error)
	ListNotesByWriter(ctx context.Context, email string) ([]member.Note, error)
	UpdateNote(ctx context.Context, n *member.Note) error
	DeleteNote(ctx context.Context, num int64) error
}

type MembershipStorage interface {
	SaveMembership(ctx context.Context, m *member.Membership) error
	GetMembership(ctx context.Context, userID, membershipID string) (*member.Membership, error)
	ListMemberships(ctx context.Context, userID string) ([]member.Membership, error)
	DeleteMembership(ctx context.Context, userID, membershipID string) error
}

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}
