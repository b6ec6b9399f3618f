package persistence

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

func setupRepo(t *testing.T) domain.Storage {
	t.Helper()
	dbPath := "test_club.db"
	t.Cleanup(func() { os.Remove(dbPath) })

	repo, err := NewStorage("sqlite", dbPath, nil)
	if err != nil {
		t.Fatalf("failed to setup repo: %v", err)
	}
	return repo
}

func TestMemberLookupBySocialFlag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	local := &member.Member{Email: "user1@zerock.org", Password: "hash", Name: "user1"}
	local.SetRoleSet([]member.Role{member.RoleUser})
	if err := repo.CreateMember(ctx, local); err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	got, err := repo.GetMemberByEmail(ctx, "user1@zerock.org", false)
	if err != nil {
		t.Fatalf("failed to look up member: %v", err)
	}
	if got.Name != "user1" {
		t.Errorf("expected name user1, got %q", got.Name)
	}

	// Same email under the social flag does not exist.
	if _, err := repo.GetMemberByEmail(ctx, "user1@zerock.org", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := repo.GetMemberByEmail(ctx, "nobody@zerock.org", false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindOrCreateSocialMember(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	fresh := &member.Member{Email: "a@b.com", Name: "a@b.com", Password: "hash1", FromSocial: true}
	fresh.SetRoleSet([]member.Role{member.RoleUser})

	first, err := repo.FindOrCreateSocialMember(ctx, fresh)
	if err != nil {
		t.Fatalf("first find-or-create failed: %v", err)
	}

	again := &member.Member{Email: "a@b.com", Name: "different", Password: "hash2", FromSocial: true}
	again.SetRoleSet([]member.Role{member.RoleUser, member.RoleAdmin})

	second, err := repo.FindOrCreateSocialMember(ctx, again)
	if err != nil {
		t.Fatalf("second find-or-create failed: %v", err)
	}

	if second.Password != first.Password {
		t.Error("repeat login must not replace the stored credential hash")
	}
	if second.Name != first.Name {
		t.Error("repeat login must not refresh the stored name")
	}
	if string(second.Roles) != string(first.Roles) {
		t.Error("repeat login must not alter the stored role set")
	}
}

func TestNoteCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	writer := &member.Member{Email: "writer@zerock.org", Password: "hash", Name: "writer"}
	writer.SetRoleSet([]member.Role{member.RoleUser})
	if err := repo.CreateMember(ctx, writer); err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	n := &member.Note{Title: "first", Content: "hello", WriterEmail: "writer@zerock.org"}
	if err := repo.CreateNote(ctx, n); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	if n.Num == 0 {
		t.Fatal("expected an assigned note number")
	}

	got, err := repo.GetNoteWithWriter(ctx, n.Num)
	if err != nil {
		t.Fatalf("failed to read note: %v", err)
	}
	if got.Writer == nil || got.Writer.Name != "writer" {
		t.Error("expected the writer to be loaded with the note")
	}

	n.Title = "changed"
	if err := repo.UpdateNote(ctx, n); err != nil {
		t.Fatalf("failed to update note: %v", err)
	}

	list, err := repo.ListNotesByWriter(ctx, "writer@zerock.org")
	if err != nil {
		t.Fatalf("failed to list notes: %v", err)
	}
	if len(list) != 1 || list[0].Title != "changed" {
		t.Errorf("unexpected note list %v", list)
	}

	if err := repo.DeleteNote(ctx, n.Num); err != nil {
		t.Fatalf("failed to delete note: %v", err)
	}
	if _, err := repo.GetNoteWithWriter(ctx, n.Num); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.UpdateNote(ctx, n); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a deleted note, got %v", err)
	}
}

func TestMembershipPoints(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	m := &member.Membership{UserID: "test1", MembershipID: "spc", MembershipName: "happypoint", MembershipStatus: true, Point: 100}
	if err := repo.SaveMembership(ctx, m); err != nil {
		t.Fatalf("failed to save membership: %v", err)
	}

	got, err := repo.GetMembership(ctx, "test1", "spc")
	if err != nil {
		t.Fatalf("failed to read membership: %v", err)
	}
	if got.Point != 100 {
		t.Errorf("expected 100 points, got %d", got.Point)
	}

	list, err := repo.ListMemberships(ctx, "test1")
	if err != nil {
		t.Fatalf("failed to list memberships: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 membership, got %d", len(list))
	}

	if err := repo.DeleteMembership(ctx, "test1", "spc"); err != nil {
		t.Fatalf("failed to delete membership: %v", err)
	}
	if _, err := repo.GetMembership(ctx, "test1", "spc"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
