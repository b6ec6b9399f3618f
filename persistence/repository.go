package persistence

import (
	"context"
	"errors"

	"github.com/glebarez/sqlite"
	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository implements domain.Storage on top of GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func init() {
	Register("sqlite", sqlite.Open)
	Register("postgres", postgres.Open)
	Register("mysql", mysql.Open)
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&member.Member{},
		&member.Note{},
		&member.Membership{},
		&member.Session{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func (r *Repository) GetMemberByEmail(ctx context.Context, email string, fromSocial bool) (*member.Member, error) {
	var m member.Member
	err := r.db.WithContext(ctx).
		Where("email = ? AND from_social = ?", email, fromSocial).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *Repository) CreateMember(ctx context.Context, m *member.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindOrCreateSocialMember inserts the row, falling back to the existing one
// when the email is already taken. The email primary key is the idempotency
// guard: two concurrent first logins race on the insert and the loser re-reads
// the winner's row.
func (r *Repository) FindOrCreateSocialMember(ctx context.Context, fresh *member.Member) (*member.Member, error) {
	var m member.Member
	err := r.db.WithContext(ctx).
		Where("email = ? AND from_social = ?", fresh.Email, true).
		First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if createErr := r.db.WithContext(ctx).Create(fresh).Error; createErr != nil {
		// Lost the race: the row exists now, return it.
		err = r.db.WithContext(ctx).
			Where("email = ? AND from_social = ?", fresh.Email, true).
			First(&m).Error
		if err != nil {
			return nil, createErr
		}
		return &m, nil
	}
	return fresh, nil
}

func (r *Repository) CreateSession(ctx context.Context, s *member.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) GetSession(ctx context.Context, id string) (*member.Session, error) {
	var s member.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&member.Session{}, "id = ?", id).Error
}

func (r *Repository) CreateNote(ctx context.Context, n *member.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Repository) GetNoteWithWriter(ctx context.Context, num int64) (*member.Note, error) {
	var n member.Note
	err := r.db.WithContext(ctx).Preload("Writer").First(&n, "num = ?", num).Error
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *Repository) ListNotesByWriter(ctx context.Context, email string) ([]member.Note, error) {
	var notes []member.Note
	err := r.db.WithContext(ctx).Preload("Writer").
		Where("writer_email = ?", email).
		Order("num").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *Repository) UpdateNote(ctx context.Context, n *member.Note) error {
	res := r.db.WithContext(ctx).Model(&member.Note{}).
		Where("num = ?", n.Num).
		Updates(map[string]any{"title": n.Title, "content": n.Content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteNote(ctx context.Context, num int64) error {
	return r.db.WithContext(ctx).Delete(&member.Note{}, "num = ?", num).Error
}

func (r *Repository) SaveMembership(ctx context.Context, m *member.Membership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *Repository) GetMembership(ctx context.Context, userID, membershipID string) (*member.Membership, error) {
	var m member.Membership
	err := r.db.WithContext(ctx).
		First(&m, "user_id = ? AND membership_id = ?", userID, membershipID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *Repository) ListMemberships(ctx context.Context, userID string) ([]member.Membership, error) {
	var list []member.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) DeleteMembership(ctx context.Context, userID, membershipID string) error {
	return r.db.WithContext(ctx).
		Delete(&member.Membership{}, "user_id = ? AND membership_id = ?", userID, membershipID).Error
}
