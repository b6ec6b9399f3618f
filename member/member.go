package member

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// JSON is a custom type for handling JSON columns in GORM.
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = []byte(v)
	default:
		return errors.New("invalid type for JSON")
	}
	return nil
}

// Role is a stored role code. Authority tags are derived from it with the
// ROLE_ prefix, see Principal.Roles.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// RolePrefix is prepended to role codes when they become authority tags.
const RolePrefix = "ROLE_"

// Member is the persisted account record. Email doubles as the identifier;
// it never changes once the row exists.
type Member struct {
	Email      string         `gorm:"primaryKey" json:"email"`
	Password   string         `json:"-"`
	Name       string         `json:"name"`
	FromSocial bool           `json:"from_social"`
	Roles      JSON           `gorm:"type:json" json:"roles"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }

// RoleSet decodes the stored role codes. A row written by this module always
// has at least one role.
func (m *Member) RoleSet() ([]Role, error) {
	if len(m.Roles) == 0 {
		return nil, nil
	}
	var roles []Role
	if err := json.Unmarshal(m.Roles, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// SetRoleSet encodes role codes into the Roles column.
func (m *Member) SetRoleSet(roles []Role) error {
	b, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	m.Roles = b
	return nil
}

// Note is a member-authored note. Writer is the owning member's email.
type Note struct {
	Num         int64     `gorm:"primaryKey;autoIncrement" json:"num"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	WriterEmail string    `gorm:"index" json:"writer_email"`
	Writer      *Member   `gorm:"foreignKey:WriterEmail;references:Email" json:"writer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

// Membership links a member to a loyalty program. The pair (UserID,
// MembershipID) is the key.
type Membership struct {
	UserID           string    `gorm:"primaryKey;column:user_id" json:"user_id"`
	MembershipID     string    `gorm:"primaryKey" json:"membership_id"`
	MembershipName   string    `json:"membership_name"`
	MembershipStatus bool      `json:"membership_status"`
	Point            int       `json:"point"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Membership) TableName() string { return "membership" }

// Session is a persisted browser session established by form or social login.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	IssuedAt  time.Time `json:"issued_at"`
	Active    bool      `json:"active"`
}

func (Session) TableName() string { return "sessions" }
