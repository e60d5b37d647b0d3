package dbschema

import (
	"time"

	"jan-server/services/pairing-api/internal/domain/identity"
)

// User mirrors an identity provider principal.
type User struct {
	ID        string `gorm:"primaryKey;size:255"`
	Name      string `gorm:"type:text;not null;default:''"`
	Email     string `gorm:"type:text;not null;default:''"`
	AvatarURL string `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "pairing_api.users"
}

// EtoD converts the row to its public profile.
func (u *User) EtoD() *identity.Profile {
	if u == nil {
		return nil
	}
	return &identity.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// NewSchemaUser creates a row from a profile.
func NewSchemaUser(p identity.Profile) *User {
	return &User{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	}
}
