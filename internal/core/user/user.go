package user

import (
	"time"

	"travelhub/internal/core/integrity"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// User is the account every user-owned row points at. Deleting it triggers
// the cascade / set-null rules of the trip and reservation tables.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" validate:"required,max=150"`
	Password  string    `gorm:"type:varchar(128);not null" json:"-" validate:"required"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error { return integrity.Check(u) }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
