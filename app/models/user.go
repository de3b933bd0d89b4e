package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// User mirrors the account table owned by the external auth service.
// The ledger core never creates or deletes users; it only references their IDs.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id" validate:"required"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Name      string    `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}
