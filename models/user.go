package models

import (
	"penjahit-backend/utils"
	"time"

	"gorm.io/gorm"
)

// User is a shop operator who can log in, take orders and move them through
// the production pipeline.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"idUser"`
	Username  string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string `gorm:"size:100;not null" json:"namaLengkap"`
	AvatarURL string `gorm:"size:255" json:"fotoProfil,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate hashes plain-text passwords before they reach the table.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if utils.IsPasswordHash(u.Password) {
		return nil
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}
