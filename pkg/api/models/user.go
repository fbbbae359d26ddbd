package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model

	Email string

	OrgID uint
}

func (u User) GoString() string {
	return fmt.Sprintf("{ID: %d, Email: %s, OrgID: %d}", u.ID, u.Email, u.OrgID)
}

func (u *User) Create(db *gorm.DB) error {
	return db.Create(u).Error
}
