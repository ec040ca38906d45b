package models

// Admin is a back-office account, kept apart from user accounts and without
// a role field.
type Admin struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	PasswordSalt string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
}

func (Admin) TableName() string {
	return "admins"
}
