package model

// User is the single admin account. The ID doubles as the login name;
// registration is closed permanently once one row exists.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:64"`
	Name         string `json:"name" gorm:"size:64;not null"`
	PasswordHash string `json:"-" gorm:"column:password;size:72;not null"`
}
