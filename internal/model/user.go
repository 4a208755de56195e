package model

import "time"

type UserRole string

const (
	Editor UserRole = "editor"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;unique;not null" json:"name"`
	Password  string    `gorm:"column:pass;size:100;not null" json:"-"`
	Agent     string    `gorm:"column:agente;size:100" json:"agente"`
	Role      UserRole  `gorm:"type:enum('editor','admin');default:'editor'" json:"role"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "scorms_users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
