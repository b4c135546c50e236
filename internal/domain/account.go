package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleStaff
}

type Account struct {
	Name         string    `yaml:"name"`
	PasswordHash string    `yaml:"passwordHash"`
	Role         Role      `yaml:"role"`
	CreatedAt    time.Time `yaml:"createdAt"`
}
