package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Department   string    `json:"department,omitempty" db:"department"`
	Position     string    `json:"position,omitempty" db:"position"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "user",
	}
}

// ValidRole reports whether role is one of the known access levels.
func ValidRole(role string) bool {
	switch role {
	case "user", "manager", "admin":
		return true
	}
	return false
}

type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=4"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type UpdateUserRequest struct {
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}
