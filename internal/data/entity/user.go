package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleStaff UserRole = "staff"
)

type User struct {
	Base
	WorkspaceID uuid.UUID  `db:"workspace_id"`
	Name        string     `db:"name"`
	Email       string     `db:"email"`
	Role        UserRole   `db:"role"`
	IsActive    bool       `db:"is_active"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
