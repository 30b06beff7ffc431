package entity

import "github.com/google/uuid"

type ContactSource string

const (
	ContactSourceBooking ContactSource = "booking"
	ContactSourceManual  ContactSource = "manual"
)

type Contact struct {
	Base
	WorkspaceID uuid.UUID     `db:"workspace_id"`
	Name        string        `db:"name"`
	Email       *string       `db:"email"`
	Phone       *string       `db:"phone"`
	Source      ContactSource `db:"source"`
}
