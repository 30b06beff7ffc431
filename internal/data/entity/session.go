package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is issued by the external sign-in service; this backend only
// reads it. WorkspaceID and Role are joined from the owning user.
type Session struct {
	BaseSimple
	UserID      uuid.UUID  `db:"user_id"`
	Token       uuid.UUID  `db:"token"`
	ExpiresAt   time.Time  `db:"expires_at"`
	RevokedAt   *time.Time `db:"revoked_at"`
	WorkspaceID uuid.UUID  `db:"workspace_id"`
	Role        UserRole   `db:"role"`
}
