package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the authenticated caller resolved by the auth middleware.
type Session struct {
	UserID      uuid.UUID `json:"user_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Role        string    `json:"role"`
	Token       string    `json:"-"`
}

func SetSessionContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
