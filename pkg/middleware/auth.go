package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCache is satisfied by *cache.SessionCache.
type SessionCache interface {
	Get(ctx context.Context, token string) (*utils.Session, error)
	Set(ctx context.Context, s *utils.Session, expiresAt time.Time) error
}

// AuthSession resolves the bearer token to a session and stores it in the
// request context. cache may be nil.
func AuthSession(sessionRepo repository.SessionRepository, cache SessionCache, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			if _, err := uuid.Parse(token); err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := r.Context()

			// A cache hit is trusted until the entry lapses, at most the cache
			// TTL and never past the session expiry.
			if cache != nil {
				cached, err := cache.Get(ctx, token)
				if err != nil {
					logger.Warn("Session cache unavailable", zap.Error(err))
				}
				if cached != nil {
					next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(ctx, cached)))
					return
				}
			}

			session, err := sessionRepo.FindValidSession(ctx, token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			s := &utils.Session{
				UserID:      session.UserID,
				WorkspaceID: session.WorkspaceID,
				Role:        string(session.Role),
				Token:       token,
			}

			if cache != nil {
				if err := cache.Set(ctx, s, session.ExpiresAt); err != nil {
					logger.Warn("Failed to cache session", zap.Error(err))
				}
			}

			next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(ctx, s)))
		})
	}
}

// Owner lets only active workspace owners through. Must run after
// AuthSession.
func Owner(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utils.GetSessionFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Owner check: failed to get user",
					zap.Error(err), zap.String("user_id", session.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || !user.IsActive || user.Role != entity.RoleOwner || user.WorkspaceID != session.WorkspaceID {
				logger.Warn("Owner check: access denied",
					zap.String("user_id", session.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Owner access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
