package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careops/internal/data/entity"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, token string) (*utils.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*utils.Session)
	return s, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, s *utils.Session, expiresAt time.Time) error {
	return m.Called(ctx, s, expiresAt).Error(0)
}

var (
	userID      = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	workspaceID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	token       = "33333333-3333-4333-8333-333333333333"
)

// echoSession responds 200 with the role of the session in context.
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	s, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(s.Role))
})

func authRequest(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestAuthSession_RejectsBadHeaders(t *testing.T) {
	repo := &mockSessionRepo{}
	h := AuthSession(repo, nil, zap.NewNop())(echoSession)

	for _, header := range []string{"", "Token " + token, "Bearer ", "Bearer not-a-uuid"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(header))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	repo.AssertNotCalled(t, "FindValidSession", mock.Anything, mock.Anything)
}

func TestAuthSession_ValidSessionIsCached(t *testing.T) {
	repo := &mockSessionRepo{}
	cache := &mockCache{}
	expires := time.Now().Add(time.Hour)

	cache.On("Get", mock.Anything, token).Return(nil, nil)
	repo.On("FindValidSession", mock.Anything, token).Return(&entity.Session{
		UserID:      userID,
		ExpiresAt:   expires,
		WorkspaceID: workspaceID,
		Role:        entity.RoleStaff,
	}, nil)
	cache.On("Set", mock.Anything, mock.MatchedBy(func(s *utils.Session) bool {
		return s.Token == token && s.WorkspaceID == workspaceID
	}), expires).Return(nil)

	rec := httptest.NewRecorder()
	AuthSession(repo, cache, zap.NewNop())(echoSession).ServeHTTP(rec, authRequest("Bearer "+token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff", rec.Body.String())
	cache.AssertExpectations(t)
}

func TestAuthSession_CacheHitSkipsDatabase(t *testing.T) {
	repo := &mockSessionRepo{}
	cache := &mockCache{}
	cache.On("Get", mock.Anything, token).Return(&utils.Session{UserID: userID, WorkspaceID: workspaceID, Role: "owner", Token: token}, nil)

	rec := httptest.NewRecorder()
	AuthSession(repo, cache, zap.NewNop())(echoSession).ServeHTTP(rec, authRequest("bearer "+token))

	assert.Equal(t, "owner", rec.Body.String())
	repo.AssertNotCalled(t, "FindValidSession", mock.Anything, mock.Anything)
}

func TestAuthSession_RevokedAfterCacheLapseIsRejected(t *testing.T) {
	repo := &mockSessionRepo{}
	cache := &mockCache{}
	cache.On("Get", mock.Anything, token).Return(nil, nil)
	repo.On("FindValidSession", mock.Anything, token).Return(nil, nil)

	rec := httptest.NewRecorder()
	AuthSession(repo, cache, zap.NewNop())(echoSession).ServeHTTP(rec, authRequest("Bearer "+token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthSession_CacheErrorFallsBack(t *testing.T) {
	repo := &mockSessionRepo{}
	cache := &mockCache{}
	cache.On("Get", mock.Anything, token).Return(nil, errors.New("connection refused"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	repo.On("FindValidSession", mock.Anything, token).Return(&entity.Session{
		UserID: userID, WorkspaceID: workspaceID, Role: entity.RoleOwner, ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	rec := httptest.NewRecorder()
	AuthSession(repo, cache, zap.NewNop())(echoSession).ServeHTTP(rec, authRequest("Bearer "+token))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthSession_ExpiredOrUnknown(t *testing.T) {
	repo := &mockSessionRepo{}
	repo.On("FindValidSession", mock.Anything, token).Return(nil, nil)

	rec := httptest.NewRecorder()
	AuthSession(repo, nil, zap.NewNop())(echoSession).ServeHTTP(rec, authRequest("Bearer "+token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func withSession(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := &utils.Session{UserID: userID, WorkspaceID: workspaceID, Role: role}
		next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(r.Context(), s)))
	})
}

func TestOwner(t *testing.T) {
	cases := []struct {
		name string
		user *entity.User
		code int
	}{
		{"owner", &entity.User{WorkspaceID: workspaceID, Role: entity.RoleOwner, IsActive: true}, http.StatusOK},
		{"staff", &entity.User{WorkspaceID: workspaceID, Role: entity.RoleStaff, IsActive: true}, http.StatusForbidden},
		{"inactive owner", &entity.User{WorkspaceID: workspaceID, Role: entity.RoleOwner}, http.StatusForbidden},
		{"other workspace", &entity.User{WorkspaceID: uuid.New(), Role: entity.RoleOwner, IsActive: true}, http.StatusForbidden},
		{"missing", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserRepo{}
			users.On("FindByID", mock.Anything, userID).Return(tc.user, nil)

			rec := httptest.NewRecorder()
			withSession("owner", Owner(users, zap.NewNop())(echoSession)).ServeHTTP(rec, authRequest(""))

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := rl.Middleware()(ok)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	rl.evict()

	assert.Empty(t, rl.visitors)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := CORS()(echoSession)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
