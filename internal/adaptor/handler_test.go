package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careops/internal/dto/request"
	"careops/internal/dto/response"
	"careops/internal/usecase"
	"careops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSlotService struct{ mock.Mock }

func (m *mockSlotService) ComputeSlots(ctx context.Context, serviceID, date string) (*response.SlotsResponse, error) {
	args := m.Called(ctx, serviceID, date)
	resp, _ := args.Get(0).(*response.SlotsResponse)
	return resp, args.Error(1)
}

func (m *mockSlotService) ComputeWorkspaceSlots(ctx context.Context, workspaceID uuid.UUID, serviceID, date string) (*response.SlotsResponse, error) {
	args := m.Called(ctx, workspaceID, serviceID, date)
	resp, _ := args.Get(0).(*response.SlotsResponse)
	return resp, args.Error(1)
}

func (m *mockSlotService) ComputePublicSlots(ctx context.Context, slug, serviceID, date string) (*response.SlotsResponse, error) {
	args := m.Called(ctx, slug, serviceID, date)
	resp, _ := args.Get(0).(*response.SlotsResponse)
	return resp, args.Error(1)
}

type mockBookingService struct{ mock.Mock }

func (m *mockBookingService) CreateBooking(ctx context.Context, workspaceID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, workspaceID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, workspaceID, bookingID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingDetailResponse], error) {
	args := m.Called(ctx, workspaceID, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingDetailResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) TodayBookings(ctx context.Context, workspaceID uuid.UUID) ([]response.BookingDetailResponse, error) {
	args := m.Called(ctx, workspaceID)
	resp, _ := args.Get(0).([]response.BookingDetailResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) GetCalendar(ctx context.Context, workspaceID uuid.UUID, bookingID string) (*response.CalendarResponse, error) {
	args := m.Called(ctx, workspaceID, bookingID)
	resp, _ := args.Get(0).(*response.CalendarResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ExportBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) ([]byte, string, error) {
	args := m.Called(ctx, workspaceID, req)
	body, _ := args.Get(0).([]byte)
	return body, args.String(1), args.Error(2)
}

func (m *mockBookingService) CreatePublicBooking(ctx context.Context, slug string, req *request.PublicBookingRequest) (*response.PublicBookingResponse, error) {
	args := m.Called(ctx, slug, req)
	resp, _ := args.Get(0).(*response.PublicBookingResponse)
	return resp, args.Error(1)
}

var testSession = &utils.Session{
	UserID:      uuid.MustParse("11111111-1111-4111-8111-111111111111"),
	WorkspaceID: uuid.MustParse("22222222-2222-4222-8222-222222222222"),
	Role:        "owner",
}

func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(r.Context(), testSession)))
	})
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func bookingRouter(bookings *mockBookingService, slots *mockSlotService, authed bool) http.Handler {
	h := NewBookingHandler(bookings, slots, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/bookings/slots/{service_id}", h.GetSlots)
	r.Group(func(r chi.Router) {
		if authed {
			r.Use(withSession)
		}
		r.Get("/api/bookings", h.ListBookings)
		r.Post("/api/bookings", h.CreateBooking)
		r.Put("/api/bookings/{id}/status", h.UpdateStatus)
		r.Get("/api/bookings/{id}/calendar", h.GetCalendar)
		r.Get("/api/bookings/export", h.ExportBookings)
	})
	return r
}

func TestGetSlots_OK(t *testing.T) {
	slots := &mockSlotService{}
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	slots.On("ComputeSlots", mock.Anything, "svc-1", "2026-10-19").Return(&response.SlotsResponse{
		Slots:   []response.SlotResponse{{Start: start, End: start.Add(30 * time.Minute), Display: "9:00 AM"}},
		Date:    "2026-10-19",
		Service: "Consultation",
	}, nil)

	rec := httptest.NewRecorder()
	bookingRouter(&mockBookingService{}, slots, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/slots/svc-1?date=2026-10-19", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Status)

	var data struct {
		Slots []struct {
			Start   time.Time `json:"start"`
			Display string    `json:"display"`
		} `json:"slots"`
		Date    string `json:"date"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Slots, 1)
	assert.Equal(t, "9:00 AM", data.Slots[0].Display)
	assert.True(t, data.Slots[0].Start.Equal(start))
	assert.Equal(t, "Consultation", data.Service)
}

func TestGetSlots_EmptyIsArray(t *testing.T) {
	slots := &mockSlotService{}
	slots.On("ComputeSlots", mock.Anything, "svc-1", "2026-10-20").Return(&response.SlotsResponse{
		Slots: []response.SlotResponse{}, Date: "2026-10-20", Service: "Consultation",
	}, nil)

	rec := httptest.NewRecorder()
	bookingRouter(&mockBookingService{}, slots, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/slots/svc-1?date=2026-10-20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestGetSlots_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("service: %w", usecase.ErrNotFound), http.StatusNotFound},
		{"invalid", usecase.ErrInvalidInput, http.StatusBadRequest},
		{"internal", errors.New("pool closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots := &mockSlotService{}
			slots.On("ComputeSlots", mock.Anything, "svc-1", "2026-10-19").Return(nil, tc.err)

			rec := httptest.NewRecorder()
			bookingRouter(&mockBookingService{}, slots, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/slots/svc-1?date=2026-10-19", nil))

			assert.Equal(t, tc.code, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Status)
			if tc.code == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", env.Message)
			}
		})
	}
}

func TestGetSlots_MissingDate(t *testing.T) {
	slots := &mockSlotService{}

	rec := httptest.NewRecorder()
	bookingRouter(&mockBookingService{}, slots, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/slots/svc-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	slots.AssertNotCalled(t, "ComputeSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_RequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{}`)
	bookingRouter(&mockBookingService{}, &mockSlotService{}, false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBooking_ValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"service_id":"nope","booking_date":"tomorrow"}`)
	bookingRouter(&mockBookingService{}, &mockSlotService{}, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "This field is required", env.Errors["ContactID"])
	assert.Equal(t, "Must be a valid UUID", env.Errors["ServiceID"])
	assert.Contains(t, env.Errors, "BookingDate")
}

func TestCreateBooking_ConflictIs409(t *testing.T) {
	bookings := &mockBookingService{}
	bookings.On("CreateBooking", mock.Anything, testSession.WorkspaceID, mock.Anything).
		Return(nil, fmt.Errorf("create: %w", usecase.ErrConflict))

	rec := httptest.NewRecorder()
	body := strings.NewReader(fmt.Sprintf(`{"contact_id":%q,"service_id":%q,"booking_date":"2026-10-19T10:00:00Z"}`,
		uuid.NewString(), uuid.NewString()))
	bookingRouter(bookings, &mockSlotService{}, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatus_PassesBookingID(t *testing.T) {
	bookings := &mockBookingService{}
	bookings.On("UpdateStatus", mock.Anything, testSession.WorkspaceID, "b-1", &request.UpdateBookingStatusRequest{Status: "completed"}).
		Return(&response.BookingResponse{ID: "b-1", Status: "completed"}, nil)

	rec := httptest.NewRecorder()
	bookingRouter(bookings, &mockSlotService{}, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPut, "/api/bookings/b-1/status", strings.NewReader(`{"status":"completed"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	bookings.AssertExpectations(t)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	bookingRouter(&mockBookingService{}, &mockSlotService{}, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPut, "/api/bookings/b-1/status", strings.NewReader(`{"status":"archived"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Must be one of: pending, confirmed, completed, cancelled, no_show", decode(t, rec).Errors["Status"])
}

func TestListBookings_QueryDefaults(t *testing.T) {
	bookings := &mockBookingService{}
	bookings.On("ListBookings", mock.Anything, testSession.WorkspaceID, mock.MatchedBy(func(req *request.BookingListRequest) bool {
		return req.Page == 1 && req.PerPage == 50 && req.Status == "pending"
	})).Return(response.NewPaginatedResponse([]response.BookingDetailResponse{}, 1, 50, 0), nil)

	rec := httptest.NewRecorder()
	bookingRouter(bookings, &mockSlotService{}, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/bookings?status=pending&limit=50", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	bookings.AssertExpectations(t)
}

func TestGetCalendar_ICSDownload(t *testing.T) {
	bookings := &mockBookingService{}
	bookings.On("GetCalendar", mock.Anything, testSession.WorkspaceID, "b-1").
		Return(&response.CalendarResponse{ICS: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", GoogleLink: "https://calendar.google.com"}, nil)

	rec := httptest.NewRecorder()
	bookingRouter(bookings, &mockSlotService{}, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/bookings/b-1/calendar?format=ics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="booking-b-1.ics"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR"))
}

func TestExportBookings_File(t *testing.T) {
	bookings := &mockBookingService{}
	bookings.On("ExportBookings", mock.Anything, testSession.WorkspaceID, mock.Anything).
		Return([]byte("PK\x03\x04"), "bookings_2026-10-16.xlsx", nil)

	rec := httptest.NewRecorder()
	bookingRouter(bookings, &mockSlotService{}, true).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/bookings/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookings_2026-10-16.xlsx")
}
