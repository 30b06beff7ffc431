package usecase

import (
	"context"
	"time"

	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/pkg/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockWorkspaceRepo struct{ mock.Mock }

func (m *mockWorkspaceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Workspace, error) {
	args := m.Called(ctx, id)
	ws, _ := args.Get(0).(*entity.Workspace)
	return ws, args.Error(1)
}

func (m *mockWorkspaceRepo) FindBySlug(ctx context.Context, slug string) (*entity.Workspace, error) {
	args := m.Called(ctx, slug)
	ws, _ := args.Get(0).(*entity.Workspace)
	return ws, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) Create(ctx context.Context, service *entity.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *mockServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*entity.Service)
	return svc, args.Error(1)
}

func (m *mockServiceRepo) FindActiveByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*entity.Service, error) {
	args := m.Called(ctx, workspaceID)
	svcs, _ := args.Get(0).([]*entity.Service)
	return svcs, args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, service *entity.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *mockServiceRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAvailabilityRepo struct{ mock.Mock }

func (m *mockAvailabilityRepo) FindActiveByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.AvailabilityRule, error) {
	args := m.Called(ctx, serviceID)
	rules, _ := args.Get(0).([]*entity.AvailabilityRule)
	return rules, args.Error(1)
}

func (m *mockAvailabilityRepo) FindActiveByServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*entity.AvailabilityRule, error) {
	args := m.Called(ctx, serviceIDs)
	rules, _ := args.Get(0).([]*entity.AvailabilityRule)
	return rules, args.Error(1)
}

func (m *mockAvailabilityRepo) ReplaceForService(ctx context.Context, serviceID uuid.UUID, rules []*entity.AvailabilityRule) error {
	return m.Called(ctx, serviceID, rules).Error(0)
}

type mockContactRepo struct{ mock.Mock }

func (m *mockContactRepo) Create(ctx context.Context, contact *entity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Contact)
	return c, args.Error(1)
}

func (m *mockContactRepo) FindByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*entity.Contact, error) {
	args := m.Called(ctx, workspaceID, email)
	c, _ := args.Get(0).(*entity.Contact)
	return c, args.Error(1)
}

func (m *mockContactRepo) FindByPhone(ctx context.Context, workspaceID uuid.UUID, phone string) (*entity.Contact, error) {
	args := m.Called(ctx, workspaceID, phone)
	c, _ := args.Get(0).(*entity.Contact)
	return c, args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) CreateIfFree(ctx context.Context, booking *entity.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*entity.BookingDetail)
	return d, args.Error(1)
}

func (m *mockBookingRepo) FindOccupying(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	args := m.Called(ctx, serviceID, from, to)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) ([]*entity.BookingDetail, error) {
	args := m.Called(ctx, workspaceID, filter)
	d, _ := args.Get(0).([]*entity.BookingDetail)
	return d, args.Error(1)
}

func (m *mockBookingRepo) Count(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) (int64, error) {
	args := m.Called(ctx, workspaceID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookingRepo) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*entity.BookingDetail, error) {
	args := m.Called(ctx, from, to)
	d, _ := args.Get(0).([]*entity.BookingDetail)
	return d, args.Error(1)
}

func (m *mockBookingRepo) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, kind string, msg notify.Message) error {
	return m.Called(ctx, kind, msg).Error(0)
}

type mocks struct {
	workspace    *mockWorkspaceRepo
	service      *mockServiceRepo
	availability *mockAvailabilityRepo
	contact      *mockContactRepo
	booking      *mockBookingRepo
	repo         *repository.Repository
}

func newMocks() *mocks {
	m := &mocks{
		workspace:    &mockWorkspaceRepo{},
		service:      &mockServiceRepo{},
		availability: &mockAvailabilityRepo{},
		contact:      &mockContactRepo{},
		booking:      &mockBookingRepo{},
	}
	m.repo = &repository.Repository{
		Workspace:    m.workspace,
		Service:      m.service,
		Availability: m.availability,
		Contact:      m.contact,
		Booking:      m.booking,
	}
	return m
}
