package usecase

import (
	"time"

	"careops/internal/data/repository"
	"careops/pkg/notify"
	"careops/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Slot     SlotService
	Booking  BookingService
	Catalog  CatalogService
	Public   PublicService
	Reminder ReminderService
}

func NewService(repo *repository.Repository, config *utils.Config, notifier notify.Sender, log *zap.Logger) *Service {
	return &Service{
		Slot:     NewSlotService(repo, config, log),
		Booking:  NewBookingService(repo, config, notifier, log),
		Catalog:  NewCatalogService(repo, log),
		Public:   NewPublicService(repo, config, log),
		Reminder: NewReminderService(repo, config, notifier, log),
	}
}

// defaultLocation resolves DEFAULT_TIMEZONE, falling back to UTC for
// zero-value configs.
func defaultLocation(config *utils.Config) *time.Location {
	if config == nil || config.App.DefaultTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(config.App.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
