package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/pkg/notify"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reminders go out for confirmed bookings starting 23 to 25 hours from the
// sweep. The two hour window tolerates sweeps that run late.
const (
	reminderWindowStart = 23 * time.Hour
	reminderWindowEnd   = 25 * time.Hour
)

type ReminderService interface {
	// SendDueReminders notifies every contact whose booking is due a
	// reminder and returns how many bookings were marked. A failure on one
	// booking is logged and the sweep moves on.
	SendDueReminders(ctx context.Context) (int, error)
}

type reminderService struct {
	repo       *repository.Repository
	notifier   notify.Sender
	defaultLoc *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewReminderService(repo *repository.Repository, config *utils.Config, notifier notify.Sender, log *zap.Logger) ReminderService {
	return &reminderService{
		repo:       repo,
		notifier:   notifier,
		defaultLoc: defaultLocation(config),
		now:        time.Now,
		log:        log.With(zap.String("service", "reminder")),
	}
}

func (s *reminderService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.Booking.FindDueForReminder(ctx, now.Add(reminderWindowStart), now.Add(reminderWindowEnd))
	if err != nil {
		return 0, fmt.Errorf("find bookings due for reminder: %w", err)
	}

	workspaces := make(map[uuid.UUID]*entity.Workspace)
	sent := 0
	for _, b := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		ws, err := s.workspace(ctx, workspaces, b.WorkspaceID)
		if err != nil {
			s.log.Warn("Skipping reminder, workspace lookup failed",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
			)
			continue
		}
		loc := s.defaultLoc
		if ws != nil {
			loc = ws.Location(s.defaultLoc)
		}

		// A contact without email or phone cannot be reached on a later
		// sweep either, so the booking is marked anyway.
		err = s.notifier.Send(ctx, "reminder", reminderMessage(ws, b, loc))
		if err != nil && !errors.Is(err, notify.ErrNoRecipient) {
			s.log.Warn("Failed to send reminder",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
			)
			continue
		}

		if err := s.repo.Booking.MarkReminderSent(ctx, b.ID); err != nil {
			s.log.Error("Failed to mark reminder sent",
				zap.Error(err),
				zap.String("booking_id", b.ID.String()),
			)
			continue
		}
		sent++
	}

	s.log.Info("Booking reminders processed",
		zap.Int("due", len(due)),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func (s *reminderService) workspace(ctx context.Context, cache map[uuid.UUID]*entity.Workspace, id uuid.UUID) (*entity.Workspace, error) {
	if ws, ok := cache[id]; ok {
		return ws, nil
	}
	ws, err := s.repo.Workspace.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = ws
	return ws, nil
}
