package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careops/internal/data/entity"
	"careops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrSlotTaken is returned by CreateIfFree when an occupying booking of the
// same service overlaps the new one.
var ErrSlotTaken = errors.New("time slot already booked")

type BookingRepository interface {
	// CreateIfFree inserts booking unless it overlaps a pending or confirmed
	// booking of the same service. The check and insert run in one
	// transaction under a per-service advisory lock.
	CreateIfFree(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error)
	FindOccupying(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) ([]*entity.BookingDetail, error)
	Count(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	FindDueForReminder(ctx context.Context, from, to time.Time) ([]*entity.BookingDetail, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingDetailSelect = `
	SELECT b.id, b.workspace_id, b.contact_id, b.service_id, b.booking_date, b.end_time,
	       b.status, b.notes, b.reminder_sent, b.created_at, b.updated_at,
	       c.name, c.email, c.phone, s.name, s.location
	FROM bookings b
	JOIN contacts c ON c.id = b.contact_id
	JOIN services s ON s.id = b.service_id
`

func scanBookingDetail(row pgx.Row) (*entity.BookingDetail, error) {
	var d entity.BookingDetail
	err := row.Scan(
		&d.ID,
		&d.WorkspaceID,
		&d.ContactID,
		&d.ServiceID,
		&d.StartsAt,
		&d.EndsAt,
		&d.Status,
		&d.Notes,
		&d.ReminderSent,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.ContactName,
		&d.ContactEmail,
		&d.ContactPhone,
		&d.ServiceName,
		&d.Location,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func occupyingStatuses() []string {
	out := make([]string, len(entity.OccupyingStatuses))
	for i, s := range entity.OccupyingStatuses {
		out[i] = string(s)
	}
	return out
}

func (r *bookingRepository) CreateIfFree(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes writers of one service until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.ServiceID.String()); err != nil {
		r.log.Error("Failed to take booking lock",
			zap.Error(err),
			zap.String("service_id", booking.ServiceID.String()),
		)
		return fmt.Errorf("lock service %s: %w", booking.ServiceID.String(), err)
	}

	var taken bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE service_id = $1
			  AND status = ANY($2)
			  AND booking_date < $4
			  AND end_time > $3
		)`,
		booking.ServiceID, occupyingStatuses(), booking.StartsAt, booking.EndsAt,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check overlap for service %s: %w", booking.ServiceID.String(), err)
	}
	if taken {
		return ErrSlotTaken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, workspace_id, contact_id, service_id, booking_date, end_time,
		                      status, notes, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		booking.ID,
		booking.WorkspaceID,
		booking.ContactID,
		booking.ServiceID,
		booking.StartsAt,
		booking.EndsAt,
		booking.Status,
		booking.Notes,
		booking.ReminderSent,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("service_id", booking.ServiceID.String()),
			zap.Time("starts_at", booking.StartsAt),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	d, err := scanBookingDetail(r.db.QueryRow(ctx, bookingDetailSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return d, nil
}

// FindOccupying returns pending and confirmed bookings of serviceID that
// overlap [from, to).
func (r *bookingRepository) FindOccupying(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT id, workspace_id, contact_id, service_id, booking_date, end_time, status
		FROM bookings
		WHERE service_id = $1
		  AND status = ANY($2)
		  AND booking_date < $4
		  AND end_time > $3
		ORDER BY booking_date
	`

	rows, err := r.db.Query(ctx, query, serviceID, occupyingStatuses(), from, to)
	if err != nil {
		r.log.Error("Failed to find occupying bookings",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find occupying bookings of service %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		var b entity.Booking
		if err := rows.Scan(&b.ID, &b.WorkspaceID, &b.ContactID, &b.ServiceID, &b.StartsAt, &b.EndsAt, &b.Status); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// bookingWhere builds the WHERE clause shared by List and Count.
func bookingWhere(workspaceID uuid.UUID, f entity.BookingFilter) (string, []any) {
	conds := []string{"b.workspace_id = $1"}
	args := []any{workspaceID}

	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("b.booking_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("b.booking_date < $%d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) List(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) ([]*entity.BookingDetail, error) {
	where, args := bookingWhere(workspaceID, filter)
	query := bookingDetailSelect + where + ` ORDER BY b.booking_date`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("workspace_id", workspaceID.String()),
		)
		return nil, fmt.Errorf("list bookings of workspace %s: %w", workspaceID.String(), err)
	}
	defer rows.Close()

	bookings := []*entity.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, workspaceID uuid.UUID, filter entity.BookingFilter) (int64, error) {
	where, args := bookingWhere(workspaceID, filter)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings",
			zap.Error(err),
			zap.String("workspace_id", workspaceID.String()),
		)
		return 0, fmt.Errorf("count bookings of workspace %s: %w", workspaceID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNoRowsAffected)
	}

	return nil
}

// FindDueForReminder returns confirmed bookings starting in [from, to]
// whose reminder has not gone out.
func (r *bookingRepository) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.status = $1
		  AND b.reminder_sent = FALSE
		  AND b.booking_date BETWEEN $2 AND $3
		ORDER BY b.booking_date
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusConfirmed, from, to)
	if err != nil {
		r.log.Error("Failed to find bookings due for reminder", zap.Error(err))
		return nil, fmt.Errorf("find bookings due for reminder: %w", err)
	}
	defer rows.Close()

	bookings := []*entity.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE bookings SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark reminder sent",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("mark reminder sent for booking %s: %w", id.String(), err)
	}
	return nil
}
