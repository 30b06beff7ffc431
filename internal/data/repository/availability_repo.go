package repository

import (
	"context"
	"fmt"

	"careops/internal/data/entity"
	"careops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	FindActiveByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.AvailabilityRule, error)
	FindActiveByServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*entity.AvailabilityRule, error)
	// ReplaceForService swaps the whole rule set in one transaction.
	ReplaceForService(ctx context.Context, serviceID uuid.UUID, rules []*entity.AvailabilityRule) error
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

const ruleColumns = `id, service_id, day_of_week, start_time, end_time, is_active, created_at`

func (r *availabilityRepository) FindActiveByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.AvailabilityRule, error) {
	return r.FindActiveByServices(ctx, []uuid.UUID{serviceID})
}

func (r *availabilityRepository) FindActiveByServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*entity.AvailabilityRule, error) {
	rules := []*entity.AvailabilityRule{}
	if len(serviceIDs) == 0 {
		return rules, nil
	}

	query := `
		SELECT ` + ruleColumns + `
		FROM availability_rules
		WHERE service_id = ANY($1) AND is_active
		ORDER BY service_id, day_of_week, start_time
	`

	rows, err := r.db.Query(ctx, query, serviceIDs)
	if err != nil {
		r.log.Error("Failed to find availability rules",
			zap.Error(err),
			zap.Int("services", len(serviceIDs)),
		)
		return nil, fmt.Errorf("find availability rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule entity.AvailabilityRule
		err := rows.Scan(
			&rule.ID,
			&rule.ServiceID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsActive,
			&rule.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan availability rule row", zap.Error(err))
			return nil, fmt.Errorf("scan availability rule row: %w", err)
		}
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability rule rows: %w", err)
	}

	return rules, nil
}

func (r *availabilityRepository) ReplaceForService(ctx context.Context, serviceID uuid.UUID, rules []*entity.AvailabilityRule) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace rules: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM availability_rules WHERE service_id = $1`, serviceID); err != nil {
		r.log.Error("Failed to clear availability rules",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return fmt.Errorf("clear rules of service %s: %w", serviceID.String(), err)
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		batch.Queue(`INSERT INTO availability_rules (`+ruleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rule.ID, serviceID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive, rule.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to insert availability rules",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return fmt.Errorf("insert rules of service %s: %w", serviceID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace rules: %w", err)
	}

	r.log.Info("Availability replaced",
		zap.String("service_id", serviceID.String()),
		zap.Int("rules", len(rules)),
	)
	return nil
}
