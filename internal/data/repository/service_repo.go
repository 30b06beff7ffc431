package repository

import (
	"context"
	"errors"
	"fmt"

	"careops/internal/data/entity"
	"careops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindActiveByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

const serviceColumns = `id, workspace_id, name, description, duration_minutes, location, price,
	color, is_active, created_at, updated_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(
		&s.ID,
		&s.WorkspaceID,
		&s.Name,
		&s.Description,
		&s.DurationMinutes,
		&s.Location,
		&s.Price,
		&s.Color,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (` + serviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		service.ID,
		service.WorkspaceID,
		service.Name,
		service.Description,
		service.DurationMinutes,
		service.Location,
		service.Price,
		service.Color,
		service.IsActive,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("workspace_id", service.WorkspaceID.String()),
			zap.String("name", service.Name),
		)
		return fmt.Errorf("create service %s: %w", service.Name, err)
	}

	return nil
}

// FindByID returns inactive services too; callers decide.
func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find service by ID %s: %w", id.String(), err)
	}

	return s, nil
}

func (r *serviceRepository) FindActiveByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*entity.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE workspace_id = $1 AND is_active
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, workspaceID)
	if err != nil {
		r.log.Error("Failed to list services",
			zap.Error(err),
			zap.String("workspace_id", workspaceID.String()),
		)
		return nil, fmt.Errorf("list services of workspace %s: %w", workspaceID.String(), err)
	}
	defer rows.Close()

	services := []*entity.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, duration_minutes = $4, location = $5,
		    price = $6, color = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		service.ID,
		service.Name,
		service.Description,
		service.DurationMinutes,
		service.Location,
		service.Price,
		service.Color,
		service.IsActive,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update service",
			zap.Error(err),
			zap.String("service_id", service.ID.String()),
		)
		return fmt.Errorf("update service %s: %w", service.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", service.ID.String(), ErrNoRowsAffected)
	}

	return nil
}

func (r *serviceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE services SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return fmt.Errorf("deactivate service %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id.String(), ErrNoRowsAffected)
	}

	r.log.Info("Service deactivated", zap.String("service_id", id.String()))
	return nil
}
