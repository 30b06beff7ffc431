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

type WorkspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Workspace, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Workspace, error)
}

type workspaceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWorkspaceRepository(db database.PgxIface, log *zap.Logger) WorkspaceRepository {
	return &workspaceRepository{
		db:  db,
		log: log.With(zap.String("repository", "workspace")),
	}
}

const workspaceColumns = `id, name, slug, timezone, contact_email, phone, address, is_active,
	reminder_message, booking_confirmation_message, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*entity.Workspace, error) {
	var ws entity.Workspace
	err := row.Scan(
		&ws.ID,
		&ws.Name,
		&ws.Slug,
		&ws.Timezone,
		&ws.ContactEmail,
		&ws.Phone,
		&ws.Address,
		&ws.IsActive,
		&ws.ReminderMessage,
		&ws.BookingConfirmationMessage,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	ws, err := scanWorkspace(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find workspace by ID",
			zap.Error(err),
			zap.String("workspace_id", id.String()),
		)
		return nil, fmt.Errorf("find workspace by ID %s: %w", id.String(), err)
	}

	return ws, nil
}

func (r *workspaceRepository) FindBySlug(ctx context.Context, slug string) (*entity.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE slug = $1`

	ws, err := scanWorkspace(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find workspace by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find workspace by slug %s: %w", slug, err)
	}

	return ws, nil
}
