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

type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	FindByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*entity.Contact, error)
	FindByPhone(ctx context.Context, workspaceID uuid.UUID, phone string) (*entity.Contact, error)
}

type contactRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewContactRepository(db database.PgxIface, log *zap.Logger) ContactRepository {
	return &contactRepository{
		db:  db,
		log: log.With(zap.String("repository", "contact")),
	}
}

const contactColumns = `id, workspace_id, name, email, phone, source, created_at, updated_at`

func (r *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		contact.ID,
		contact.WorkspaceID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Source,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create contact",
			zap.Error(err),
			zap.String("workspace_id", contact.WorkspaceID.String()),
		)
		return fmt.Errorf("create contact: %w", err)
	}

	return nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail matches case-insensitively and returns the oldest contact
// when duplicates exist.
func (r *contactRepository) FindByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*entity.Contact, error) {
	return r.findOne(ctx, "workspace_id = $1 AND lower(email) = lower($2)", workspaceID, email)
}

func (r *contactRepository) FindByPhone(ctx context.Context, workspaceID uuid.UUID, phone string) (*entity.Contact, error) {
	return r.findOne(ctx, "workspace_id = $1 AND phone = $2", workspaceID, phone)
}

func (r *contactRepository) findOne(ctx context.Context, where string, args ...any) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + where + ` ORDER BY created_at LIMIT 1`

	var c entity.Contact
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Source,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find contact", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find contact where %s: %w", where, err)
	}

	return &c, nil
}
