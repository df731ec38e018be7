package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"talent-match/internal/database"

	"github.com/google/uuid"
)

const AuditActionResumeParsed = "resume_parsed"

type AuditEntry struct {
	UserID   *uuid.UUID
	Action   string
	Metadata any
}

type AuditRepository interface {
	Create(ctx context.Context, e AuditEntry) error
}

type PostgresAuditRepository struct {
	db database.DB
}

func NewPostgresAuditRepository(db database.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Create(ctx context.Context, e AuditEntry) error {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode audit metadata: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, action, metadata) VALUES ($1, $2, $3, $4)`,
		uuid.New(), e.UserID, e.Action, meta,
	)
	return err
}
