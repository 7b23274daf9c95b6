// Package repository persists per-request pipeline outcomes.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sensai/assist-backend/internal/entity"
)

// UsageRepository defines the interface for outcome persistence
type UsageRepository interface {
	RecordOutcome(ctx context.Context, rec *entity.UsageRecord) error
}

var _ UsageRepository = &UsagePostgres{}

// UsagePostgres implements UsageRepository using PostgreSQL
type UsagePostgres struct {
	db *pgxpool.Pool
}

func NewUsagePostgres(db *pgxpool.Pool) *UsagePostgres {
	return &UsagePostgres{db: db}
}

const insertOutcome = `
INSERT INTO assist_outcomes (id, user_id, mode, pipeline, attempts, score, fell_back, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *UsagePostgres) RecordOutcome(ctx context.Context, rec *entity.UsageRecord) error {
	recordID, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("invalid record ID: %w", err)
	}

	userID := pgtype.Text{String: rec.UserID, Valid: rec.UserID != ""}

	score := pgtype.Float8{}
	if rec.Score != nil {
		score = pgtype.Float8{Float64: *rec.Score, Valid: true}
	}

	_, err = r.db.Exec(ctx, insertOutcome,
		pgtype.UUID{Bytes: recordID, Valid: true},
		userID,
		string(rec.Mode),
		rec.Pipeline,
		rec.Attempts,
		score,
		rec.FellBack,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}

	return nil
}
