package redemptionlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/redemptionlog"
)

// Log is a Postgres implementation of redemptionlog.Log.
type Log struct {
	pool *pgxpool.Pool
}

func NewLog(pool *pgxpool.Pool) *Log {
	return &Log{pool: pool}
}

func (l *Log) Append(ctx context.Context, ev redemptionlog.Event) error {
	if l.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO code_redemptions (id, subject, code, redeemed_at)
		VALUES ($1, $2, $3, $4)
	`, id, string(ev.Subject), ev.Code, ev.RedeemedAt.UTC())
	return err
}

func (l *Log) ListBySubject(ctx context.Context, subject domain.SubjectID) ([]redemptionlog.Event, error) {
	if l.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := l.pool.Query(ctx, `
		SELECT id, subject, code, redeemed_at
		FROM code_redemptions
		WHERE subject = $1
		ORDER BY redeemed_at
	`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]redemptionlog.Event, 0)
	for rows.Next() {
		var (
			id  uuid.UUID
			ev  redemptionlog.Event
			sub string
		)
		if err := rows.Scan(&id, &sub, &ev.Code, &ev.RedeemedAt); err != nil {
			return nil, err
		}
		ev.ID = id.String()
		ev.Subject = domain.SubjectID(sub)
		out = append(out, ev)
	}
	return out, rows.Err()
}
