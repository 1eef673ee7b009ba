package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// IntelRepository archives extracted indicators. Only the indicators
// themselves are persisted; conversation logs never reach the database.
type IntelRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewIntelRepository creates an indicator archive repository.
func NewIntelRepository(db *database.PostgresDB, log *logger.Logger) *IntelRepository {
	return &IntelRepository{
		db:     db,
		logger: log.WithComponent("intel-repository"),
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS indicators (
    id          UUID PRIMARY KEY,
    kind        TEXT NOT NULL,
    value       TEXT NOT NULL,
    scam_type   TEXT NOT NULL,
    session_id  UUID NOT NULL,
    first_seen  TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_seen   TIMESTAMPTZ NOT NULL DEFAULT now(),
    seen_count  INTEGER NOT NULL DEFAULT 1,
    UNIQUE (kind, value)
);
CREATE INDEX IF NOT EXISTS idx_indicators_last_seen ON indicators (last_seen DESC);
`

// EnsureSchema creates the indicators table if it does not exist.
func (r *IntelRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure indicators schema: %w", err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO indicators (id, kind, value, scam_type, session_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (kind, value) DO UPDATE
SET last_seen = now(),
    seen_count = indicators.seen_count + 1,
    scam_type = EXCLUDED.scam_type
`

// Archive upserts every indicator from a finished engagement. A value
// seen again bumps its seen_count and last_seen instead of duplicating.
func (r *IntelRepository) Archive(ctx context.Context, report *models.EngagementReport) error {
	if report.Intelligence == nil || report.Intelligence.IsEmpty() {
		return nil
	}

	type entry struct {
		kind  models.IndicatorKind
		value string
	}
	entries := make([]entry, 0, report.Intelligence.Total())
	for _, v := range report.Intelligence.UPIIDs {
		entries = append(entries, entry{models.IndicatorUPIID, v})
	}
	for _, v := range report.Intelligence.BankAccounts {
		entries = append(entries, entry{models.IndicatorBankAccount, v})
	}
	for _, v := range report.Intelligence.PhishingLinks {
		entries = append(entries, entry{models.IndicatorPhishingLink, v})
	}

	for _, e := range entries {
		err := r.db.Exec(ctx, upsertSQL,
			uuid.New(), string(e.kind), e.value, string(report.ScamType), report.SessionID,
		)
		if err != nil {
			return fmt.Errorf("failed to archive indicator %s: %w", e.kind, err)
		}
	}

	r.logger.Debug().
		Str("session_id", report.SessionID.String()).
		Int("count", len(entries)).
		Msg("indicators archived")

	return nil
}

const listRecentSQL = `
SELECT id, kind, value, scam_type, session_id, first_seen, last_seen, seen_count
FROM indicators
ORDER BY last_seen DESC
LIMIT $1
`

// ListRecent returns the most recently seen indicators, newest first.
func (r *IntelRepository) ListRecent(ctx context.Context, limit int) ([]models.ArchivedIndicator, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, listRecentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}
	defer rows.Close()

	indicators := make([]models.ArchivedIndicator, 0, limit)
	for rows.Next() {
		var ind models.ArchivedIndicator
		err := rows.Scan(
			&ind.ID, &ind.Kind, &ind.Value, &ind.ScamType,
			&ind.SessionID, &ind.FirstSeen, &ind.LastSeen, &ind.SeenCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		indicators = append(indicators, ind)
	}

	return indicators, rows.Err()
}
