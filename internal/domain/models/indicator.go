package models

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedIndicator is an extracted indicator persisted to the optional
// intel archive. Conversation logs are never archived, only the
// indicators themselves.
type ArchivedIndicator struct {
	ID        uuid.UUID     `json:"id"`
	Kind      IndicatorKind `json:"kind"`
	Value     string        `json:"value"`
	ScamType  ScamCategory  `json:"scam_type"`
	SessionID uuid.UUID     `json:"session_id"`
	FirstSeen time.Time     `json:"first_seen"`
	LastSeen  time.Time     `json:"last_seen"`
	SeenCount int           `json:"seen_count"`
}
