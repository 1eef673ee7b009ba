package streaming

import (
	"time"

	"github.com/google/uuid"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// EventType represents the type of engagement event
type EventType string

const (
	EventTypeSessionStarted     EventType = "session_started"
	EventTypeIndicatorExtracted EventType = "indicator_extracted"
	EventTypeSessionCompleted   EventType = "session_completed"
)

// EngagementEvent is a real-time update emitted while a honeypot
// session runs. Events never carry the conversation text, only the
// session metadata and extracted indicators.
type EngagementEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	SessionID string              `json:"session_id"`
	ScamType  models.ScamCategory `json:"scam_type,omitempty"`
	Persona   string              `json:"persona,omitempty"`

	// Set on indicator_extracted events.
	Turn       int                  `json:"turn,omitempty"`
	Indicators *models.Intelligence `json:"indicators,omitempty"`

	// Set on session_completed events.
	TurnsTaken  int  `json:"turns_taken,omitempty"`
	ThreatScore int  `json:"threat_score,omitempty"`
	Partial     bool `json:"partial,omitempty"`
}

// NewSessionStartedEvent creates the event emitted when an engagement begins.
func NewSessionStartedEvent(sessionID uuid.UUID, scamType models.ScamCategory, persona string) *EngagementEvent {
	return &EngagementEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeSessionStarted,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID.String(),
		ScamType:  scamType,
		Persona:   persona,
	}
}

// NewIndicatorEvent creates the event emitted when a turn yields indicators.
func NewIndicatorEvent(sessionID uuid.UUID, turn int, found models.Intelligence) *EngagementEvent {
	return &EngagementEvent{
		ID:         uuid.New().String(),
		Type:       EventTypeIndicatorExtracted,
		Timestamp:  time.Now().UTC(),
		SessionID:  sessionID.String(),
		Turn:       turn,
		Indicators: &found,
	}
}

// NewSessionCompletedEvent creates the event emitted when an engagement ends.
func NewSessionCompletedEvent(report *models.EngagementReport) *EngagementEvent {
	return &EngagementEvent{
		ID:          uuid.New().String(),
		Type:        EventTypeSessionCompleted,
		Timestamp:   time.Now().UTC(),
		SessionID:   report.SessionID.String(),
		ScamType:    report.ScamType,
		Persona:     report.PersonaUsed,
		TurnsTaken:  report.TurnsTaken,
		ThreatScore: report.ThreatScore,
		Partial:     report.Partial,
	}
}
