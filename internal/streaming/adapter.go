package streaming

import (
	"context"

	"github.com/google/uuid"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// SinkAdapter forwards engagement lifecycle callbacks to the event bus
// and the WebSocket hub. Either target may be nil.
type SinkAdapter struct {
	bus *EventBus
	hub *WebSocketHub
}

// NewSinkAdapter creates an adapter over the given targets.
func NewSinkAdapter(bus *EventBus, hub *WebSocketHub) *SinkAdapter {
	return &SinkAdapter{bus: bus, hub: hub}
}

func (a *SinkAdapter) EngagementStarted(_ context.Context, sessionID uuid.UUID, category models.ScamCategory, persona string) {
	a.emit(NewSessionStartedEvent(sessionID, category, persona))
}

func (a *SinkAdapter) IndicatorsExtracted(_ context.Context, sessionID uuid.UUID, turn int, found models.Intelligence) {
	a.emit(NewIndicatorEvent(sessionID, turn, found))
}

func (a *SinkAdapter) EngagementCompleted(_ context.Context, report *models.EngagementReport) {
	a.emit(NewSessionCompletedEvent(report))
}

func (a *SinkAdapter) emit(event *EngagementEvent) {
	if a.bus != nil {
		a.bus.Publish(event)
	}
	if a.hub != nil {
		a.hub.BroadcastEvent(event)
	}
}
