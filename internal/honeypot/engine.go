package honeypot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// ErrEmptyMessage is returned when the initiating message is empty or
// whitespace-only. This is a caller error, rejected before classification.
var ErrEmptyMessage = errors.New("honeypot: message must not be empty")

// EventSink receives engagement lifecycle events. Implementations must be
// non-blocking; a nil sink disables eventing.
type EventSink interface {
	EngagementStarted(ctx context.Context, sessionID uuid.UUID, category models.ScamCategory, persona string)
	IndicatorsExtracted(ctx context.Context, sessionID uuid.UUID, turn int, found models.Intelligence)
	EngagementCompleted(ctx context.Context, report *models.EngagementReport)
}

// Engine drives one honeypot engagement: classify the initiating message,
// decide whether it is scam-worthy, pick a persona, run the bounded
// conversation loop, extract indicators from each counterpart line and
// assemble the final report.
//
// Each Engage call owns its own conversation log and extraction
// accumulator; the engine itself holds only immutable collaborators, so
// concurrent invocations do not share mutable state.
type Engine struct {
	classifier  *Classifier
	extractor   *Extractor
	scorer      *Scorer
	personas    *PersonaRegistry
	agent       AgentResponder
	counterpart Counterpart
	policy      config.EngagementConfig
	events      EventSink
	logger      *logger.Logger
}

// NewEngine wires an Engine. All collaborators except events are required.
func NewEngine(
	classifier *Classifier,
	extractor *Extractor,
	scorer *Scorer,
	personas *PersonaRegistry,
	agent AgentResponder,
	counterpart Counterpart,
	policy config.EngagementConfig,
	events EventSink,
	log *logger.Logger,
) (*Engine, error) {
	if classifier == nil || extractor == nil || scorer == nil || personas == nil {
		return nil, fmt.Errorf("engine: classifier, extractor, scorer and personas are required")
	}
	if agent == nil || counterpart == nil {
		return nil, fmt.Errorf("engine: agent responder and counterpart are required")
	}
	if policy.MaxTurns < 1 {
		return nil, fmt.Errorf("engine: max turns must be >= 1")
	}
	return &Engine{
		classifier:  classifier,
		extractor:   extractor,
		scorer:      scorer,
		personas:    personas,
		agent:       agent,
		counterpart: counterpart,
		policy:      policy,
		events:      events,
		logger:      log.WithComponent("engine"),
	}, nil
}

// Engage runs one full engagement for the initiating message.
//
// When the external reply generator fails mid-loop the run is aborted and
// the report is returned with Partial set and everything accumulated up
// to the failure preserved; the failure is never silently converted into
// a clean negative result.
func (e *Engine) Engage(ctx context.Context, message string) (*models.EngagementReport, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := uuid.New()
	log := e.logger.WithSessionID(sessionID.String())

	category := e.classifier.Classify(message)
	keywordScore := e.scorer.KeywordScore(message)

	detected := category != models.CategoryUnknown || keywordScore >= e.policy.DetectionThreshold
	if !detected {
		log.Info().
			Str("category", string(category)).
			Int("keyword_score", keywordScore).
			Msg("message not scam-worthy, skipping engagement")
		return &models.EngagementReport{
			SessionID:    sessionID,
			ScamDetected: false,
			Timestamp:    time.Now().UTC(),
		}, nil
	}

	persona := e.personas.Select(message, category)

	log.Info().
		Str("category", string(category)).
		Str("persona", persona.ID).
		Int("keyword_score", keywordScore).
		Msg("engaging scammer")

	if e.events != nil {
		e.events.EngagementStarted(ctx, sessionID, category, persona.ID)
	}

	conversation := []models.Turn{
		{Role: models.RoleSystem, Content: persona.Instruction},
		{Role: models.RoleUser, Content: message},
	}
	intel := models.NewIntelligence()

	turnsTaken := 0
	var failure string

	for turn := 1; turn <= e.policy.MaxTurns; turn++ {
		turnsTaken = turn

		agentLine, err := e.agent.NextLine(ctx, persona, conversation, turn)
		if err != nil {
			failure = fmt.Sprintf("agent reply generation failed at turn %d: %v", turn, err)
			turnsTaken = turn - 1
			break
		}
		conversation = append(conversation, models.Turn{Role: models.RoleAssistant, Content: agentLine})

		counterLine, err := e.counterpart.Reply(ctx, agentLine, turn)
		if err != nil {
			failure = fmt.Sprintf("counterpart reply failed at turn %d: %v", turn, err)
			break
		}
		conversation = append(conversation, models.Turn{Role: models.RoleUser, Content: counterLine})

		// Extraction scans the latest counterpart line only; results
		// union into the running intelligence, which never shrinks.
		found := e.extractor.Extract(counterLine)
		if !found.IsEmpty() {
			intel.Merge(found)
			if e.events != nil {
				e.events.IndicatorsExtracted(ctx, sessionID, turn, found)
			}
			log.Debug().Int("turn", turn).Int("indicators", found.Total()).Msg("indicators extracted")
		}

		if e.shouldStop(intel, turn) {
			break
		}
	}

	report := &models.EngagementReport{
		SessionID:    sessionID,
		ScamDetected: true,
		ScamType:     category,
		PersonaUsed:  persona.ID,
		TurnsTaken:   turnsTaken,
		ThreatScore:  e.scorer.Score(message, intel),
		Intelligence: &intel,
		Conversation: conversation,
		Timestamp:    time.Now().UTC(),
	}
	if failure != "" {
		report.Partial = true
		report.Failure = failure
		log.Warn().Str("failure", failure).Msg("engagement aborted, returning partial report")
	} else {
		log.Info().
			Int("turns_taken", turnsTaken).
			Int("threat_score", report.ThreatScore).
			Int("indicators", intel.Total()).
			Msg("engagement completed")
	}

	if e.events != nil {
		e.events.EngagementCompleted(ctx, report)
	}

	return report, nil
}

// shouldStop applies the configured early-stop policy after a turn.
func (e *Engine) shouldStop(intel models.Intelligence, turn int) bool {
	if intel.IsEmpty() {
		return false
	}
	if e.policy.StopPolicy == config.StopPolicyMinTurns && turn < e.policy.MinTurns {
		return false
	}
	return true
}
