package honeypot_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

const scamMessage = "Your bank account is blocked. Share OTP to verify immediately."

// fakeAgent returns generic probes and can be made to fail at a turn.
type fakeAgent struct {
	failAt int
	err    error
}

func (f *fakeAgent) NextLine(_ context.Context, _ models.Persona, _ []models.Turn, turn int) (string, error) {
	if f.failAt != 0 && turn >= f.failAt {
		return "", f.err
	}
	return fmt.Sprintf("tell me more, this is my question number %d", turn), nil
}

// fakeCounterpart replies per turn from a map and can fail at a turn.
type fakeCounterpart struct {
	replies map[int]string
	failAt  int
	err     error
}

func (f *fakeCounterpart) Reply(_ context.Context, _ string, turn int) (string, error) {
	if f.failAt != 0 && turn >= f.failAt {
		return "", f.err
	}
	if reply, ok := f.replies[turn]; ok {
		return reply, nil
	}
	return "just do what I said", nil
}

// recordingSink counts lifecycle callbacks.
type recordingSink struct {
	started    int
	extracted  int
	completed  int
	lastReport *models.EngagementReport
}

func (s *recordingSink) EngagementStarted(context.Context, uuid.UUID, models.ScamCategory, string) {
	s.started++
}

func (s *recordingSink) IndicatorsExtracted(context.Context, uuid.UUID, int, models.Intelligence) {
	s.extracted++
}

func (s *recordingSink) EngagementCompleted(_ context.Context, report *models.EngagementReport) {
	s.completed++
	s.lastReport = report
}

func testEngagementConfig() config.EngagementConfig {
	return config.EngagementConfig{
		MaxTurns:           5,
		StopPolicy:         config.StopPolicyImmediate,
		MinTurns:           3,
		DetectionThreshold: 20,
		Responder:          config.ResponderScripted,
	}
}

func newTestEngine(t *testing.T, agent honeypot.AgentResponder, counterpart honeypot.Counterpart, policy config.EngagementConfig, sink honeypot.EventSink) *honeypot.Engine {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	classifier := honeypot.NewClassifier(config.DefaultCategories())
	scorer := honeypot.NewScorer(testScoringConfig(config.ScoringModeIndicator), testKeywords())
	personas, err := honeypot.NewPersonaRegistry(testPersonasConfig())
	if err != nil {
		t.Fatalf("persona registry: %v", err)
	}

	engine, err := honeypot.NewEngine(
		classifier, honeypot.NewExtractor(), scorer, personas,
		agent, counterpart, policy, sink, log,
	)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestEngageRejectsEmptyMessage(t *testing.T) {
	engine := newTestEngine(t, &fakeAgent{}, &fakeCounterpart{}, testEngagementConfig(), nil)

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := engine.Engage(context.Background(), message); !errors.Is(err, honeypot.ErrEmptyMessage) {
			t.Fatalf("Engage(%q) error = %v, want ErrEmptyMessage", message, err)
		}
	}
}

func TestEngageSkipsBenignMessage(t *testing.T) {
	engine := newTestEngine(t, &fakeAgent{}, &fakeCounterpart{}, testEngagementConfig(), nil)

	report, err := engine.Engage(context.Background(), "Good morning, are we still on for lunch tomorrow?")
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}
	if report.ScamDetected {
		t.Fatal("benign message reported as scam")
	}
	if report.TurnsTaken != 0 {
		t.Fatalf("benign message took %d turns, want 0", report.TurnsTaken)
	}
	if report.Intelligence != nil {
		t.Fatal("benign report should carry no intelligence")
	}
}

func TestEngageStopsOnFirstIndicator(t *testing.T) {
	counterpart := &fakeCounterpart{replies: map[int]string{
		2: "fine, just send the money to scammer123@upi",
	}}
	sink := &recordingSink{}
	engine := newTestEngine(t, &fakeAgent{}, counterpart, testEngagementConfig(), sink)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}

	if !report.ScamDetected {
		t.Fatal("scam not detected")
	}
	if report.ScamType != models.CategoryBankPhishing {
		t.Fatalf("scam type = %q, want %q", report.ScamType, models.CategoryBankPhishing)
	}
	if report.TurnsTaken != 2 {
		t.Fatalf("turns taken = %d, want 2", report.TurnsTaken)
	}
	if report.Intelligence == nil || len(report.Intelligence.UPIIDs) != 1 || report.Intelligence.UPIIDs[0] != "scammer123@upi" {
		t.Fatalf("intelligence = %+v, want single upi id", report.Intelligence)
	}
	if report.ThreatScore != 40 {
		t.Fatalf("threat score = %d, want 40", report.ThreatScore)
	}
	if sink.started != 1 || sink.extracted != 1 || sink.completed != 1 {
		t.Fatalf("sink counts = %d/%d/%d, want 1/1/1", sink.started, sink.extracted, sink.completed)
	}
}

func TestEngageMinTurnsPolicy(t *testing.T) {
	policy := testEngagementConfig()
	policy.StopPolicy = config.StopPolicyMinTurns
	policy.MinTurns = 3

	counterpart := &fakeCounterpart{replies: map[int]string{
		1: "transfer to scammer123@upi now",
	}}
	engine := newTestEngine(t, &fakeAgent{}, counterpart, policy, nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}
	if report.TurnsTaken != 3 {
		t.Fatalf("turns taken = %d, want 3 under min_turns policy", report.TurnsTaken)
	}
}

func TestEngageRunsToMaxTurns(t *testing.T) {
	engine := newTestEngine(t, &fakeAgent{}, &fakeCounterpart{}, testEngagementConfig(), nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}
	if report.TurnsTaken != 5 {
		t.Fatalf("turns taken = %d, want max 5", report.TurnsTaken)
	}
	if report.Partial {
		t.Fatal("exhausted run must not be partial")
	}
	if report.Intelligence == nil || !report.Intelligence.IsEmpty() {
		t.Fatalf("expected empty intelligence, got %+v", report.Intelligence)
	}
	if report.ThreatScore != 0 {
		t.Fatalf("threat score = %d, want 0 with no indicators", report.ThreatScore)
	}
}

func TestEngagePartialOnAgentFailure(t *testing.T) {
	counterpart := &fakeCounterpart{replies: map[int]string{
		2: "send to scammer123@upi",
	}}
	policy := testEngagementConfig()
	policy.StopPolicy = config.StopPolicyMinTurns
	policy.MinTurns = 5

	agent := &fakeAgent{failAt: 4, err: errors.New("provider timeout")}
	engine := newTestEngine(t, agent, counterpart, policy, nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage returned error %v, want partial report instead", err)
	}

	if !report.Partial {
		t.Fatal("report not marked partial after generation failure")
	}
	if report.Failure == "" || !strings.Contains(report.Failure, "provider timeout") {
		t.Fatalf("failure = %q, want provider timeout mention", report.Failure)
	}
	if report.TurnsTaken != 3 {
		t.Fatalf("turns taken = %d, want 3 completed turns", report.TurnsTaken)
	}
	// Indicators gathered before the failure survive.
	if report.Intelligence == nil || len(report.Intelligence.UPIIDs) != 1 {
		t.Fatalf("intelligence = %+v, want the upi id collected before the failure", report.Intelligence)
	}
	if len(report.Conversation) == 0 {
		t.Fatal("conversation log lost on partial failure")
	}
}

func TestEngagePartialOnCounterpartFailure(t *testing.T) {
	counterpart := &fakeCounterpart{failAt: 1, err: errors.New("script exhausted")}
	engine := newTestEngine(t, &fakeAgent{}, counterpart, testEngagementConfig(), nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage returned error %v, want partial report instead", err)
	}
	if !report.Partial {
		t.Fatal("report not marked partial")
	}
	// The agent line of the failed turn is kept in the log.
	if report.TurnsTaken != 1 {
		t.Fatalf("turns taken = %d, want 1", report.TurnsTaken)
	}
}

func TestEngageConversationShape(t *testing.T) {
	engine := newTestEngine(t, &fakeAgent{}, &fakeCounterpart{}, testEngagementConfig(), nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}

	// Seed (system + initiating message) plus two entries per turn.
	wantLen := 2 + 2*report.TurnsTaken
	if len(report.Conversation) != wantLen {
		t.Fatalf("conversation length = %d, want %d", len(report.Conversation), wantLen)
	}
	if report.Conversation[0].Role != models.RoleSystem {
		t.Fatalf("first turn role = %q, want system", report.Conversation[0].Role)
	}
	if report.Conversation[1].Role != models.RoleUser || report.Conversation[1].Content != scamMessage {
		t.Fatal("second turn must be the initiating message")
	}
	for i := 2; i < len(report.Conversation); i += 2 {
		if report.Conversation[i].Role != models.RoleAssistant {
			t.Fatalf("turn %d role = %q, want assistant", i, report.Conversation[i].Role)
		}
	}
}

func TestEngageWithScriptedPair(t *testing.T) {
	scammer, err := honeypot.NewScriptedScammer(config.DefaultScammerScript())
	if err != nil {
		t.Fatalf("NewScriptedScammer failed: %v", err)
	}
	engine := newTestEngine(t, honeypot.NewScriptedResponder(), scammer, testEngagementConfig(), nil)

	report, err := engine.Engage(context.Background(), scamMessage)
	if err != nil {
		t.Fatalf("Engage failed: %v", err)
	}

	// The default script reveals a payment id on its third line.
	if report.TurnsTaken != 3 {
		t.Fatalf("turns taken = %d, want 3", report.TurnsTaken)
	}
	if report.Intelligence == nil || len(report.Intelligence.UPIIDs) == 0 {
		t.Fatalf("intelligence = %+v, want the scripted upi id", report.Intelligence)
	}
	if report.Intelligence.UPIIDs[0] != "scammer123@upi" {
		t.Fatalf("upi id = %q, want scammer123@upi", report.Intelligence.UPIIDs[0])
	}
	if report.PersonaUsed != "senior_citizen" {
		t.Fatalf("persona = %q, want senior_citizen for a bank message", report.PersonaUsed)
	}
}

func TestEngageSessionIDsUnique(t *testing.T) {
	engine := newTestEngine(t, &fakeAgent{}, &fakeCounterpart{}, testEngagementConfig(), nil)

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 5; i++ {
		report, err := engine.Engage(context.Background(), scamMessage)
		if err != nil {
			t.Fatalf("Engage failed: %v", err)
		}
		if seen[report.SessionID] {
			t.Fatalf("session id %s repeated", report.SessionID)
		}
		seen[report.SessionID] = true
	}
}
