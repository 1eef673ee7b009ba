package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Karthik2006-In/Honeypot-AI/internal/api"
	"github.com/Karthik2006-In/Honeypot-AI/internal/api/handlers"
	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

const testAPIKey = "test-key-123"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "honeypot-ai",
			Environment: "test",
			Version:     "1.0.0",
		},
		Server: config.ServerConfig{
			WriteTimeout: 2 * time.Minute,
		},
		Auth: config.AuthConfig{APIKey: testAPIKey},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		},
		Honeypot: config.HoneypotConfig{
			Engagement: config.EngagementConfig{
				MaxTurns:           5,
				StopPolicy:         config.StopPolicyImmediate,
				MinTurns:           3,
				DetectionThreshold: 20,
				Responder:          config.ResponderScripted,
			},
			Scoring: config.ScoringConfig{
				Mode: config.ScoringModeIndicator,
				Indicator: config.IndicatorWeights{
					PaymentID:   40,
					Link:        40,
					BankAccount: 50,
				},
				Keyword: config.KeywordWeights{
					Urgency:    15,
					Credential: 20,
					Link:       15,
					UPI:        10,
				},
			},
			Keywords: config.KeywordsConfig{
				Categories: config.DefaultCategories(),
				Urgency:    []string{"urgent", "immediately", "blocked", "suspend"},
				Credential: []string{"otp", "pin", "password", "cvv"},
			},
			Personas: config.PersonasConfig{
				Definitions: config.DefaultPersonas(),
				Rules: []config.PersonaRule{
					{Contains: "bank", Persona: "senior_citizen"},
					{Contains: "upi", Persona: "shop_owner"},
				},
				Default: "student",
			},
			ScammerScript: config.DefaultScammerScript(),
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	classifier := honeypot.NewClassifier(cfg.Honeypot.Keywords.Categories)
	scorer := honeypot.NewScorer(cfg.Honeypot.Scoring, cfg.Honeypot.Keywords)
	personas, err := honeypot.NewPersonaRegistry(cfg.Honeypot.Personas)
	if err != nil {
		t.Fatalf("persona registry: %v", err)
	}
	scammer, err := honeypot.NewScriptedScammer(cfg.Honeypot.ScammerScript)
	if err != nil {
		t.Fatalf("scripted scammer: %v", err)
	}
	engine, err := honeypot.NewEngine(
		classifier, honeypot.NewExtractor(), scorer, personas,
		honeypot.NewScriptedResponder(), scammer,
		cfg.Honeypot.Engagement, nil, log,
	)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Config:     cfg,
		Engine:     engine,
		Classifier: classifier,
		Personas:   personas,
		Logger:     log,
	})

	server := httptest.NewServer(api.NewRouter(cfg, h, nil, log).Setup())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, apiKey string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, server.URL+path, &reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func TestRootIsPublic(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodGet, "/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", resp.StatusCode)
	}

	var banner map[string]string
	if err := json.Unmarshal(body, &banner); err != nil {
		t.Fatalf("decode banner: %v", err)
	}
	if banner["service"] != "honeypot-ai" {
		t.Fatalf("service = %q, want honeypot-ai", banner["service"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, _ := doJSON(t, server, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestEngageRequiresAPIKey(t *testing.T) {
	server := newTestServer(t)
	payload := map[string]string{"message": "your bank account is blocked"}

	resp, _ := doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", "", payload)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing key status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", "wrong-key", payload)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong key status = %d, want 401", resp.StatusCode)
	}
}

func TestEngageRejectsBadInput(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", testAPIKey, map[string]string{"message": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank message status = %d, want 400", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/v1/honeypot/engage", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-API-Key", testAPIKey)
	badResp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed JSON status = %d, want 400", badResp.StatusCode)
	}
}

func TestEngageScamMessage(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", testAPIKey,
		map[string]string{"message": "Your bank account is blocked. Share OTP to verify immediately."})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", resp.StatusCode, body)
	}

	var report models.EngagementReport
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	if !report.ScamDetected {
		t.Fatal("scam not detected")
	}
	if report.ScamType != models.CategoryBankPhishing {
		t.Fatalf("scam type = %q, want Bank Phishing", report.ScamType)
	}
	if report.TurnsTaken < 1 || report.TurnsTaken > 5 {
		t.Fatalf("turns taken = %d, want 1..5", report.TurnsTaken)
	}
	if report.Intelligence == nil || len(report.Intelligence.UPIIDs) == 0 {
		t.Fatalf("intelligence = %+v, want scripted upi id", report.Intelligence)
	}
	if len(report.Conversation) == 0 {
		t.Fatal("conversation log empty")
	}
}

func TestEngageBenignMessage(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", testAPIKey,
		map[string]string{"message": "Hi, are we meeting for lunch tomorrow?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report models.EngagementReport
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ScamDetected {
		t.Fatal("benign message flagged as scam")
	}
}

func TestLegacyEngageAlias(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, server, http.MethodPost, "/agentic-honeypot", testAPIKey,
		map[string]string{"message": "Your bank account is blocked"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("legacy alias status = %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, server, http.MethodPost, "/agentic-honeypot", "", map[string]string{"message": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("legacy alias without key status = %d, want 401", resp.StatusCode)
	}
}

func TestPatternsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodGet, "/api/v1/honeypot/patterns", testAPIKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var patterns handlers.PatternsResponse
	if err := json.Unmarshal(body, &patterns); err != nil {
		t.Fatalf("decode patterns: %v", err)
	}
	if len(patterns.Categories) != 4 {
		t.Fatalf("got %d categories, want 4", len(patterns.Categories))
	}
	if len(patterns.Personas) != 3 {
		t.Fatalf("got %d personas, want 3", len(patterns.Personas))
	}
}

func TestStatsEndpoint(t *testing.T) {
	server := newTestServer(t)

	// Run one engagement so the counters move.
	doJSON(t, server, http.MethodPost, "/api/v1/honeypot/engage", testAPIKey,
		map[string]string{"message": "Your bank account is blocked"})

	resp, body := doJSON(t, server, http.MethodGet, "/api/v1/stats", testAPIKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats struct {
		Engagements int64            `json:"engagements"`
		Detected    int64            `json:"detected"`
		ByCategory  map[string]int64 `json:"by_category"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Engagements != 1 || stats.Detected != 1 {
		t.Fatalf("stats = %+v, want 1 engagement and 1 detection", stats)
	}
	if stats.ByCategory["Bank Phishing"] != 1 {
		t.Fatalf("by_category = %v, want Bank Phishing: 1", stats.ByCategory)
	}
}

func TestIntelEndpointWithoutArchive(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodGet, "/api/v1/intel/recent", testAPIKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with an empty feed", resp.StatusCode)
	}

	var feed struct {
		Indicators []models.ArchivedIndicator `json:"indicators"`
		Count      int                        `json:"count"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if feed.Count != 0 || len(feed.Indicators) != 0 {
		t.Fatalf("feed = %+v, want empty without an archive", feed)
	}
}
