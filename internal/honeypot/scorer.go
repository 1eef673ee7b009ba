package honeypot

import (
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

const maxThreatScore = 100

// Scorer maps signals to a bounded threat score in [0, 100]. Two scoring
// modes exist because both appear across observed variants of this logic:
// indicator-based (default for reports) and keyword-based (always used
// for the detection gate).
type Scorer struct {
	cfg        config.ScoringConfig
	urgency    []string
	credential []string
}

// NewScorer creates a Scorer from the scoring weights and the detection
// keyword tables.
func NewScorer(cfg config.ScoringConfig, keywords config.KeywordsConfig) *Scorer {
	return &Scorer{
		cfg:        cfg,
		urgency:    keywords.Urgency,
		credential: keywords.Credential,
	}
}

// Score computes the report score for a finished run using the configured
// mode. Both modes are pure functions of their inputs.
func (s *Scorer) Score(message string, intel models.Intelligence) int {
	if s.cfg.Mode == config.ScoringModeKeyword {
		return s.KeywordScore(message)
	}
	return s.IndicatorScore(intel)
}

// IndicatorScore scores by which indicator categories were extracted:
// each non-empty category adds its weight, capped at 100.
func (s *Scorer) IndicatorScore(intel models.Intelligence) int {
	score := 0
	if len(intel.UPIIDs) > 0 {
		score += s.cfg.Indicator.PaymentID
	}
	if len(intel.PhishingLinks) > 0 {
		score += s.cfg.Indicator.Link
	}
	if len(intel.BankAccounts) > 0 {
		score += s.cfg.Indicator.BankAccount
	}
	return clampScore(score)
}

// KeywordScore scores the raw initiating message before any conversation:
// urgency/suspension keywords, credential keywords, embedded links and
// UPI mentions each add their weight, capped at 100.
func (s *Scorer) KeywordScore(message string) int {
	text := strings.ToLower(message)

	score := 0
	if containsAny(text, s.urgency) {
		score += s.cfg.Keyword.Urgency
	}
	if containsAny(text, s.credential) {
		score += s.cfg.Keyword.Credential
	}
	if strings.Contains(text, "http") || strings.Contains(text, "www") {
		score += s.cfg.Keyword.Link
	}
	if strings.Contains(text, "upi") {
		score += s.cfg.Keyword.UPI
	}
	return clampScore(score)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxThreatScore {
		return maxThreatScore
	}
	return score
}
