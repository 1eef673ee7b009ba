package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant" // the honeypot persona
	RoleUser      Role = "user"      // the counterpart (scammer side)
)

// Turn is a single line of the conversation log.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ScamCategory is the classification label for an initiating message.
type ScamCategory string

const (
	CategoryUPIFraud     ScamCategory = "UPI Fraud"
	CategoryBankPhishing ScamCategory = "Bank Phishing"
	CategoryKYCScam      ScamCategory = "KYC Scam"
	CategoryLotteryScam  ScamCategory = "Lottery Scam"
	CategoryUnknown      ScamCategory = "Unknown"
)

// Intelligence holds the indicators extracted from counterpart replies.
// Each slice is deduplicated; ordering is first-seen and carries no meaning.
type Intelligence struct {
	UPIIDs        []string `json:"upi_ids"`
	BankAccounts  []string `json:"bank_accounts"`
	PhishingLinks []string `json:"phishing_links"`
}

// NewIntelligence returns an empty Intelligence with non-nil slices so the
// JSON report always renders arrays.
func NewIntelligence() Intelligence {
	return Intelligence{
		UPIIDs:        []string{},
		BankAccounts:  []string{},
		PhishingLinks: []string{},
	}
}

// IsEmpty reports whether no indicators have been collected.
func (i Intelligence) IsEmpty() bool {
	return len(i.UPIIDs) == 0 && len(i.BankAccounts) == 0 && len(i.PhishingLinks) == 0
}

// Total returns the number of distinct indicators.
func (i Intelligence) Total() int {
	return len(i.UPIIDs) + len(i.BankAccounts) + len(i.PhishingLinks)
}

// Merge unions other into i, keeping first-seen order and set semantics.
// Intelligence only ever grows within a run.
func (i *Intelligence) Merge(other Intelligence) {
	i.UPIIDs = mergeUnique(i.UPIIDs, other.UPIIDs)
	i.BankAccounts = mergeUnique(i.BankAccounts, other.BankAccounts)
	i.PhishingLinks = mergeUnique(i.PhishingLinks, other.PhishingLinks)
}

func mergeUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

// EngagementReport is the terminal structured result of one honeypot run.
// It is created once and never mutated after being returned.
type EngagementReport struct {
	SessionID    uuid.UUID     `json:"session_id"`
	ScamDetected bool          `json:"scam_detected"`
	ScamType     ScamCategory  `json:"scam_type,omitempty"`
	PersonaUsed  string        `json:"persona_used,omitempty"`
	TurnsTaken   int           `json:"turns_taken,omitempty"`
	ThreatScore  int           `json:"threat_score"`
	Intelligence *Intelligence `json:"extracted_intelligence,omitempty"`
	Conversation []Turn        `json:"conversation_log,omitempty"`

	// Partial is set when an external generation dependency failed
	// mid-loop; the report then carries whatever accumulated up to the
	// failure and Failure names the cause. This is deliberately distinct
	// from a genuine "not a scam" result.
	Partial bool   `json:"partial,omitempty"`
	Failure string `json:"failure,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
