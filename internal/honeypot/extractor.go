package honeypot

import (
	"regexp"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

var (
	// upiPattern approximates a payment-handle format like name@bank:
	// 2+ alphanumeric/.-_ characters, "@", then 2+ letters.
	upiPattern = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}`)

	// linkPattern accepts any http(s) URL up to the next whitespace; no
	// further validation of URL structure.
	linkPattern = regexp.MustCompile(`https?://[^\s]+`)

	// accountPattern matches a standalone run of 9 to 18 decimal digits.
	// This is a heuristic with a known false-positive rate against phone
	// numbers, OTP codes and arbitrary identifiers; it is reported as-is
	// and never disambiguated.
	accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)
)

// Extractor scans free text for payment identifiers, bank account numbers
// and phishing links. It is stateless; merging across turns belongs to
// the engine.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the deduplicated indicators found in text. Text with no
// matches yields empty sets, never an error.
func (e *Extractor) Extract(text string) models.Intelligence {
	intel := models.NewIntelligence()
	intel.UPIIDs = findUnique(upiPattern, text)
	intel.PhishingLinks = findUnique(linkPattern, text)
	intel.BankAccounts = findUnique(accountPattern, text)
	return intel
}

func findUnique(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllString(text, -1)
	result := []string{}
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}
