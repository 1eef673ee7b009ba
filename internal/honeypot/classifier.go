package honeypot

import (
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// Classifier maps free text to a scam category by keyword overlap.
// The category table is immutable after construction; classification is a
// pure function of the input text.
type Classifier struct {
	categories []config.CategoryKeywords
}

// NewClassifier creates a classifier over the given category table. The
// slice order is the enumeration order: when two categories score the
// same, the earlier one wins.
func NewClassifier(categories []config.CategoryKeywords) *Classifier {
	return &Classifier{categories: categories}
}

// Classify returns the category with the most trigger hits in message.
// Matching is case-insensitive substring containment; each trigger counts
// at most once. A zero maximum yields CategoryUnknown.
func (c *Classifier) Classify(message string) models.ScamCategory {
	text := strings.ToLower(message)

	best := models.CategoryUnknown
	bestScore := 0

	for _, cat := range c.categories {
		score := 0
		for _, trigger := range cat.Triggers {
			if strings.Contains(text, strings.ToLower(trigger)) {
				score++
			}
		}
		// Strict > keeps the first-encountered category on ties.
		if score > bestScore {
			bestScore = score
			best = models.ScamCategory(cat.Name)
		}
	}

	return best
}

// Categories returns the category names in enumeration order.
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}
