package honeypot_test

import (
	"strings"
	"testing"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
)

func mustRegistry(t *testing.T) *honeypot.PersonaRegistry {
	t.Helper()
	reg, err := honeypot.NewPersonaRegistry(testPersonasConfig())
	if err != nil {
		t.Fatalf("NewPersonaRegistry failed: %v", err)
	}
	return reg
}

func seedConversation(instruction, lastCounterpartLine string) []models.Turn {
	return []models.Turn{
		{Role: models.RoleSystem, Content: instruction},
		{Role: models.RoleUser, Content: lastCounterpartLine},
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
