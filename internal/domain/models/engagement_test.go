package models_test

import (
	"testing"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

func TestIntelligenceMerge(t *testing.T) {
	intel := models.NewIntelligence()

	intel.Merge(models.Intelligence{
		UPIIDs:        []string{"a@upi"},
		PhishingLinks: []string{"http://one"},
	})
	intel.Merge(models.Intelligence{
		UPIIDs:       []string{"a@upi", "b@upi"},
		BankAccounts: []string{"123456789"},
	})

	if got := intel.Total(); got != 4 {
		t.Fatalf("Total = %d, want 4", got)
	}
	if len(intel.UPIIDs) != 2 || intel.UPIIDs[0] != "a@upi" || intel.UPIIDs[1] != "b@upi" {
		t.Fatalf("UPIIDs = %v, want first-seen order without duplicates", intel.UPIIDs)
	}
}

func TestIntelligenceMergeNeverShrinks(t *testing.T) {
	intel := models.NewIntelligence()
	intel.Merge(models.Intelligence{UPIIDs: []string{"a@upi"}})

	before := intel.Total()
	intel.Merge(models.Intelligence{})
	intel.Merge(models.NewIntelligence())

	if intel.Total() < before {
		t.Fatalf("Total shrank from %d to %d", before, intel.Total())
	}
}

func TestNewIntelligenceIsEmpty(t *testing.T) {
	intel := models.NewIntelligence()
	if !intel.IsEmpty() {
		t.Fatal("fresh intelligence not empty")
	}
	if intel.UPIIDs == nil || intel.BankAccounts == nil || intel.PhishingLinks == nil {
		t.Fatal("fresh intelligence has nil slices")
	}
}
