package honeypot_test

import (
	"testing"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
)

func TestClassify(t *testing.T) {
	c := honeypot.NewClassifier(config.DefaultCategories())

	tests := []struct {
		name    string
		message string
		want    models.ScamCategory
	}{
		{
			name:    "bank phishing outscores kyc",
			message: "Your bank account is blocked. Click to verify.",
			want:    models.CategoryBankPhishing,
		},
		{
			name:    "kyc scam",
			message: "Click https://fake-bank-verify.com/login to complete your KYC verification",
			want:    models.CategoryKYCScam,
		},
		{
			name:    "lottery scam",
			message: "Congratulations! You are the lucky draw winner of our lottery",
			want:    models.CategoryLotteryScam,
		},
		{
			name:    "upi fraud",
			message: "Your PayTM cashback of Rs 500 is pending, payment failed",
			want:    models.CategoryUPIFraud,
		},
		{
			name:    "tie resolves to earlier category",
			message: "Use UPI to verify",
			want:    models.CategoryUPIFraud,
		},
		{
			name:    "case insensitive",
			message: "YOUR BANK ACCOUNT IS BLOCKED",
			want:    models.CategoryBankPhishing,
		},
		{
			name:    "harmless message",
			message: "Good morning, are we still on for lunch tomorrow?",
			want:    models.CategoryUnknown,
		},
		{
			name:    "empty-ish message",
			message: "hello",
			want:    models.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.message); got != tt.want {
				t.Fatalf("Classify(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := honeypot.NewClassifier(config.DefaultCategories())
	message := "verify your upi"

	first := c.Classify(message)
	for i := 0; i < 10; i++ {
		if got := c.Classify(message); got != first {
			t.Fatalf("classification changed between runs: %q then %q", first, got)
		}
	}
}

func TestCategories(t *testing.T) {
	c := honeypot.NewClassifier(config.DefaultCategories())

	names := c.Categories()
	want := []string{"UPI Fraud", "Bank Phishing", "KYC Scam", "Lottery Scam"}
	if len(names) != len(want) {
		t.Fatalf("got %d categories, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("category %d = %q, want %q", i, names[i], want[i])
		}
	}
}
