package honeypot

import (
	"context"
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// AgentResponder produces the honeypot persona's next line. The scripted
// implementation below is deterministic; internal/llm provides one backed
// by an external text-generation service. Either may fail or be slow and
// is called synchronously within the turn.
type AgentResponder interface {
	NextLine(ctx context.Context, persona models.Persona, conversation []models.Turn, turn int) (string, error)
}

// Counterpart produces the scammer side's next line given the agent's
// last utterance. Turn indices start at 1 and strictly increase.
type Counterpart interface {
	Reply(ctx context.Context, agentLine string, turn int) (string, error)
}

// ScriptedResponder is a deterministic decision tree keyed on the persona
// and on keywords in the last counterpart line. Each branch is a canned
// question designed to elicit more indicators.
type ScriptedResponder struct{}

// NewScriptedResponder creates a ScriptedResponder.
func NewScriptedResponder() *ScriptedResponder {
	return &ScriptedResponder{}
}

// probes map counterpart keywords to indicator-eliciting questions.
// Order matters: the first matching probe wins.
var probes = []struct {
	keyword  string
	question string
}{
	{"otp", "I did not get any OTP on my phone. Is there some other way, maybe a payment ID I can use directly?"},
	{"upi", "My hands shake while typing. Can you send the exact UPI ID once more, letter by letter?"},
	{"http", "That link does not open on my old phone. Can you type the full address again slowly?"},
	{"link", "Which link do you mean? Please paste the complete address here so I can copy it."},
	{"account", "I have two passbooks and I always mix them up. Which account number should the money go to?"},
}

// fallbacks are per-persona turn-indexed lines used when no probe keyword
// is present in the counterpart's last message. Clamped to the last entry.
var fallbacks = map[string][]string{
	"senior_citizen": {
		"Oh dear, that sounds serious. What exactly do I need to do? Please go step by step.",
		"I am writing this down with a pen. Where should I send the money, beta?",
		"My grandson usually helps me with the phone. Can you give me the details again?",
		"I am almost ready. Just tell me once more where exactly to pay.",
	},
	"shop_owner": {
		"I am in the middle of billing customers. Tell me quickly, what do you need from me?",
		"Fine fine, I do UPI all day. Just send me where to pay and I will do it.",
		"My internet is slow in the shop. Send the payment details again, I lost them.",
		"Customers are waiting. Give me the number or ID one last time.",
	},
	"student": {
		"Wait, really? I don't want to lose my account. What should I do first?",
		"Okay I'm ready, I have my phone out. Where exactly do I pay?",
		"My UPI app is acting weird. Can you send the details one more time?",
		"Sorry, I got distracted by class. Can you repeat the payment info?",
	},
}

// NextLine picks the canned question for the current state. For turn 1
// the last counterpart line is the initiating message itself.
func (r *ScriptedResponder) NextLine(_ context.Context, persona models.Persona, conversation []models.Turn, turn int) (string, error) {
	last := lastCounterpartLine(conversation)

	for _, p := range probes {
		if strings.Contains(last, p.keyword) {
			return p.question, nil
		}
	}

	lines, ok := fallbacks[persona.ID]
	if !ok {
		// Unknown persona ids still get a usable generic line.
		lines = fallbacks["student"]
	}
	idx := turn - 1
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	return lines[idx], nil
}

func lastCounterpartLine(conversation []models.Turn) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == models.RoleUser {
			return strings.ToLower(conversation[i].Content)
		}
	}
	return ""
}
