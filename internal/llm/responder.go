package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// Responder generates the honeypot persona's next line from a chat
// completion provider. It satisfies the engine's AgentResponder contract.
type Responder struct {
	client *Client
}

// NewResponder wraps a Client as a persona responder.
func NewResponder(client *Client) *Responder {
	return &Responder{client: client}
}

// NextLine builds the provider message history from the conversation and
// asks for the persona's reply. The system turn in the conversation is
// carried as the provider system prompt, not as a history message.
func (r *Responder) NextLine(ctx context.Context, persona models.Persona, conversation []models.Turn, turn int) (string, error) {
	messages := make([]Message, 0, len(conversation))
	for _, t := range conversation {
		if t.Role == models.RoleSystem {
			continue
		}
		messages = append(messages, Message{Role: string(t.Role), Content: t.Content})
	}

	reply, err := r.client.Chat(ctx, persona.Instruction, messages)
	if err != nil {
		return "", fmt.Errorf("generate reply for turn %d: %w", turn, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("generate reply for turn %d: provider returned empty text", turn)
	}

	return reply, nil
}
