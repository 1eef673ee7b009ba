package honeypot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
)

// PersonaRegistry holds the fixed persona set and the selection cascade.
// Personas are immutable after startup.
type PersonaRegistry struct {
	personas map[string]models.Persona
	rules    []config.PersonaRule
	fallback string
}

// NewPersonaRegistry builds the registry from configuration. Rules
// referencing undefined personas and a missing fallback are startup
// errors, not per-request conditions.
func NewPersonaRegistry(cfg config.PersonasConfig) (*PersonaRegistry, error) {
	if len(cfg.Definitions) == 0 {
		return nil, fmt.Errorf("persona registry: no personas defined")
	}

	personas := make(map[string]models.Persona, len(cfg.Definitions))
	for id, instruction := range cfg.Definitions {
		personas[id] = models.Persona{ID: id, Instruction: instruction}
	}

	if _, ok := personas[cfg.Default]; !ok {
		return nil, fmt.Errorf("persona registry: default persona %q is not defined", cfg.Default)
	}
	for _, rule := range cfg.Rules {
		if _, ok := personas[rule.Persona]; !ok {
			return nil, fmt.Errorf("persona registry: rule %q references undefined persona %q", rule.Contains, rule.Persona)
		}
	}

	return &PersonaRegistry{
		personas: personas,
		rules:    cfg.Rules,
		fallback: cfg.Default,
	}, nil
}

// Select maps a message to a persona: first matching rule wins, otherwise
// the fallback. The mapping is total, so every input gets a persona.
func (r *PersonaRegistry) Select(message string, _ models.ScamCategory) models.Persona {
	text := strings.ToLower(message)
	for _, rule := range r.rules {
		if strings.Contains(text, strings.ToLower(rule.Contains)) {
			return r.personas[rule.Persona]
		}
	}
	return r.personas[r.fallback]
}

// Get returns a persona by id.
func (r *PersonaRegistry) Get(id string) (models.Persona, bool) {
	p, ok := r.personas[id]
	return p, ok
}

// List returns all personas sorted by id.
func (r *PersonaRegistry) List() []models.Persona {
	result := make([]models.Persona, 0, len(r.personas))
	for _, p := range r.personas {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
