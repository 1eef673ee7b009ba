package honeypot

import (
	"context"
	"fmt"
)

// ScriptedScammer replays a fixed, ordered script of scammer-style
// replies indexed by turn number, clamped to the last entry once the
// script is exhausted. It stands in for a real counterpart so the whole
// loop stays deterministic in tests and demos.
type ScriptedScammer struct {
	script []string
}

// NewScriptedScammer creates a ScriptedScammer from a non-empty script.
func NewScriptedScammer(script []string) (*ScriptedScammer, error) {
	if len(script) == 0 {
		return nil, fmt.Errorf("scripted scammer: script must not be empty")
	}
	return &ScriptedScammer{script: script}, nil
}

// Reply returns the scripted line for the given turn. The agent line is
// ignored; the script is fixed.
func (s *ScriptedScammer) Reply(_ context.Context, _ string, turn int) (string, error) {
	idx := turn - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	return s.script[idx], nil
}
