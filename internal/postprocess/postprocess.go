// Package postprocess finalizes a draft session: every action must leave
// this pass with non-empty, structurally valid parameters for its type.
package postprocess

import (
	"fmt"

	"mokuso/internal/models"
	"mokuso/internal/params"
)

// Process walks the session in order and backfills any action whose
// parameters are absent, empty, or structurally invalid for its action type.
// Backfill is a local recovery, never a failure. The whole-session duration
// invariant is re-validated afterwards; a mismatch there is terminal.
func Process(session *models.Session, gen *params.Generator) error {
	for si := range session.Segments {
		seg := &session.Segments[si]
		for ai := range seg.Actions {
			act := &seg.Actions[ai]
			if len(act.Parameters) == 0 || !validParameters(act.Type, act.Parameters) {
				act.Parameters = gen.Generate(act.Type, seg.Type, nil)
			}
		}
	}

	if err := session.Validate(); err != nil {
		return fmt.Errorf("post-processed session is invalid: %w", err)
	}
	return nil
}

// validParameters reports whether p carries the fields the action type
// requires. Action types without a fixed shape only need a non-empty payload.
func validParameters(t models.ActionType, p map[string]any) bool {
	switch t {
	case models.ActionSpeak, models.ActionTransitionCue:
		return nonEmptyString(p, "text")
	case models.ActionPause:
		_, ok := p["reason"]
		return ok
	case models.ActionInhaleCue, models.ActionExhaleCue:
		return nonEmptyString(p, "phase")
	case models.ActionBreathingCycle:
		return isNumber(p, "inhale_seconds") && isNumber(p, "exhale_seconds") && isNumber(p, "repetitions")
	case models.ActionSilence:
		return nonEmptyString(p, "type")
	case models.ActionPlay, models.ActionFadeIn, models.ActionFadeOut, models.ActionVolumeChange:
		return nonEmptyString(p, "track_id")
	default:
		return len(p) > 0
	}
}

func nonEmptyString(p map[string]any, key string) bool {
	s, ok := p[key].(string)
	return ok && s != ""
}

// isNumber accepts the numeric types both in-process construction and JSON
// decoding produce.
func isNumber(p map[string]any, key string) bool {
	switch p[key].(type) {
	case int, int64, float64:
		return true
	}
	return false
}
