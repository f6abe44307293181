// Package params produces type-appropriate parameter payloads for session
// actions. The generator is total: it returns a usable payload for any
// (action type, segment type) pair and never fails, because it is the last
// line of defense before a session is rejected as invalid.
package params

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"mokuso/internal/models"
)

//go:embed content.yaml
var contentYAML []byte

// SegmentContent holds fallback phrases and breath cues for one segment type.
type SegmentContent struct {
	VoiceTexts []string          `yaml:"voice_texts"`
	BreathCues map[string]string `yaml:"breath_cues"`
}

// Content maps segment types to contextual content. Supplied content takes
// precedence over the embedded fallback table.
type Content map[models.SegmentType]SegmentContent

// Generator memoizes parameter payloads by (action type, segment type).
type Generator struct {
	mu    sync.Mutex
	cache map[string]map[string]any
	table map[models.SegmentType]SegmentContent
}

// Segment types without their own table entry borrow the guidance content.
var contentAlias = map[models.SegmentType]models.SegmentType{
	models.SegmentBodyAwareness: "guidance",
	models.SegmentVisualization: "guidance",
	models.SegmentDeepening:     "guidance",
}

// Pre-defined defaults for action types that never depend on segment context.
var defaultParameters = map[models.ActionType]map[string]any{
	models.ActionPause:         {"reason": "Allow for reflection"},
	models.ActionSilence:       {"type": "reflection"},
	models.ActionTransitionCue: {"text": "Transitioning"},
}

// NewGenerator creates a Generator with the embedded fallback content table.
func NewGenerator() *Generator {
	var table map[models.SegmentType]SegmentContent
	if err := yaml.Unmarshal(contentYAML, &table); err != nil {
		// The table is embedded at build time; a parse failure is a build defect.
		panic(fmt.Sprintf("params: invalid embedded content table: %v", err))
	}
	return &Generator{
		cache: make(map[string]map[string]any),
		table: table,
	}
}

// Reset clears the memoization cache.
func (g *Generator) Reset() {
	g.mu.Lock()
	g.cache = make(map[string]map[string]any)
	g.mu.Unlock()
}

// Generate returns a parameter payload for the given action and segment
// types. Identical (action, segment) keys return the cached payload on
// subsequent calls within the process lifetime.
func (g *Generator) Generate(action models.ActionType, segment models.SegmentType, content Content) map[string]any {
	key := string(action) + "_" + string(segment)

	g.mu.Lock()
	defer g.mu.Unlock()

	if cached, ok := g.cache[key]; ok {
		return cached
	}
	if def, ok := defaultParameters[action]; ok && content == nil {
		return def
	}

	voiceTexts, breathCues := g.resolveContent(segment, content)

	var result map[string]any
	switch action {
	case models.ActionSpeak:
		text := "Take a moment to be present."
		if len(voiceTexts) > 0 {
			text = voiceTexts[0]
		}
		result = map[string]any{"text": text}

	case models.ActionPause:
		result = map[string]any{"reason": "Allow for reflection"}

	case models.ActionInhaleCue:
		result = map[string]any{"phase": "inhale", "text": cueOr(breathCues, "inhale", "Breathe in")}

	case models.ActionExhaleCue:
		result = map[string]any{"phase": "exhale", "text": cueOr(breathCues, "exhale", "Breathe out")}

	case models.ActionBreathingCycle:
		result = map[string]any{
			"inhale_seconds": 4,
			"hold_seconds":   0,
			"exhale_seconds": 6,
			"rest_seconds":   2,
			"repetitions":    3,
			"inhale_cue":     cueOr(breathCues, "inhale", "Breathe in"),
			"exhale_cue":     cueOr(breathCues, "exhale", "Breathe out"),
		}

	case models.ActionSilence:
		result = map[string]any{"type": "reflection"}

	case models.ActionTransitionCue:
		result = map[string]any{"text": "Transitioning"}

	case models.ActionPlay, models.ActionFadeIn, models.ActionFadeOut, models.ActionVolumeChange:
		result = map[string]any{"track_id": "ambient_peace", "volume": 0.3}

	default:
		// Unrecognized action types resolve to a speakable placeholder.
		result = map[string]any{"text": "Placeholder instruction"}
	}

	g.cache[key] = result
	return result
}

// resolveContent picks supplied content over the fallback table, falling back
// to the opening entry for segment types the table does not cover.
func (g *Generator) resolveContent(segment models.SegmentType, content Content) ([]string, map[string]string) {
	if content != nil {
		if sc, ok := content[segment]; ok {
			return sc.VoiceTexts, sc.BreathCues
		}
	}
	sc, ok := g.table[segment]
	if !ok {
		if alias, aliased := contentAlias[segment]; aliased {
			sc, ok = g.table[alias]
		}
	}
	if !ok {
		sc = g.table[models.SegmentOpening]
	}
	return sc.VoiceTexts, sc.BreathCues
}

func cueOr(cues map[string]string, phase, fallback string) string {
	if text, ok := cues[phase]; ok && text != "" {
		return text
	}
	return fallback
}
