package params

import (
	"reflect"
	"testing"

	"mokuso/internal/models"
)

var allActionTypes = []models.ActionType{
	models.ActionSpeak, models.ActionPause,
	models.ActionInhaleCue, models.ActionExhaleCue, models.ActionBreathingCycle,
	models.ActionSilence, models.ActionTransitionCue, models.ActionSegmentTimer,
	models.ActionPlay, models.ActionFadeIn, models.ActionFadeOut, models.ActionVolumeChange,
}

var allSegmentTypes = []models.SegmentType{
	models.SegmentOpening, models.SegmentBreathwork, models.SegmentBodyAwareness,
	models.SegmentVisualization, models.SegmentSilence, models.SegmentAffirmation,
	models.SegmentClosing, models.SegmentGrounding, models.SegmentDeepening, models.SegmentCustom,
}

// The generator must return a non-empty payload for every pair, including
// action types it has never heard of.
func TestGenerateIsTotal(t *testing.T) {
	g := NewGenerator()

	actions := append([]models.ActionType{}, allActionTypes...)
	actions = append(actions, models.ActionType("levitate"))

	for _, action := range actions {
		for _, segment := range allSegmentTypes {
			p := g.Generate(action, segment, nil)
			if len(p) == 0 {
				t.Errorf("Generate(%s, %s) returned empty payload", action, segment)
			}
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	g := NewGenerator()

	for _, action := range allActionTypes {
		first := g.Generate(action, models.SegmentBreathwork, nil)
		second := g.Generate(action, models.SegmentBreathwork, nil)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Generate(%s) not idempotent: %v vs %v", action, first, second)
		}
	}
}

func TestGenerateContextFreeDefaults(t *testing.T) {
	g := NewGenerator()

	if p := g.Generate(models.ActionPause, models.SegmentOpening, nil); p["reason"] != "Allow for reflection" {
		t.Errorf("pause = %v", p)
	}
	if p := g.Generate(models.ActionSilence, models.SegmentVisualization, nil); p["type"] != "reflection" {
		t.Errorf("silence = %v", p)
	}
	if p := g.Generate(models.ActionTransitionCue, models.SegmentClosing, nil); p["text"] != "Transitioning" {
		t.Errorf("transition_cue = %v", p)
	}
}

func TestGenerateFallbackContent(t *testing.T) {
	g := NewGenerator()

	p := g.Generate(models.ActionSpeak, models.SegmentOpening, nil)
	if p["text"] != "Welcome to this inner peace meditation." {
		t.Errorf("speak/opening text = %v", p["text"])
	}

	p = g.Generate(models.ActionInhaleCue, models.SegmentBreathwork, nil)
	if p["phase"] != "inhale" || p["text"] != "Inhale deeply through your nose" {
		t.Errorf("inhale_cue/breathwork = %v", p)
	}

	// Guidance-style segments borrow the guidance entry.
	p = g.Generate(models.ActionSpeak, models.SegmentBodyAwareness, nil)
	if p["text"] != "Allow your awareness to rest gently in the present moment." {
		t.Errorf("speak/body_awareness text = %v", p["text"])
	}

	// Segment types the table does not cover fall back to the opening entry.
	p = g.Generate(models.ActionSpeak, models.SegmentGrounding, nil)
	if p["text"] != "Welcome to this inner peace meditation." {
		t.Errorf("speak/grounding fallback text = %v", p["text"])
	}
}

func TestGenerateSuppliedContentWins(t *testing.T) {
	g := NewGenerator()
	content := Content{
		models.SegmentOpening: {
			VoiceTexts: []string{"Custom welcome."},
			BreathCues: map[string]string{"inhale": "Custom inhale"},
		},
	}

	p := g.Generate(models.ActionSpeak, models.SegmentOpening, content)
	if p["text"] != "Custom welcome." {
		t.Errorf("speak with supplied content = %v", p["text"])
	}

	p = g.Generate(models.ActionInhaleCue, models.SegmentOpening, content)
	if p["text"] != "Custom inhale" {
		t.Errorf("inhale_cue with supplied content = %v", p["text"])
	}
}

func TestGenerateBreathingCycle(t *testing.T) {
	g := NewGenerator()

	p := g.Generate(models.ActionBreathingCycle, models.SegmentBreathwork, nil)
	if p["inhale_seconds"] != 4 || p["exhale_seconds"] != 6 || p["repetitions"] != 3 {
		t.Errorf("breathing_cycle = %v", p)
	}
}

func TestGenerateMusicPayload(t *testing.T) {
	g := NewGenerator()

	for _, action := range []models.ActionType{models.ActionPlay, models.ActionFadeIn, models.ActionFadeOut, models.ActionVolumeChange} {
		p := g.Generate(action, models.SegmentOpening, nil)
		if p["track_id"] != "ambient_peace" {
			t.Errorf("%s track_id = %v", action, p["track_id"])
		}
	}
}

func TestGenerateUnknownActionPlaceholder(t *testing.T) {
	g := NewGenerator()

	p := g.Generate(models.ActionType("hum"), models.SegmentCustom, nil)
	if p["text"] != "Placeholder instruction" {
		t.Errorf("unknown action = %v", p)
	}
}

// The cache is keyed by (action, segment): a hit wins over later supplied
// content, and Reset makes the generator forget.
func TestResetClearsCache(t *testing.T) {
	g := NewGenerator()
	content := Content{
		models.SegmentOpening: {VoiceTexts: []string{"Fresh text."}},
	}

	if p := g.Generate(models.ActionSpeak, models.SegmentOpening, nil); p["text"] == "Fresh text." {
		t.Fatal("unexpected content before it was supplied")
	}
	if p := g.Generate(models.ActionSpeak, models.SegmentOpening, content); p["text"] != "Welcome to this inner peace meditation." {
		t.Errorf("cache hit should win, got %v", p["text"])
	}

	g.Reset()
	if p := g.Generate(models.ActionSpeak, models.SegmentOpening, content); p["text"] != "Fresh text." {
		t.Errorf("after reset, supplied content should win, got %v", p["text"])
	}
}
