// Package compose builds a draft meditation session from a generation
// request. It is a deterministic template pipeline: segment plan, breathing
// pattern, and difficulty-keyed scripts. Progress is reported as tagged
// lines on the provided writer.
package compose

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mokuso/internal/models"
)

// Composer produces draft sessions.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// plannedSegment is one entry of the session outline. Weights are relative
// shares of the total duration.
type plannedSegment struct {
	title  string
	typ    models.SegmentType
	weight int
}

var sessionPlan = []plannedSegment{
	{"Opening and Preparation", models.SegmentOpening, 8},
	{"Grounding Breathwork", models.SegmentBreathwork, 25},
	{"Body Awareness", models.SegmentBodyAwareness, 17},
	{"Guided Visualization", models.SegmentVisualization, 17},
	{"Affirmations", models.SegmentAffirmation, 17},
	{"Closing", models.SegmentClosing, 16},
}

type breathingPattern struct {
	name   string
	inhale int
	hold   int
	exhale int
	rest   int
}

var breathingPatterns = map[string]breathingPattern{
	"natural": {"natural", 4, 0, 6, 2},
	"calm":    {"calm", 3, 0, 5, 2},
	"box":     {"box", 4, 4, 4, 4},
	"4-7-8":   {"4-7-8", 4, 7, 8, 2},
}

type script struct {
	opening     string
	guidance    string
	affirmation string
	closing     string
}

var scripts = map[string]script{
	"beginner": {
		opening:     "Welcome to this peaceful meditation. Find a comfortable position and allow yourself to settle.",
		guidance:    "Notice your breath flowing in and out naturally.",
		affirmation: "With each breath, you are filled with %s.",
		closing:     "Slowly bring your awareness back. Wiggle your fingers and toes. Open your eyes when ready.",
	},
	"intermediate": {
		opening:     "Welcome. Take a moment to arrive fully in this space, releasing the outside world.",
		guidance:    "Bring awareness to the present moment, observing without judgment.",
		affirmation: "You rest in %s, steady and whole.",
		closing:     "Begin to transition back, carrying this sense of calm with you.",
	},
	"advanced": {
		opening:     "Welcome to this practice. Begin by establishing your intention for this session.",
		guidance:    "Cultivate deep awareness of each sensation as it arises and passes.",
		affirmation: "Every moment of awareness deepens your %s.",
		closing:     "Integrate this awareness as you return to your daily activities.",
	},
}

// Generate builds a draft session for req, writing tagged progress lines to
// out. Breath and music actions are left without parameters; backfill is the
// post-processor's job.
func (c *Composer) Generate(ctx context.Context, req models.GenerationRequest, out io.Writer) (*models.Session, error) {
	if req.DurationMinutes < 1 {
		return nil, fmt.Errorf("duration must be at least one minute, got %d", req.DurationMinutes)
	}
	total := req.DurationMinutes * 60

	fmt.Fprintf(out, "[Agent:Designer] Designing a %d minute %s session around %q\n",
		req.DurationMinutes, req.ContentKind, req.Theme)

	bounds := planTimes(total)
	fmt.Fprintf(out, "[Agent:Designer] Planned %d segments over %d seconds\n", len(bounds), total)

	sc := scriptFor(req.Difficulty)
	pattern := patternFor(req.Difficulty)
	fmt.Fprintf(out, "[Agent:Scriptwriter] Using %s breathing pattern (inhale %ds, exhale %ds)\n",
		pattern.name, pattern.inhale, pattern.exhale)

	segments := make([]models.Segment, 0, len(sessionPlan))
	for i, plan := range sessionPlan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start, end := bounds[i][0], bounds[i][1]
		fmt.Fprintf(out, "[Agent:Scriptwriter] Writing %q (%d-%ds)\n", plan.title, start, end)
		segments = append(segments, models.Segment{
			Title:            plan.title,
			Type:             plan.typ,
			StartTimeSeconds: start,
			EndTimeSeconds:   end,
			Actions:          c.segmentActions(plan.typ, start, end, sc, pattern, req.Theme),
		})
	}

	fmt.Fprintf(out, "[Agent:Timekeeper] Verified total duration: %d seconds\n", total)

	return &models.Session{
		Title:           titleCase(req.Theme) + " Meditation",
		DurationSeconds: total,
		Theme:           req.Theme,
		Difficulty:      req.Difficulty,
		BackgroundMusic: "Gentle ambient tones, minimal melody",
		Segments:        segments,
	}, nil
}

// planTimes splits total across the session plan by weight. Rounding drift
// lands on the final segment so the last end time always equals total.
func planTimes(total int) [][2]int {
	bounds := make([][2]int, len(sessionPlan))
	cursor := 0
	for i, plan := range sessionPlan {
		dur := total * plan.weight / 100
		if dur < 1 {
			dur = 1
		}
		end := cursor + dur
		if i == len(sessionPlan)-1 {
			end = total
		}
		bounds[i] = [2]int{cursor, end}
		cursor = end
	}
	return bounds
}

func (c *Composer) segmentActions(typ models.SegmentType, start, end int, sc script, pattern breathingPattern, theme string) []models.Action {
	length := end - start
	speak := func(text string, at, dur int) models.Action {
		return models.Action{
			Agent:            models.AgentVoice,
			Type:             models.ActionSpeak,
			StartTimeSeconds: at,
			DurationSeconds:  dur,
			Parameters:       map[string]any{"text": text},
		}
	}
	// Parameters intentionally left empty for backfill.
	bare := func(agent models.AgentType, typ models.ActionType, at, dur int) models.Action {
		return models.Action{Agent: agent, Type: typ, StartTimeSeconds: at, DurationSeconds: dur}
	}

	switch typ {
	case models.SegmentOpening:
		return []models.Action{
			bare(models.AgentMusic, models.ActionFadeIn, start, min(10, length)),
			speak(sc.opening, start, length),
		}

	case models.SegmentBreathwork:
		cycle := pattern.inhale + pattern.hold + pattern.exhale + pattern.rest
		cycles := length / cycle
		if cycles < 1 {
			cycles = 1
		}
		return []models.Action{
			speak("Bring your attention to your breath.", start, min(10, length)),
			bare(models.AgentBreath, models.ActionBreathingCycle, start, cycles*cycle),
			bare(models.AgentBreath, models.ActionInhaleCue, start, pattern.inhale),
			bare(models.AgentBreath, models.ActionExhaleCue, start+pattern.inhale+pattern.hold, pattern.exhale),
			bare(models.AgentTimer, models.ActionTransitionCue, end-2, 2),
		}

	case models.SegmentBodyAwareness:
		return []models.Action{
			speak(sc.guidance, start, min(20, length)),
			bare(models.AgentVoice, models.ActionPause, start+min(20, length), length-min(20, length)),
		}

	case models.SegmentVisualization:
		return []models.Action{
			speak(sc.guidance, start, min(20, length)),
			bare(models.AgentTimer, models.ActionSilence, start+min(20, length), length-min(20, length)),
		}

	case models.SegmentAffirmation:
		return []models.Action{
			speak(fmt.Sprintf(sc.affirmation, theme), start, length),
		}

	case models.SegmentClosing:
		return []models.Action{
			speak(sc.closing, start, length),
			bare(models.AgentMusic, models.ActionFadeOut, end-min(10, length), min(10, length)),
		}

	default:
		return []models.Action{speak(sc.guidance, start, length)}
	}
}

func scriptFor(difficulty string) script {
	if sc, ok := scripts[difficulty]; ok {
		return sc
	}
	return scripts["beginner"]
}

func patternFor(difficulty string) breathingPattern {
	switch difficulty {
	case "advanced":
		return breathingPatterns["4-7-8"]
	case "intermediate":
		return breathingPatterns["box"]
	default:
		return breathingPatterns["natural"]
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
