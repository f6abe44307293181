package models

import "fmt"

// AgentType はアクションを担当するエージェントの種類
type AgentType string

const (
	AgentVoice  AgentType = "VoiceAgent"
	AgentBreath AgentType = "BreathAgent"
	AgentTimer  AgentType = "TimerAgent"
	AgentMusic  AgentType = "MusicAgent"
)

// ActionType はアクションの種類
type ActionType string

const (
	// VoiceAgent
	ActionSpeak ActionType = "speak"
	ActionPause ActionType = "pause"

	// BreathAgent
	ActionInhaleCue      ActionType = "inhale_cue"
	ActionExhaleCue      ActionType = "exhale_cue"
	ActionBreathingCycle ActionType = "breathing_cycle"

	// TimerAgent
	ActionSilence       ActionType = "silence"
	ActionTransitionCue ActionType = "transition_cue"
	ActionSegmentTimer  ActionType = "segment_timer"

	// MusicAgent
	ActionPlay         ActionType = "play"
	ActionFadeIn       ActionType = "fade_in"
	ActionFadeOut      ActionType = "fade_out"
	ActionVolumeChange ActionType = "volume_change"
)

// SegmentType は瞑想セグメントの種類
type SegmentType string

const (
	SegmentOpening       SegmentType = "opening"
	SegmentBreathwork    SegmentType = "breathwork"
	SegmentBodyAwareness SegmentType = "body_awareness"
	SegmentVisualization SegmentType = "visualization"
	SegmentSilence       SegmentType = "silence"
	SegmentAffirmation   SegmentType = "affirmation"
	SegmentClosing       SegmentType = "closing"
	SegmentGrounding     SegmentType = "grounding"
	SegmentDeepening     SegmentType = "deepening"
	SegmentCustom        SegmentType = "custom"
)

// Action はセグメント内でエージェントが実行する最小単位
type Action struct {
	Agent            AgentType      `json:"agent"`
	Type             ActionType     `json:"type"`
	StartTimeSeconds int            `json:"start_time_seconds"`
	DurationSeconds  int            `json:"duration_seconds"`
	Parameters       map[string]any `json:"parameters"`
}

// Segment はセッション内の時間区切られた一区間
type Segment struct {
	Title            string      `json:"title"`
	Type             SegmentType `json:"type"`
	StartTimeSeconds int         `json:"start_time_seconds"`
	EndTimeSeconds   int         `json:"end_time_seconds"`
	Actions          []Action    `json:"actions"`
}

// Session は完成した瞑想セッションのドキュメント
type Session struct {
	Title           string    `json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
	Theme           string    `json:"theme"`
	Difficulty      string    `json:"difficulty"`
	BackgroundMusic string    `json:"background_music,omitempty"`
	Segments        []Segment `json:"segments"`
}

// Validate はセッション全体の整合性を検証する。
// duration_seconds は全セグメントの end_time_seconds の最大値と一致しなければならない。
func (s *Session) Validate() error {
	if len(s.Segments) == 0 {
		return fmt.Errorf("session has no segments")
	}

	maxEnd := 0
	for i, seg := range s.Segments {
		if seg.StartTimeSeconds < 0 {
			return fmt.Errorf("segment %d (%s): start time is negative", i, seg.Title)
		}
		if seg.EndTimeSeconds <= seg.StartTimeSeconds {
			return fmt.Errorf("segment %d (%s): end time (%ds) must be after start time (%ds)",
				i, seg.Title, seg.EndTimeSeconds, seg.StartTimeSeconds)
		}
		if seg.EndTimeSeconds > maxEnd {
			maxEnd = seg.EndTimeSeconds
		}
		for j, act := range seg.Actions {
			if act.StartTimeSeconds < 0 {
				return fmt.Errorf("segment %d action %d: start time is negative", i, j)
			}
			if act.DurationSeconds < 0 {
				return fmt.Errorf("segment %d action %d: duration is negative", i, j)
			}
		}
	}

	if s.DurationSeconds != maxEnd {
		return fmt.Errorf("duration (%ds) does not match end of last segment (%ds)", s.DurationSeconds, maxEnd)
	}
	return nil
}
