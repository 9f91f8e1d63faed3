// apps/go-server/internal/event/event.go
//
// Events emitted by a game session to its collaborators.
//
// A session never touches a renderer or a speaker. Every state transition is
// published as an Event; the browser (2D grid, 3D network view, audio) is a
// subscriber. Kinds are strings so they travel unchanged over JSON.

package event

import "time"

// Kind names what happened.
type Kind string

const (
	GameStarted       Kind = "game_started"
	GameEnded         Kind = "game_ended"
	GameReset         Kind = "game_reset"
	ModeChanged       Kind = "mode_changed"
	NodeChanged       Kind = "node_changed"
	ScoreChanged      Kind = "score_changed"
	ComboChanged      Kind = "combo_changed"
	XPGained          Kind = "xp_gained"
	LevelUp           Kind = "level_up"
	ChallengeStarted  Kind = "challenge_started"
	ChallengeUpdated  Kind = "challenge_updated"
	ChallengeResolved Kind = "challenge_resolved"
	PowerUpSpawned    Kind = "powerup_spawned"
	PowerUpCollected  Kind = "powerup_collected"
	PowerUpExpired    Kind = "powerup_expired"
	PowerUpTick       Kind = "powerup_tick"
	DefenseWarning    Kind = "defense_warning"
	DefenseSecured    Kind = "defense_secured"
	DefenseDeployed   Kind = "defense_deployed"
	ThreatRevealed    Kind = "threat_revealed"
	Log               Kind = "log"
	Sound             Kind = "sound"
)

// Severity tags log lines the way the terminal panel colours them.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Cue is a fire-and-forget sound for the audio collaborator.
type Cue string

const (
	CueNodeClick        Cue = "node_click"
	CueHackSuccess      Cue = "hack_success"
	CueHackFail         Cue = "hack_fail"
	CueFirewallHit      Cue = "firewall_hit"
	CueLevelUp          Cue = "level_up"
	CueCombo            Cue = "combo"
	CueXPGain           Cue = "xp_gain"
	CuePowerUpCollect   Cue = "powerup_collect"
	CueDefenseWarning   Cue = "defense_warning"
	CueDefenseActivated Cue = "defense_activated"
	CueError            Cue = "error"
	CueVictory          Cue = "victory"
	CueCorrectInput     Cue = "correct_input"
	CueWrongInput       Cue = "wrong_input"
)

// Event is one notification. Node is -1 when not node specific.
type Event struct {
	Seq      uint64         `json:"seq"`
	Session  string         `json:"session"`
	Kind     Kind           `json:"kind"`
	At       time.Time      `json:"at"`
	Node     int            `json:"node"`
	Severity Severity       `json:"severity,omitempty"`
	Message  string         `json:"message,omitempty"`
	Cue      Cue            `json:"cue,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
