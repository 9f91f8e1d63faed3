// apps/go-server/internal/board/types.go
//
// Core type definitions for the infiltration grid.
// Defines:
//   - Kind: what a node is (starter, firewall, valuable, or a cosmetic category).
//   - State: where a node is in its lifecycle.
//   - Node: the externally visible view of one grid cell.

package board

// Grid dimensions and initial placement counts.
const (
	Size          = 48
	Cols          = 8
	Rows          = Size / Cols
	FirewallCount = 8
	ValuableCount = 6
)

// Kind classifies a node. Secure/Data/Network/Standard are cosmetic.
type Kind string

const (
	KindStandard Kind = "standard"
	KindSecure   Kind = "secure"
	KindData     Kind = "data"
	KindNetwork  Kind = "network"
	KindValuable Kind = "valuable"
	KindStarter  Kind = "starter"
	KindFirewall Kind = "firewall"
)

// State is a node's lifecycle position.
//   - untouched:  nothing has happened to it yet.
//   - threatened: the defense system is about to convert it.
//   - hacked:     breached by the player.
//   - active:     the most recently breached node (also hacked).
type State string

const (
	StateUntouched  State = "untouched"
	StateThreatened State = "threatened"
	StateHacked     State = "hacked"
	StateActive     State = "active"
)

// Node is a read-only view of one cell.
type Node struct {
	Index    int    `json:"index"`
	Kind     Kind   `json:"kind"`
	State    State  `json:"state"`
	Host     string `json:"host"`
	PowerUp  string `json:"powerUp,omitempty"`  // power-up id sitting on the node
	Revealed bool   `json:"revealed,omitempty"` // flagged by a Reveal power-up
}
