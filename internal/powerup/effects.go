package powerup

import (
	"sort"
	"time"
)

// Status is the display view of one active effect.
type Status struct {
	ID          ID    `json:"id"`
	RemainingMs int64 `json:"remainingMs"`
	Indefinite  bool  `json:"indefinite,omitempty"`
}

// Effects is the set of active power-ups of one game, at most one per type.
//
// Collecting a timed type that is already active refreshes its expiry to
// max(current, now+duration). A second Shield while one is up changes
// nothing: it still absorbs exactly one hit.
type Effects struct {
	expiry map[ID]time.Time
	shield bool
}

// NewEffects returns an empty effect set.
func NewEffects() *Effects {
	return &Effects{expiry: make(map[ID]time.Time)}
}

// Activate turns t on at now. It returns the resulting expiry (zero for
// untimed types) and whether an instance was already active.
func (e *Effects) Activate(t Type, now time.Time) (time.Time, bool) {
	switch {
	case t.ID == Shield:
		was := e.shield
		e.shield = true
		return time.Time{}, was
	case t.Duration <= 0:
		return time.Time{}, false
	}
	next := now.Add(t.Duration)
	cur, was := e.expiry[t.ID]
	if !was || next.After(cur) {
		e.expiry[t.ID] = next
		return next, was
	}
	return cur, was
}

// Has reports whether id is active.
func (e *Effects) Has(id ID) bool {
	if id == Shield {
		return e.shield
	}
	_, ok := e.expiry[id]
	return ok
}

// Expiry returns when id runs out.
func (e *Effects) Expiry(id ID) (time.Time, bool) {
	t, ok := e.expiry[id]
	return t, ok
}

// Consume uses up a Shield. Reports whether one was active.
func (e *Effects) Consume(id ID) bool {
	if id != Shield || !e.shield {
		return false
	}
	e.shield = false
	return true
}

// Expire removes id if its expiry has passed. A refreshed effect whose old
// timer fires late is left alone.
func (e *Effects) Expire(id ID, now time.Time) bool {
	t, ok := e.expiry[id]
	if !ok || now.Before(t) {
		return false
	}
	delete(e.expiry, id)
	return true
}

// Remaining lists active effects with time left, sorted by id.
func (e *Effects) Remaining(now time.Time) []Status {
	out := make([]Status, 0, len(e.expiry)+1)
	for id, t := range e.expiry {
		left := t.Sub(now)
		if left < 0 {
			left = 0
		}
		out = append(out, Status{ID: id, RemainingMs: left.Milliseconds()})
	}
	if e.shield {
		out = append(out, Status{ID: Shield, Indefinite: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Active reports how many effects are on.
func (e *Effects) Active() int {
	n := len(e.expiry)
	if e.shield {
		n++
	}
	return n
}

// Clear drops every effect.
func (e *Effects) Clear() {
	clear(e.expiry)
	e.shield = false
}
