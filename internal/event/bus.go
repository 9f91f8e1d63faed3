package event

import (
	"sync"
	"time"
)

// Sink receives events. Implementations must not block the publisher.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// Bus fans events out to subscribers in subscription order and stamps each
// event with a sequence number and the session id.
type Bus struct {
	mu      sync.RWMutex
	session string
	seq     uint64
	next    int
	sinks   map[int]Sink
	order   []int
}

// NewBus returns a bus for one session.
func NewBus(session string) *Bus {
	return &Bus{session: session, sinks: make(map[int]Sink)}
}

// Subscribe registers s and returns a function that removes it.
func (b *Bus) Subscribe(s Sink) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.sinks[id] = s
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.sinks, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit stamps e and hands it to every sink.
func (b *Bus) Emit(e Event, at time.Time) {
	b.mu.Lock()
	b.seq++
	e.Seq = b.seq
	e.Session = b.session
	e.At = at
	sinks := make([]Sink, 0, len(b.order))
	for _, id := range b.order {
		sinks = append(sinks, b.sinks[id])
	}
	b.mu.Unlock()

	for _, s := range sinks {
		s.Publish(e)
	}
}

// Channel is a buffered Sink that drops events when the reader falls behind,
// so a slow websocket never stalls a game.
type Channel struct {
	C       chan Event
	mu      sync.Mutex
	dropped int
}

// NewChannel returns a channel sink with the given buffer.
func NewChannel(buffer int) *Channel {
	return &Channel{C: make(chan Event, buffer)}
}

func (c *Channel) Publish(e Event) {
	select {
	case c.C <- e:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
	}
}

// Dropped reports how many events did not fit in the buffer.
func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Recorder keeps every event; used by tests and replays.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of what was recorded.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfKind returns the recorded events of kind k.
func (r *Recorder) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Cues returns the sound cues in order.
func (r *Recorder) Cues() []Cue {
	var out []Cue
	for _, e := range r.OfKind(Sound) {
		out = append(out, e.Cue)
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
