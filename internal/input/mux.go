package input

import "sync"

// Publisher receives the currently held buttons.
type Publisher interface {
	PublishButtons(ButtonSet)
}

// Mux merges several button sources into one Publisher. Each source owns a
// slot; every publish forwards the union of all slots.
type Mux struct {
	mu    sync.Mutex
	out   Publisher
	slots map[string]ButtonSet
}

func NewMux(out Publisher) *Mux {
	return &Mux{out: out, slots: make(map[string]ButtonSet)}
}

// Source returns the Publisher for the named slot.
func (m *Mux) Source(name string) Publisher {
	return muxSource{m: m, name: name}
}

func (m *Mux) publish(name string, set ButtonSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = set
	var all ButtonSet
	for _, s := range m.slots {
		all |= s
	}
	m.out.PublishButtons(all)
}

type muxSource struct {
	m    *Mux
	name string
}

func (s muxSource) PublishButtons(set ButtonSet) { s.m.publish(s.name, set) }
