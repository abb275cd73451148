package fortune

import (
	"math/rand/v2"
	"sync"
)

// Picker selects fortunes uniformly at random.
type Picker struct {
	mu       sync.Mutex
	rng      *rand.Rand
	messages []string
}

// NewPicker returns a Picker over the built-in messages using a randomly
// seeded source.
func NewPicker() *Picker {
	return &Picker{messages: messages}
}

// NewPickerWithSource returns a Picker that draws from rng. Used for
// deterministic tests.
func NewPickerWithSource(rng *rand.Rand) *Picker {
	return &Picker{rng: rng, messages: messages}
}

// Random returns one fortune.
func (p *Picker) Random() string {
	if p.rng == nil {
		return p.messages[rand.IntN(len(p.messages))]
	}

	// *rand.Rand is not safe for concurrent use.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[p.rng.IntN(len(p.messages))]
}

// All returns a copy of every fortune.
func (p *Picker) All() []string {
	out := make([]string, len(p.messages))
	copy(out, p.messages)
	return out
}

// Count returns the number of fortunes.
func (p *Picker) Count() int {
	return len(p.messages)
}
