package noise

import (
	"fmt"
	"math/rand"

	"dilemma/internal/model"
)

// Injector stochastically flips intended moves into executed moves. Each
// injector owns its random stream, so two injectors in the same match
// draw independent trials.
type Injector struct {
	prob float64
	rng  *rand.Rand
}

// NewInjector validates the mistake probability and binds the stream.
// The rng may be nil only when prob is zero.
func NewInjector(prob float64, rng *rand.Rand) (*Injector, error) {
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("mistake probability must be in [0,1], got %g", prob)
	}
	if prob > 0 && rng == nil {
		return nil, fmt.Errorf("random source is required for mistake probability %g", prob)
	}
	return &Injector{prob: prob, rng: rng}, nil
}

// Apply returns the executed move and whether it is a flip of the
// intended one. Probability zero never consumes randomness; probability
// one always flips.
func (n *Injector) Apply(intended model.Move) (model.Move, bool) {
	if n.prob == 0 {
		return intended, false
	}
	if n.rng.Float64() < n.prob {
		return intended.Opposite(), true
	}
	return intended, false
}
