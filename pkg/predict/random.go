package predict

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// NumLabels is the size of the stub label set {0, 1, 2}.
const NumLabels = 3

// RandomPredictor is the development stub: a uniformly random label and score.
type RandomPredictor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPredictor creates a RandomPredictor drawing from src.
// A nil src seeds a PCG source from the current time.
func NewRandomPredictor(src rand.Source) *RandomPredictor {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	return &RandomPredictor{rng: rand.New(src)}
}

func (p *RandomPredictor) Name() string {
	return "random"
}

func (p *RandomPredictor) Predict(ctx context.Context, sample string) (Prediction, error) {
	p.mu.Lock()
	label := p.rng.IntN(NumLabels)
	score := p.rng.Float64()
	p.mu.Unlock()

	return Prediction{Label: label, Score: roundScore(score)}, nil
}
