package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"PriceBoard/internal/model"
)

const (
	DefaultBasePrice      = 63000.0
	DefaultNoiseAmplitude = 2500.0
)

// ErrInvalidLookback is returned for a negative lookback window.
var ErrInvalidLookback = errors.New("lookback days must be >= 0")

// Generator synthesizes daily price series: every point is the base price
// plus uniform noise in [-amplitude, +amplitude), sampled independently.
type Generator struct {
	basePrice float64
	amplitude float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithBasePrice sets the price every sample is centred on.
func WithBasePrice(p float64) Option {
	return func(g *Generator) { g.basePrice = p }
}

// WithNoiseAmplitude sets the half-width of the noise band.
func WithNoiseAmplitude(a float64) Option {
	return func(g *Generator) { g.amplitude = a }
}

// WithSource replaces the random source.
func WithSource(src rand.Source) Option {
	return func(g *Generator) { g.rnd = rand.New(src) }
}

// WithSeed makes the output reproducible. A zero seed keeps the default source.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// New creates a Generator with the default base price and amplitude.
func New(opts ...Option) *Generator {
	g := &Generator{
		basePrice: DefaultBasePrice,
		amplitude: DefaultNoiseAmplitude,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		now := uint64(time.Now().UnixNano())
		g.rnd = rand.New(rand.NewPCG(now, now>>1))
	}
	return g
}

func (g *Generator) BasePrice() float64      { return g.basePrice }
func (g *Generator) NoiseAmplitude() float64 { return g.amplitude }

// Generate returns lookbackDays+1 points, one per calendar day from
// date(now)-lookbackDays to date(now), oldest first.
func (g *Generator) Generate(lookbackDays int, now time.Time) (model.Series, error) {
	if lookbackDays < 0 {
		return nil, fmt.Errorf("generate %d days: %w", lookbackDays, ErrInvalidLookback)
	}

	today := model.DateOf(now)
	series := make(model.Series, 0, lookbackDays+1)

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := lookbackDays; i >= 0; i-- {
		series = append(series, model.PricePoint{
			Date:  today.AddDays(-i),
			Price: g.basePrice + g.rnd.Float64()*2*g.amplitude - g.amplitude,
		})
	}
	return series, nil
}
