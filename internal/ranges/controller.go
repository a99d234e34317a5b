package ranges

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/calculator"
	"PriceBoard/internal/model"
)

// ErrUnknownRange is returned when a selection names an id absent from the catalog.
var ErrUnknownRange = errors.New("unknown range")

// Generator produces the series for a lookback window ending at now.
type Generator interface {
	Generate(lookbackDays int, now time.Time) (model.Series, error)
}

// Controller owns the selected range and the Selection computed for it.
// Selections are serialised; readers always get copies.
type Controller struct {
	catalog model.Catalog
	gen     Generator
	clock   func() time.Time

	mu      sync.Mutex
	current model.Selection
	version uint64
	subs    map[int]chan model.Selection
	nextSub int
}

// Option configures a Controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	defaultID string
	clock     func() time.Time
}

// WithDefaultRange sets the range selected on construction.
func WithDefaultRange(id string) Option {
	return func(o *controllerOptions) { o.defaultID = id }
}

// WithClock sets the source of "now" for every selection.
func WithClock(clock func() time.Time) Option {
	return func(o *controllerOptions) { o.clock = clock }
}

// NewController selects the default range and computes its series before
// returning, so callers never observe an empty controller.
func NewController(catalog model.Catalog, gen Generator, opts ...Option) (*Controller, error) {
	o := controllerOptions{defaultID: model.DefaultRangeID, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if catalog.Len() == 0 {
		return nil, errors.New("controller needs a non-empty catalog")
	}
	if gen == nil {
		return nil, errors.New("controller needs a generator")
	}

	c := &Controller{
		catalog: catalog,
		gen:     gen,
		clock:   o.clock,
		subs:    make(map[int]chan model.Selection),
	}
	if _, err := c.Select(o.defaultID); err != nil {
		return nil, fmt.Errorf("select default range: %w", err)
	}
	return c, nil
}

// Catalog returns the ranges the controller accepts.
func (c *Controller) Catalog() model.Catalog { return c.catalog }

// Select switches to the range id, regenerating and reducing its series.
// On any error the previous selection stays in place untouched.
func (c *Controller) Select(id string) (model.Selection, error) {
	spec, ok := c.catalog.Lookup(id)
	if !ok {
		return model.Selection{}, fmt.Errorf("select %q: %w", id, ErrUnknownRange)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(spec)
}

// Refresh re-selects the current range, e.g. after the calendar day rolls over.
// The current range is read under the same lock that regenerates it, so a
// concurrent Select is never reverted.
func (c *Controller) Refresh() (model.Selection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(c.current.Range)
}

// selectLocked must be called with c.mu held.
func (c *Controller) selectLocked(spec model.RangeSpec) (model.Selection, error) {
	now := c.clock()
	series, err := c.gen.Generate(spec.LookbackDays, now)
	if err != nil {
		return model.Selection{}, fmt.Errorf("select %q: %w", spec.ID, err)
	}
	stats, err := calculator.Reduce(series)
	if err != nil {
		return model.Selection{}, fmt.Errorf("select %q: %w", spec.ID, err)
	}

	c.version++
	c.current = model.Selection{
		EventID:    uuid.NewString(),
		Version:    c.version,
		Range:      spec,
		Series:     series,
		Stats:      stats,
		SelectedAt: now,
	}
	c.cast()

	log.WithFields(log.Fields{
		"range":    spec.ID,
		"points":   len(series),
		"version":  c.version,
		"event_id": c.current.EventID,
	}).Debug("range selected")

	return c.current.Clone(), nil
}

// Current returns the selected range id.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Range.ID
}

// Snapshot returns a copy of the latest selection.
func (c *Controller) Snapshot() model.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// Subscribe returns a channel that receives every successful selection from
// now on, and a cancel func that closes it. When the subscriber falls behind,
// the oldest pending selection is dropped in favour of the newest.
func (c *Controller) Subscribe(buffer int) (<-chan model.Selection, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan model.Selection, buffer)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// cast must be called with c.mu held.
func (c *Controller) cast() {
	for _, ch := range c.subs {
		sel := c.current.Clone()
		select {
		case ch <- sel:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- sel:
		default:
			log.WithField("event_id", sel.EventID).Warn("subscriber full, selection dropped")
		}
	}
}
