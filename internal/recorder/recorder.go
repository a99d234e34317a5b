package recorder

import (
	"time"

	"PriceBoard/internal/model"
)

// SelectionEvent is one journal row: what was selected and what it produced.
type SelectionEvent struct {
	EventID        string
	Version        uint64
	RangeID        string
	LookbackDays   int
	Points         int
	FirstDate      model.Date
	LastDate       model.Date
	CurrentPrice   float64
	AbsoluteChange float64
	PercentChange  float64
	SelectedAt     time.Time
}

// NewSelectionEvent flattens a Selection into a journal row.
func NewSelectionEvent(sel model.Selection) *SelectionEvent {
	evt := &SelectionEvent{
		EventID:        sel.EventID,
		Version:        sel.Version,
		RangeID:        sel.Range.ID,
		LookbackDays:   sel.Range.LookbackDays,
		Points:         len(sel.Series),
		CurrentPrice:   sel.Stats.CurrentPrice,
		AbsoluteChange: sel.Stats.AbsoluteChange,
		PercentChange:  sel.Stats.PercentChange,
		SelectedAt:     sel.SelectedAt,
	}
	if first, ok := sel.Series.First(); ok {
		evt.FirstDate = first.Date
	}
	if last, ok := sel.Series.Last(); ok {
		evt.LastDate = last.Date
	}
	return evt
}

// Recorder journals selection events for later analysis. It is write-only:
// nothing reads the journal back to restore dashboard state.
type Recorder interface {
	RecordSelection(evt *SelectionEvent) error
	Close() error
}

// Sink adapts a Recorder to the selection dispatcher.
type Sink struct {
	Recorder Recorder
}

func (s Sink) Name() string { return "journal" }

func (s Sink) Publish(sel model.Selection) error {
	return s.Recorder.RecordSelection(NewSelectionEvent(sel))
}
