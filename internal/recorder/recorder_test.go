package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceBoard/internal/model"
)

func sampleSelection(id, rangeID string) model.Selection {
	return model.Selection{
		EventID: id,
		Version: 1,
		Range:   model.RangeSpec{ID: rangeID, LookbackDays: 1, Label: rangeID},
		Series: model.Series{
			{Date: model.NewDate(2024, 1, 9), Price: 100},
			{Date: model.NewDate(2024, 1, 10), Price: 110},
		},
		Stats:      model.PriceStats{CurrentPrice: 110, AbsoluteChange: 10, PercentChange: 10},
		SelectedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewSelectionEvent(t *testing.T) {
	evt := NewSelectionEvent(sampleSelection("e1", "1d"))
	assert.Equal(t, "e1", evt.EventID)
	assert.Equal(t, "1d", evt.RangeID)
	assert.Equal(t, 2, evt.Points)
	assert.Equal(t, "2024-01-09", evt.FirstDate.String())
	assert.Equal(t, "2024-01-10", evt.LastDate.String())
	assert.Equal(t, 110.0, evt.CurrentPrice)

	empty := NewSelectionEvent(model.Selection{})
	assert.True(t, empty.FirstDate.IsZero())
}

func TestSQLiteRecorder_RecordsSelections(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer rec.Close()

	sink := Sink{Recorder: rec}
	require.NoError(t, sink.Publish(sampleSelection("e1", "1d")))
	require.NoError(t, sink.Publish(sampleSelection("e2", "1w")))
	require.NoError(t, sink.Publish(sampleSelection("e3", "1w")))

	n, err := rec.CountSelections("")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = rec.CountSelections("1w")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	err = rec.RecordSelection(NewSelectionEvent(sampleSelection("e1", "1d")))
	assert.Error(t, err, "event ids are unique")
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordSelection(&SelectionEvent{}))
	assert.NoError(t, rec.Close())
}
