package model

import "time"

// Selection is the value published after every successful range selection.
// The chart surface and the summary header both read from one Selection, so
// they never disagree about which range they show.
type Selection struct {
	EventID    string     `json:"event_id"`
	Version    uint64     `json:"version"`
	Range      RangeSpec  `json:"range"`
	Series     Series     `json:"series"`
	Stats      PriceStats `json:"stats"`
	SelectedAt time.Time  `json:"selected_at"`
}

// Clone returns a deep copy of the selection.
func (s Selection) Clone() Selection {
	s.Series = s.Series.Clone()
	return s
}
