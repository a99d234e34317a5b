package model

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// OutlookTier maps a total score range to a label.
type OutlookTier struct {
	Label string `json:"label"`
	Tone  string `json:"tone"` // "up", "down" or "flat"
}

// Outlook is the Analysis tab verdict for the current selection.
type Outlook struct {
	RangeID    string        `json:"range_id"`
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Tier       OutlookTier   `json:"tier"`
}
