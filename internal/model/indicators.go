package model

// SeriesIndicators holds the supplementary statistics shown on the Statistics tab.
type SeriesIndicators struct {
	Samples  int     `json:"samples"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"` // 0.0 ~ 1.0 within [Low, High]
	SMA      float64 `json:"sma"`
	SMAWidth int     `json:"sma_width"`
	RSI      float64 `json:"rsi"`
}
