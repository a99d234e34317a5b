package strategy

import "PriceBoard/internal/model"

// Tiers maps a total score to an outlook, highest first.
var Tiers = []struct {
	MinScore float64
	Tier     model.OutlookTier
}{
	{1.2, model.OutlookTier{Label: "Strong uptrend", Tone: "up"}},
	{0.4, model.OutlookTier{Label: "Uptrend", Tone: "up"}},
	{-0.4, model.OutlookTier{Label: "Sideways", Tone: "flat"}},
	{-1.2, model.OutlookTier{Label: "Downtrend", Tone: "down"}},
}

// DefaultTier is the lowest tier for scores < -1.2.
var DefaultTier = model.OutlookTier{Label: "Strong downtrend", Tone: "down"}

func mapTier(totalScore float64) model.OutlookTier {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Tier
		}
	}
	return DefaultTier
}

// Evaluate scores the selection's stats and indicators into an Outlook.
func Evaluate(rangeID string, stats model.PriceStats, ind *model.SeriesIndicators) *model.Outlook {
	factors := []model.FactorScore{
		scoreMomentum(stats),
		scoreSMADeviation(stats, ind),
		scoreRSI(ind),
		scoreRangePosition(ind),
	}

	var total float64
	for _, f := range factors {
		total += f.Weighted
	}

	return &model.Outlook{
		RangeID:    rangeID,
		Factors:    factors,
		TotalScore: total,
		Tier:       mapTier(total),
	}
}
