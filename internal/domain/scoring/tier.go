package scoring

import "math"

// Tier is the display tier of a score.
type Tier string

const (
	TierGreen  Tier = "green"
	TierAmber  Tier = "amber"
	TierOrange Tier = "orange"
	TierRed    Tier = "red"
)

// Classification is how a score is presented.
type Classification struct {
	Tier        Tier
	ColorHex    string
	Description string
}

// tiers are ordered by descending minimum score; red catches the rest.
var tiers = [...]struct {
	min float64
	Classification
}{
	{8, Classification{TierGreen, "#10B981", "Bowel health is in good shape."}},
	{6, Classification{TierAmber, "#F59E0B", "Mostly fine, but there is room for improvement."}},
	{4, Classification{TierOrange, "#F97316", "Bowel health needs attention."}},
	{math.Inf(-1), Classification{TierRed, "#EF4444", "High constipation risk. Lifestyle changes are recommended."}},
}

// Classify maps a score to its tier: green >= 8, amber >= 6, orange >= 4,
// red below.
func Classify(score float64) Classification {
	for _, t := range tiers {
		if score >= t.min {
			return t.Classification
		}
	}
	// NaN
	return tiers[len(tiers)-1].Classification
}
