package model

// Tier is the categorical outcome band of a reading.
type Tier string

var (
	TierBad       Tier = "bad"
	TierPoor      Tier = "poor"
	TierNeutral   Tier = "neutral"
	TierGood      Tier = "good"
	TierExcellent Tier = "excellent"
)

// Outcome is the deterministic result of an outcome engine. Multiplier is a
// fixed-point payout ratio in hundredths (150 means 1.5x), so downstream wei
// math stays in integers. Text is decorative and filled by a separate
// decoration step when the engine leaves it empty.
type Outcome struct {
	Tier       Tier
	Name       string
	Score      int // linear rule-set: luck score 0..100; superstition: table rank
	Multiplier int64
	Text       string
}

// MultiplierRatio returns the payout multiplier as a plain ratio for display.
func (o Outcome) MultiplierRatio() float64 {
	return float64(o.Multiplier) / 100
}
