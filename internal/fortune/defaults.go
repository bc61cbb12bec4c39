package fortune

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/params"

	"github.com/monfortune/oracle-backend/internal/model"
)

var weiPerUnit = new(big.Int).SetUint64(params.Ether)

// DefaultLinearConfig returns the stock linear rule-set: up to 30 points from
// the amount (10 per whole unit), 0-20 from message entropy, ±10 sentiment,
// a daily mood of 20-40 shared across the UTC day, and 0-10 millisecond
// jitter.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{
		AmountFactorCap: 30,
		AmountPerUnit:   10,
		EntropyMod:      21,
		MoodBase:        20,
		MoodMod:         21,
		TimeMod:         11,
		SentimentWeight: 2,
		SentimentClamp:  10,
		PositiveWords: []string{
			"good", "luck", "lucky", "love", "hope", "win",
			"moon", "happy", "bless", "fortune", "dream", "joy",
		},
		NegativeWords: []string{
			"bad", "fear", "loss", "lose", "curse", "hate",
			"doubt", "pain", "rug", "dead", "sad",
		},
		Bands: []ScoreBand{
			{Max: 20, Tier: model.TierBad, Multiplier: 0},
			{Max: 40, Tier: model.TierPoor, Multiplier: 50},
			{Max: 60, Tier: model.TierNeutral, Multiplier: 100},
			{Max: 80, Tier: model.TierGood, Multiplier: 150},
			{Max: 95, Tier: model.TierExcellent, Multiplier: 200},
			{Max: 100, Tier: model.TierExcellent, Multiplier: 300},
		},
	}
}

// DefaultSuperstitionConfig returns the stock superstition rule-set: a
// minimum offering of 8 units whose decimal form must contain an 8, with
// independent 0.5x penalties for doubled 4s in the amount, the 4th, 14th and
// 24th of the month, the 04:44 minute, and Tuesdays.
func DefaultSuperstitionConfig() SuperstitionConfig {
	return SuperstitionConfig{
		MinAmount:         new(big.Int).Mul(big.NewInt(8), weiPerUnit),
		LuckyDigit:        '8',
		UnluckyDigit:      '4',
		UnluckyDigitCount: 2,
		UnluckyMonthDays:  map[int]struct{}{4: {}, 14: {}, 24: {}},
		UnluckyMoments:    map[string]struct{}{"04:44": {}},
		UnluckyWeekdays:   map[time.Weekday]struct{}{time.Tuesday: {}},
		PenaltyFactor:     0.5,
		Table: []TableEntry{
			{Name: "void omen", Tier: model.TierBad, MinMult: 0, MaxMult: 0, Cumulative: 0.10},
			{Name: "ashen path", Tier: model.TierPoor, MinMult: 25, MaxMult: 50, Cumulative: 0.35},
			{Name: "quiet river", Tier: model.TierNeutral, MinMult: 75, MaxMult: 100, Cumulative: 0.65},
			{Name: "rising kite", Tier: model.TierGood, MinMult: 100, MaxMult: 150, Cumulative: 0.85},
			{Name: "golden carp", Tier: model.TierExcellent, MinMult: 150, MaxMult: 200, Cumulative: 0.97},
			{Name: "dragon's favor", Tier: model.TierExcellent, MinMult: 200, MaxMult: 300, Cumulative: 1.0},
		},
	}
}

// DefaultFortunePools returns the stock flavor-text pools per tier.
func DefaultFortunePools() map[model.Tier][]string {
	return map[model.Tier][]string{
		model.TierExcellent: {
			"The Monad smiles upon you!",
			"Destiny calls your name!",
			"Legendary luck!",
		},
		model.TierGood: {
			"Fortune favors the brave!",
			"Good omens gather!",
			"Success is within reach!",
		},
		model.TierNeutral: {
			"The future is unwritten...",
			"Balance in all things.",
			"Trust yourself.",
		},
		model.TierPoor: {
			"Dark clouds gather...",
			"Tread carefully.",
			"Wait for better times.",
		},
		model.TierBad: {
			"The void stares back...",
			"Turn back while you can!",
			"Not today.",
		},
	}
}
