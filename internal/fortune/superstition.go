package fortune

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/utils"
)

// TableEntry is one row of the ordered categorical outcome table. Cumulative
// thresholds are ascending and the last row closes the range at 1.0.
type TableEntry struct {
	Name       string
	Tier       model.Tier
	MinMult    int64 // hundredths
	MaxMult    int64
	Cumulative float64
}

// SuperstitionConfig tunes the superstition-weighted rule-set.
type SuperstitionConfig struct {
	MinAmount         *big.Int // wei; offerings below are declined, not penalized
	LuckyDigit        byte
	UnluckyDigit      byte
	UnluckyDigitCount int // occurrences of UnluckyDigit that trigger the penalty
	UnluckyMonthDays  map[int]struct{}
	UnluckyMoments    map[string]struct{} // "HH:MM"
	UnluckyWeekdays   map[time.Weekday]struct{}
	PenaltyFactor     float64 // independent multiplier applied per condition met
	Table             []TableEntry
}

// SuperstitionEngine derives a categorical outcome from transaction-hash
// entropy, weighted down by configured unlucky conditions.
type SuperstitionEngine struct {
	cfg SuperstitionConfig
}

// NewSuperstitionEngine builds the engine; an empty table selects defaults.
func NewSuperstitionEngine(cfg SuperstitionConfig) *SuperstitionEngine {
	if len(cfg.Table) == 0 {
		cfg = DefaultSuperstitionConfig()
	}
	return &SuperstitionEngine{cfg: cfg}
}

// Compute maps an offering to a table entry. Offerings below the minimum, or
// whose decimal representation lacks the lucky digit, are declined with a
// zero multiplier; nothing is charged or penalized.
func (e *SuperstitionEngine) Compute(amount *big.Int, message, txHash string, fctx Context) model.Outcome {
	if amount.Cmp(e.cfg.MinAmount) < 0 {
		return model.Outcome{
			Tier:       model.TierBad,
			Name:       "declined",
			Multiplier: 0,
			Text: fmt.Sprintf("The spirits expect at least %s. Offer more and return.",
				utils.FormatWei(e.cfg.MinAmount)),
		}
	}
	digits := amountDigits(amount)
	if !strings.ContainsRune(digits, rune(e.cfg.LuckyDigit)) {
		return model.Outcome{
			Tier:       model.TierBad,
			Name:       "declined",
			Multiplier: 0,
			Text: fmt.Sprintf("An offering without the digit %c carries no luck today.",
				e.cfg.LuckyDigit),
		}
	}

	entropy, slice := hashEntropy(txHash, message)
	penalized := entropy * e.penalty(digits, fctx)

	rank, entry := e.selectEntry(penalized)
	spread := entry.MaxMult - entry.MinMult
	multiplier := entry.MinMult + int64(math.Round(float64(spread)*slice))

	return model.Outcome{
		Tier:       entry.Tier,
		Name:       entry.Name,
		Score:      rank,
		Multiplier: multiplier,
	}
}

// hashEntropy derives two independent [0,1) values from SHA-256(txhash+message):
// the first drives table selection, the second interpolates the multiplier
// within the selected range.
func hashEntropy(txHash, message string) (float64, float64) {
	digest := sha256.Sum256([]byte(strings.ToLower(txHash) + message))
	first := float64(binary.BigEndian.Uint64(digest[0:8])) / (1 << 64)
	second := float64(binary.BigEndian.Uint64(digest[8:16])) / (1 << 64)
	return first, second
}

// amountDigits renders the offered amount in whole units and strips the
// decimal point, e.g. 7.5 units -> "75".
func amountDigits(amount *big.Int) string {
	return strings.ReplaceAll(utils.FormatWei(amount), ".", "")
}

func (e *SuperstitionEngine) penalty(digits string, fctx Context) float64 {
	factor := 1.0
	if strings.Count(digits, string(e.cfg.UnluckyDigit)) >= e.cfg.UnluckyDigitCount {
		factor *= e.cfg.PenaltyFactor
	}
	if _, ok := e.cfg.UnluckyMonthDays[fctx.Today.Day()]; ok {
		factor *= e.cfg.PenaltyFactor
	}
	if _, ok := e.cfg.UnluckyMoments[fctx.Today.Format("15:04")]; ok {
		factor *= e.cfg.PenaltyFactor
	}
	if _, ok := e.cfg.UnluckyWeekdays[fctx.Today.Weekday()]; ok {
		factor *= e.cfg.PenaltyFactor
	}
	return factor
}

// selectEntry walks the table and picks the first entry whose cumulative
// threshold covers the penalized entropy. Floating rounding at a boundary can
// leave no match; the last entry is the documented fallback.
func (e *SuperstitionEngine) selectEntry(penalized float64) (int, TableEntry) {
	for i, entry := range e.cfg.Table {
		if entry.Cumulative >= penalized {
			return i, entry
		}
	}
	last := len(e.cfg.Table) - 1
	return last, e.cfg.Table[last]
}
