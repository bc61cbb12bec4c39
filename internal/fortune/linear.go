package fortune

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/pkg/safe"
)

// ScoreBand maps the upper bound of a luck-score range to a tier and a payout
// multiplier in hundredths.
type ScoreBand struct {
	Max        int
	Tier       model.Tier
	Multiplier int64
}

// LinearConfig tunes the linear scoring rule-set. Every numeric constant is
// configuration so alternate deployments can retune without code changes.
type LinearConfig struct {
	AmountFactorCap int
	AmountPerUnit   int64 // score points per whole native unit, before the cap
	EntropyMod      int
	MoodBase        int
	MoodMod         int64
	TimeMod         int64
	SentimentWeight int
	SentimentClamp  int
	PositiveWords   []string
	NegativeWords   []string
	Bands           []ScoreBand
}

// LinearEngine scores offerings on a [0,100] scale. The score and multiplier
// are pure functions of (amount, message, context); the transaction hash does
// not participate in this rule-set.
type LinearEngine struct {
	cfg LinearConfig
}

// NewLinearEngine builds the engine; zero-value config fields fall back to
// the documented defaults.
func NewLinearEngine(cfg LinearConfig) *LinearEngine {
	if len(cfg.Bands) == 0 {
		cfg = DefaultLinearConfig()
	}
	return &LinearEngine{cfg: cfg}
}

// Compute maps an offering to its outcome. Identical inputs with a frozen
// context always yield the identical score and multiplier.
func (e *LinearEngine) Compute(amount *big.Int, message, _ string, fctx Context) model.Outcome {
	score := e.amountFactor(amount) +
		e.messageEntropy(message) +
		e.sentiment(message) +
		e.dailyMood(fctx) +
		e.timeFactor(fctx)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	band := e.band(score)
	return model.Outcome{
		Tier:       band.Tier,
		Name:       string(band.Tier),
		Score:      score,
		Multiplier: band.Multiplier,
	}
}

func (e *LinearEngine) amountFactor(amount *big.Int) int {
	scaled := new(big.Int).Mul(amount, big.NewInt(e.cfg.AmountPerUnit))
	scaled.Quo(scaled, weiPerUnit)
	if !scaled.IsInt64() {
		return e.cfg.AmountFactorCap
	}
	factor, err := safe.Int(scaled.Int64())
	if err != nil || factor > e.cfg.AmountFactorCap {
		return e.cfg.AmountFactorCap
	}
	return factor
}

func (e *LinearEngine) messageEntropy(message string) int {
	digest := sha256.Sum256([]byte(message))
	return int(binary.BigEndian.Uint16(digest[:2])) % e.cfg.EntropyMod
}

func (e *LinearEngine) sentiment(message string) int {
	lowered := strings.ToLower(message)
	hits := 0
	for _, word := range e.cfg.PositiveWords {
		if strings.Contains(lowered, word) {
			hits++
		}
	}
	for _, word := range e.cfg.NegativeWords {
		if strings.Contains(lowered, word) {
			hits--
		}
	}
	s := e.cfg.SentimentWeight * hits
	if s > e.cfg.SentimentClamp {
		return e.cfg.SentimentClamp
	}
	if s < -e.cfg.SentimentClamp {
		return -e.cfg.SentimentClamp
	}
	return s
}

// dailyMood changes once per UTC day and is shared by every request that day.
func (e *LinearEngine) dailyMood(fctx Context) int {
	return e.cfg.MoodBase + int(fctx.Days()%e.cfg.MoodMod)
}

// timeFactor intentionally adds high-frequency jitter.
func (e *LinearEngine) timeFactor(fctx Context) int {
	return int(fctx.NowMillis % e.cfg.TimeMod)
}

func (e *LinearEngine) band(score int) ScoreBand {
	for _, band := range e.cfg.Bands {
		if score <= band.Max {
			return band
		}
	}
	return e.cfg.Bands[len(e.cfg.Bands)-1]
}
