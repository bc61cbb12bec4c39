package model

// TokenReward reports an opportunistic FORTUNE token transfer issued alongside
// the native payout. Absent (nil) whenever the token path is unconfigured or
// failed; its failure never affects the primary response.
type TokenReward struct {
	Amount      string  `json:"amount"`
	Multiplier  float64 `json:"multiplier"`
	TxHash      string  `json:"txhash"`
	ExplorerURL string  `json:"explorer_url"`
}

// Reading is the assembled response for one processed offering.
type Reading struct {
	Fortune      string       `json:"fortune"`
	LuckScore    int          `json:"luck_score"`
	LuckTier     Tier         `json:"luck_tier"`
	Multiplier   float64      `json:"multiplier"`
	Received     string       `json:"received"` // whole native units
	Sent         string       `json:"sent"`
	ReturnTxHash *string      `json:"txhash_return"` // null when no transfer
	PayoutStatus PayoutStatus `json:"payout_status"`
	Network      Network      `json:"network"`
	Sender       string       `json:"sender"`
	ExplorerURL  string       `json:"explorer_url"`
	TokenReward  *TokenReward `json:"token_reward,omitempty"`
}
