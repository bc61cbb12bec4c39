package model

import "math/big"

// PayoutStatus describes the state of the outgoing refund transfer.
type PayoutStatus string

var (
	// PayoutNone means no transfer was attempted (zero payout amount).
	PayoutNone PayoutStatus = "none"
	// PayoutPending means the transfer was submitted but not confirmed within
	// the wait bound; it may still confirm later out-of-band.
	PayoutPending PayoutStatus = "pending"
	// PayoutConfirmed means the transfer was mined successfully.
	PayoutConfirmed PayoutStatus = "confirmed"
	// PayoutFailed means submission failed; operator remediation is required
	// because the offering has already been marked processed.
	PayoutFailed PayoutStatus = "failed"
)

// PayoutResult records what the payout executor actually did.
type PayoutResult struct {
	Amount *big.Int // wei actually targeted after bounding; zero when none
	TxHash string   // empty when no transfer was submitted
	Status PayoutStatus
}
