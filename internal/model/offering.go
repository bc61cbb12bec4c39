package model

// Offering is one inbound fortune request. It lives for the duration of a
// single request and is never persisted.
type Offering struct {
	TxHash      string
	Message     string
	Network     Network // optional explicit network; empty means auto-detect
	CallbackURL string
}
