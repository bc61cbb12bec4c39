// Package model defines domain records for the fortune oracle.
package model

// Network identifies a configured chain deployment.
type Network string

var (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)
