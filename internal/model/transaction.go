package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ChainTransaction is a confirmed transaction as observed on chain.
// Immutable once fetched; the oracle never derives it from anything else.
type ChainTransaction struct {
	Hash      string
	From      common.Address
	To        *common.Address // nil for contract creation
	Value     *big.Int        // wei
	Succeeded bool            // receipt exists and its status flag is success
	Network   Network
}
