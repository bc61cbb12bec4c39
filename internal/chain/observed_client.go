package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/monfortune/oracle-backend/internal/model"
)

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedClient wraps a Client with metrics instrumentation.
type ObservedClient struct {
	client     *Client
	rpcMetrics RPCMetrics
}

// NewObservedClient constructs an instrumented chain client.
func NewObservedClient(client *Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// Network returns the network tag of the wrapped client.
func (o *ObservedClient) Network() model.Network { return o.client.Network() }

// OracleAddress returns the inbound offering address.
func (o *ObservedClient) OracleAddress() common.Address { return o.client.OracleAddress() }

// SignerAddress returns the outgoing transfer account.
func (o *ObservedClient) SignerAddress() common.Address { return o.client.SignerAddress() }

// ExplorerTxURL builds an explorer link for a transaction hash.
func (o *ObservedClient) ExplorerTxURL(hash string) string { return o.client.ExplorerTxURL(hash) }

// TransactionByHash fetches a transaction with receipt status.
func (o *ObservedClient) TransactionByHash(ctx context.Context, hash string) (tx model.ChainTransaction, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("get_transaction", err, started)
	}()
	return o.client.TransactionByHash(ctx, hash)
}

// HasReceipt probes for a receipt on this network.
func (o *ObservedClient) HasReceipt(ctx context.Context, hash string) (ok bool, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("has_receipt", err, started)
	}()
	return o.client.HasReceipt(ctx, hash)
}

// Balance returns an address balance in wei.
func (o *ObservedClient) Balance(ctx context.Context, addr common.Address) (balance *big.Int, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("get_balance", err, started)
	}()
	return o.client.Balance(ctx, addr)
}

// SendNative submits a signed value transfer.
func (o *ObservedClient) SendNative(ctx context.Context, to common.Address, amount *big.Int) (hash string, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("send_native", err, started)
	}()
	return o.client.SendNative(ctx, to, amount)
}

// WaitMined waits for the transfer receipt within the context bound.
func (o *ObservedClient) WaitMined(ctx context.Context, hash string) (err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("wait_mined", err, started)
	}()
	return o.client.WaitMined(ctx, hash)
}
