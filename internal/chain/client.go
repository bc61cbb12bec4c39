// Package chain implements the EVM chain reader and transfer submitter for a
// single configured network.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/clock"
	"github.com/monfortune/oracle-backend/internal/model"
)

// ErrNotFound reports that a transaction or receipt is absent on the queried
// network. Pending transactions surface the same way: the caller is expected
// to resubmit once their transaction actually confirms.
var ErrNotFound = errors.New("transaction not found")

// nativeTransferGas covers a plain value transfer only, never a contract call.
const nativeTransferGas = 21000

const receiptPollInterval = 2 * time.Second

// Config describes one network endpoint.
type Config struct {
	Network       model.Network
	RPCURL        string
	OracleAddress common.Address
	ExplorerBase  string
}

// Client binds an RPC endpoint, the oracle account for that network, and the
// shared signing key. The signing key is the single shared mutable resource
// per network; submissions are serialized so account nonces stay ordered.
type Client struct {
	cfg     Config
	eth     *ethclient.Client
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	logger  *zap.Logger

	submitMu sync.Mutex
}

// NewClient dials the endpoint and resolves its chain ID.
func NewClient(ctx context.Context, cfg Config, key *ecdsa.PrivateKey, logger *zap.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s rpc: %w", cfg.Network, err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("chain id for %s: %w", cfg.Network, err)
	}
	return &Client{
		cfg:     cfg,
		eth:     eth,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		logger:  logger.With(zap.String("network", string(cfg.Network))),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Network returns the network tag this client is bound to.
func (c *Client) Network() model.Network { return c.cfg.Network }

// OracleAddress returns the inbound offering address for this network.
func (c *Client) OracleAddress() common.Address { return c.cfg.OracleAddress }

// SignerAddress returns the account used for outgoing transfers.
func (c *Client) SignerAddress() common.Address { return c.from }

// ChainID returns the resolved chain ID.
func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// Backend exposes the raw ethclient for contract bindings.
func (c *Client) Backend() *ethclient.Client { return c.eth }

// ExplorerTxURL builds a human-viewable link for a transaction hash.
func (c *Client) ExplorerTxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(c.cfg.ExplorerBase, "/"), hash)
}

// TransactionByHash fetches a transaction together with its receipt status.
// Returns ErrNotFound when the transaction or its receipt is absent.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (model.ChainTransaction, error) {
	h := common.HexToHash(hash)
	tx, pending, err := c.eth.TransactionByHash(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		return model.ChainTransaction{}, ErrNotFound
	}
	if err != nil {
		return model.ChainTransaction{}, fmt.Errorf("get transaction %s: %w", hash, err)
	}
	if pending {
		return model.ChainTransaction{}, ErrNotFound
	}
	receipt, err := c.eth.TransactionReceipt(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		return model.ChainTransaction{}, ErrNotFound
	}
	if err != nil {
		return model.ChainTransaction{}, fmt.Errorf("get receipt %s: %w", hash, err)
	}
	from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return model.ChainTransaction{}, fmt.Errorf("recover sender %s: %w", hash, err)
	}
	return model.ChainTransaction{
		Hash:      hash,
		From:      from,
		To:        tx.To(),
		Value:     new(big.Int).Set(tx.Value()),
		Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
		Network:   c.cfg.Network,
	}, nil
}

// HasReceipt reports whether a receipt exists for the hash on this network.
func (c *Client) HasReceipt(ctx context.Context, hash string) (bool, error) {
	_, err := c.eth.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe receipt %s: %w", hash, err)
	}
	return true, nil
}

// Balance returns the current balance of an address in wei.
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", addr.Hex(), err)
	}
	return balance, nil
}

// SendNative submits a single signed value transfer from the oracle account.
// Submissions are serialized per network so the pending nonce read and the
// send stay consistent under concurrent requests.
func (c *Client) SendNative(ctx context.Context, to common.Address, amount *big.Int) (string, error) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      nativeTransferGas,
		To:       &to,
		Value:    amount,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign transfer: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transfer: %w", err)
	}
	hash := signed.Hash().Hex()
	c.logger.Info("submitted native transfer",
		zap.String("to", to.Hex()),
		zap.String("amount_wei", amount.String()),
		zap.String("txhash", hash),
	)
	return hash, nil
}

// WaitMined polls for the transfer receipt until it appears or the context
// expires. The caller bounds the wait and treats expiry as an unknown outcome.
func (c *Client) WaitMined(ctx context.Context, hash string) error {
	h := common.HexToHash(hash)
	for {
		_, err := c.eth.TransactionReceipt(ctx, h)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("wait mined %s: %w", hash, err)
		}
		if err := clock.SleepWithContext(ctx, receiptPollInterval); err != nil {
			return err
		}
	}
}
