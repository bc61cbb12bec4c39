// Package token manages the FORTUNE bonding-curve token: deployment, trades
// and luck-based rewards. The whole package is an opportunistic collaborator;
// its failures must never abort a fortune reading.
package token

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/utils"
)

// ErrNotConfigured reports that the token (or router) address is not set for
// this network.
var ErrNotConfigured = errors.New("fortune token not configured")

const (
	tokenName        = "MON Fortune"
	tokenSymbol      = "FORTUNE"
	tokenMetadataURI = "https://mon-fortune.xyz/metadata.json"
)

// Config describes the token deployment on one network.
type Config struct {
	Network             model.Network
	TokenAddress        common.Address // zero until deployed
	RouterAddress       common.Address
	ExplorerBase        string
	NadFunBase          string
	RewardTokensPerUnit int64 // whole FORTUNE per whole native unit offered
}

// Manager wraps the token and router contracts for one network.
type Manager struct {
	cfg       Config
	backend   *ethclient.Client
	tokenABI  abi.ABI
	routerABI abi.ABI
	token     *bind.BoundContract // nil until an address is known
	router    *bind.BoundContract
	auth      *bind.TransactOpts
	logger    *zap.Logger
}

// Info aggregates the token's public state.
type Info struct {
	Address       string        `json:"address"`
	Name          string        `json:"name"`
	Symbol        string        `json:"symbol"`
	Decimals      uint8         `json:"decimals"`
	TotalSupply   string        `json:"total_supply"`
	Price         string        `json:"price"`
	MarketCap     string        `json:"market_cap"`
	OracleBalance string        `json:"oracle_balance"`
	Network       model.Network `json:"network"`
}

// TradeResult reports a buy or sell.
type TradeResult struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"txhash"`
	ExplorerURL string `json:"explorer_url"`
}

// DeployResult reports a token deployment.
type DeployResult struct {
	TokenAddress string `json:"token_address"`
	TxHash       string `json:"txhash"`
	ExplorerURL  string `json:"explorer_url"`
	NadFunURL    string `json:"nad_fun_url"`
}

// NewManager binds the contracts for one network.
func NewManager(backend *ethclient.Client, key *ecdsa.PrivateKey, chainID *big.Int, cfg Config, logger *zap.Logger) (*Manager, error) {
	tokenABI, err := abi.JSON(strings.NewReader(fortuneTokenABI))
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	routerABI, err := abi.JSON(strings.NewReader(bondingCurveRouterABI))
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	m := &Manager{
		cfg:       cfg,
		backend:   backend,
		tokenABI:  tokenABI,
		routerABI: routerABI,
		auth:      auth,
		logger:    logger.Named("token").With(zap.String("network", string(cfg.Network))),
	}
	if cfg.TokenAddress != (common.Address{}) {
		m.token = bind.NewBoundContract(cfg.TokenAddress, tokenABI, backend, backend, backend)
	}
	if cfg.RouterAddress != (common.Address{}) {
		m.router = bind.NewBoundContract(cfg.RouterAddress, routerABI, backend, backend, backend)
	}
	return m, nil
}

// Configured reports whether the token contract is bound.
func (m *Manager) Configured() bool { return m.token != nil }

func (m *Manager) opts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	opts := *m.auth
	opts.Context = ctx
	opts.Value = value
	return &opts
}

func (m *Manager) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

// Deploy creates the FORTUNE token through the bonding curve router, seeding
// it with an initial buy.
func (m *Manager) Deploy(ctx context.Context, initialBuy *big.Int) (*DeployResult, error) {
	if m.router == nil {
		return nil, ErrNotConfigured
	}
	tx, err := m.router.Transact(m.opts(ctx, initialBuy), "createToken",
		tokenName, tokenSymbol, tokenMetadataURI, big.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	m.logger.Info("token deployment submitted", zap.String("txhash", tx.Hash().Hex()))

	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for deployment: %w", err)
	}
	addr, err := m.tokenAddressFromLogs(receipt)
	if err != nil {
		return nil, err
	}

	m.cfg.TokenAddress = addr
	m.token = bind.NewBoundContract(addr, m.tokenABI, m.backend, m.backend, m.backend)
	m.logger.Info("fortune token deployed", zap.String("address", addr.Hex()))
	return &DeployResult{
		TokenAddress: addr.Hex(),
		TxHash:       tx.Hash().Hex(),
		ExplorerURL:  m.ExplorerURL(tx.Hash().Hex()),
		NadFunURL:    m.NadFunURL(),
	}, nil
}

func (m *Manager) tokenAddressFromLogs(receipt *types.Receipt) (common.Address, error) {
	eventID := m.routerABI.Events["TokenCreated"].ID
	for _, entry := range receipt.Logs {
		if len(entry.Topics) == 0 || entry.Topics[0] != eventID {
			continue
		}
		values, err := m.routerABI.Unpack("TokenCreated", entry.Data)
		if err != nil {
			return common.Address{}, fmt.Errorf("unpack TokenCreated: %w", err)
		}
		addr, ok := values[0].(common.Address)
		if !ok {
			return common.Address{}, errors.New("unexpected TokenCreated payload")
		}
		return addr, nil
	}
	return common.Address{}, errors.New("token address not found in deployment logs")
}

// Buy spends native currency on FORTUNE through the bonding curve.
func (m *Manager) Buy(ctx context.Context, value, minTokens *big.Int) (*TradeResult, error) {
	if m.token == nil {
		return nil, ErrNotConfigured
	}
	tx, err := m.token.Transact(m.opts(ctx, value), "buyTokens", minTokens)
	if err != nil {
		return nil, fmt.Errorf("buy tokens: %w", err)
	}
	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for buy: %w", err)
	}
	return m.tradeResult(tx, receipt), nil
}

// Sell trades FORTUNE back into native currency.
func (m *Manager) Sell(ctx context.Context, tokenAmount, minNative *big.Int) (*TradeResult, error) {
	if m.token == nil {
		return nil, ErrNotConfigured
	}
	tx, err := m.token.Transact(m.opts(ctx, nil), "sellTokens", tokenAmount, minNative)
	if err != nil {
		return nil, fmt.Errorf("sell tokens: %w", err)
	}
	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for sell: %w", err)
	}
	return m.tradeResult(tx, receipt), nil
}

func (m *Manager) tradeResult(tx *types.Transaction, receipt *types.Receipt) *TradeResult {
	return &TradeResult{
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash().Hex(),
		ExplorerURL: m.ExplorerURL(tx.Hash().Hex()),
	}
}

// TokenInfo retrieves the token's public state. Price and market cap tolerate call
// failures (older curve deployments lack those views) and report zero.
func (m *Manager) TokenInfo(ctx context.Context) (*Info, error) {
	if m.token == nil {
		return nil, ErrNotConfigured
	}
	name, err := m.callString(ctx, "name")
	if err != nil {
		return nil, err
	}
	symbol, err := m.callString(ctx, "symbol")
	if err != nil {
		return nil, err
	}
	decimals, err := m.callUint8(ctx, "decimals")
	if err != nil {
		return nil, err
	}
	supply, err := m.callBig(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	balance, err := m.callBig(ctx, "balanceOf", m.auth.From)
	if err != nil {
		return nil, err
	}
	price, err := m.callBig(ctx, "currentPrice")
	if err != nil {
		price = big.NewInt(0)
	}
	marketCap, err := m.callBig(ctx, "marketCap")
	if err != nil {
		marketCap = big.NewInt(0)
	}
	return &Info{
		Address:       m.cfg.TokenAddress.Hex(),
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
		TotalSupply:   utils.FormatWei(supply),
		Price:         utils.FormatWei(price),
		MarketCap:     utils.FormatWei(marketCap),
		OracleBalance: utils.FormatWei(balance),
		Network:       m.cfg.Network,
	}, nil
}

// Reward transfers FORTUNE proportional to the offering and its luck score.
func (m *Manager) Reward(ctx context.Context, to common.Address, luckScore int, principal *big.Int) (*model.TokenReward, error) {
	if m.token == nil {
		return nil, ErrNotConfigured
	}
	multiplier := m.rewardMultiplier(luckScore)
	amount := new(big.Int).Mul(principal, big.NewInt(m.cfg.RewardTokensPerUnit))
	amount.Mul(amount, big.NewInt(multiplier))
	amount.Quo(amount, big.NewInt(100))
	if amount.Sign() == 0 {
		return nil, nil
	}

	tx, err := m.token.Transact(m.opts(ctx, nil), "transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("transfer reward: %w", err)
	}
	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for reward: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.New("reward transfer reverted")
	}
	return &model.TokenReward{
		Amount:      utils.FormatWei(amount),
		Multiplier:  float64(multiplier) / 100,
		TxHash:      tx.Hash().Hex(),
		ExplorerURL: m.ExplorerURL(tx.Hash().Hex()),
	}, nil
}

// rewardMultiplier maps a luck score to a token multiplier in hundredths.
// Even the bad band still gets something.
func (m *Manager) rewardMultiplier(luckScore int) int64 {
	switch {
	case luckScore >= 96:
		return 500
	case luckScore >= 81:
		return 200
	case luckScore >= 61:
		return 150
	case luckScore >= 41:
		return 100
	case luckScore >= 21:
		return 50
	default:
		return 10
	}
}

// ExplorerURL builds an explorer link for a hash or address.
func (m *Manager) ExplorerURL(hashOrAddr string) string {
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(m.cfg.ExplorerBase, "/"), hashOrAddr)
}

// NadFunURL links to the token's bonding curve page.
func (m *Manager) NadFunURL() string {
	base := strings.TrimRight(m.cfg.NadFunBase, "/")
	if m.cfg.TokenAddress == (common.Address{}) {
		return base
	}
	return fmt.Sprintf("%s/token/%s", base, m.cfg.TokenAddress.Hex())
}

func (m *Manager) callString(ctx context.Context, method string, args ...interface{}) (string, error) {
	var out []interface{}
	if err := m.token.Call(m.callOpts(ctx), &out, method, args...); err != nil {
		return "", fmt.Errorf("call %s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (m *Manager) callUint8(ctx context.Context, method string, args ...interface{}) (uint8, error) {
	var out []interface{}
	if err := m.token.Call(m.callOpts(ctx), &out, method, args...); err != nil {
		return 0, fmt.Errorf("call %s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (m *Manager) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := m.token.Call(m.callOpts(ctx), &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
