// Package main deploys the FORTUNE bonding-curve token and prints the address
// to configure on the oracle.
package main

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/token"
	"github.com/monfortune/oracle-backend/internal/utils"
)

var config struct {
	Network    string `long:"network" env:"ORACLE_NETWORK" description:"network to deploy on: testnet or mainnet" default:"testnet"`
	PrivateKey string `long:"private-key" env:"ORACLE_PRIVATE_KEY" description:"deployer signing key (hex)"`
	InitialBuy string `long:"initial-buy" env:"ORACLE_INITIAL_BUY" description:"initial buy in native units" default:"0.01"`

	TestnetRPC      string `long:"testnet-rpc" env:"TESTNET_RPC" description:"testnet rpc url" default:"https://testnet-rpc.monad.xyz"`
	TestnetRouter   string `long:"testnet-router-address" env:"TESTNET_ROUTER_ADDRESS" description:"testnet bonding curve router" default:"0x6F6B8F1a20703309951a5127c45B49b1CD981A22"`
	TestnetExplorer string `long:"testnet-explorer" env:"TESTNET_EXPLORER" description:"testnet explorer base" default:"https://testnet.monadexplorer.com"`
	TestnetNadFun   string `long:"testnet-nadfun" env:"TESTNET_NADFUN" description:"testnet nad.fun base" default:"https://dev.nad.fun"`

	MainnetRPC      string `long:"mainnet-rpc" env:"MAINNET_RPC" description:"mainnet rpc url" default:"https://rpc.monad.xyz"`
	MainnetRouter   string `long:"mainnet-router-address" env:"MAINNET_ROUTER_ADDRESS" description:"mainnet bonding curve router" default:"0x6F6B8F1a20703309951a5127c45B49b1CD981A22"`
	MainnetExplorer string `long:"mainnet-explorer" env:"MAINNET_EXPLORER" description:"mainnet explorer base" default:"https://monadexplorer.com"`
	MainnetNadFun   string `long:"mainnet-nadfun" env:"MAINNET_NADFUN" description:"mainnet nad.fun base" default:"https://nad.fun"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	_ = godotenv.Load()
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}
	if config.PrivateKey == "" {
		logger.Fatal("ORACLE_PRIVATE_KEY is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(config.PrivateKey, "0x"))
	if err != nil {
		logger.Fatal("Failed to parse deployer private key", zap.Error(err))
	}
	initialBuy, err := utils.ParseWei(config.InitialBuy)
	if err != nil {
		logger.Fatal("Invalid initial-buy amount", zap.Error(err))
	}

	var rpcURL, router, explorer, nadFun string
	switch model.Network(config.Network) {
	case model.Testnet:
		rpcURL, router, explorer, nadFun = config.TestnetRPC, config.TestnetRouter, config.TestnetExplorer, config.TestnetNadFun
	case model.Mainnet:
		rpcURL, router, explorer, nadFun = config.MainnetRPC, config.MainnetRouter, config.MainnetExplorer, config.MainnetNadFun
	default:
		logger.Fatal("Unknown network", zap.String("network", config.Network))
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		logger.Fatal("Failed to dial rpc", zap.Error(err))
	}
	defer eth.Close()
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		logger.Fatal("Failed to resolve chain id", zap.Error(err))
	}

	deployer := crypto.PubkeyToAddress(key.PublicKey)
	balance, err := eth.BalanceAt(ctx, deployer, nil)
	if err != nil {
		logger.Fatal("Failed to read deployer balance", zap.Error(err))
	}
	logger.Info("deployer account",
		zap.String("address", deployer.Hex()),
		zap.String("balance", utils.FormatWei(balance)),
	)
	// Leave headroom for deployment gas on top of the initial buy.
	needed := new(big.Int).Add(initialBuy, new(big.Int).Div(initialBuy, big.NewInt(10)))
	if balance.Cmp(needed) < 0 {
		logger.Fatal("Insufficient balance for initial buy",
			zap.String("balance", utils.FormatWei(balance)),
			zap.String("needed", utils.FormatWei(needed)),
		)
	}

	manager, err := token.NewManager(eth, key, chainID, token.Config{
		Network:       model.Network(config.Network),
		RouterAddress: common.HexToAddress(router),
		ExplorerBase:  explorer,
		NadFunBase:    nadFun,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build token manager", zap.Error(err))
	}

	result, err := manager.Deploy(ctx, initialBuy)
	if err != nil {
		logger.Fatal("Deployment failed", zap.Error(err))
	}
	logger.Info("FORTUNE token deployed",
		zap.String("token_address", result.TokenAddress),
		zap.String("txhash", result.TxHash),
		zap.String("explorer_url", result.ExplorerURL),
		zap.String("nad_fun_url", result.NadFunURL),
	)

	envVar := "TESTNET_FORTUNE_TOKEN_ADDRESS"
	if model.Network(config.Network) == model.Mainnet {
		envVar = "MAINNET_FORTUNE_TOKEN_ADDRESS"
	}
	logger.Info("set this on the oracle and restart",
		zap.String("env", envVar+"="+result.TokenAddress),
	)
}
