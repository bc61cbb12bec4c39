// Package main runs the fortune oracle HTTP service.
package main

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/chain"
	"github.com/monfortune/oracle-backend/internal/fortune"
	"github.com/monfortune/oracle-backend/internal/ledger"
	"github.com/monfortune/oracle-backend/internal/metrics"
	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/payout"
	"github.com/monfortune/oracle-backend/internal/resolver"
	"github.com/monfortune/oracle-backend/internal/service"
	"github.com/monfortune/oracle-backend/internal/token"
	"github.com/monfortune/oracle-backend/internal/transport"
	"github.com/monfortune/oracle-backend/internal/utils"
)

var config struct {
	Addr                string        `long:"addr" env:"ORACLE_ADDR" description:"http listen addr" default:":3000"`
	PrivateKey          string        `long:"private-key" env:"ORACLE_PRIVATE_KEY" description:"oracle signing key (hex)"`
	DefaultNetwork      string        `long:"default-network" env:"ORACLE_DEFAULT_NETWORK" description:"skip probing and use this network"`
	RuleSet             string        `long:"rule-set" env:"ORACLE_RULE_SET" description:"outcome rule-set: linear or superstition" default:"linear"`
	MinOffering         string        `long:"min-offering" env:"ORACLE_MIN_OFFERING" description:"minimum offering in native units" default:"0.001"`
	MaxReturn           string        `long:"max-return" env:"ORACLE_MAX_RETURN" description:"payout ceiling in native units" default:"5"`
	ConfirmTimeout      time.Duration `long:"confirm-timeout" env:"ORACLE_CONFIRM_TIMEOUT" description:"payout confirmation wait bound" default:"30s"`
	LedgerMaxEntries    int           `long:"ledger-max-entries" env:"ORACLE_LEDGER_MAX_ENTRIES" description:"per-network processed-set bound" default:"10000"`
	LedgerSweepInterval time.Duration `long:"ledger-sweep-interval" env:"ORACLE_LEDGER_SWEEP_INTERVAL" description:"ledger compaction period" default:"10m"`
	RateLimitRPS        int           `long:"rate-limit-rps" env:"ORACLE_RATE_LIMIT_RPS" description:"inbound requests per second" default:"100"`
	CallbackRPS         int           `long:"callback-rps" env:"ORACLE_CALLBACK_RPS" description:"outbound callback posts per second" default:"5"`
	RewardPerUnit       int64         `long:"reward-per-unit" env:"ORACLE_REWARD_PER_UNIT" description:"FORTUNE tokens per native unit offered" default:"100"`

	TestnetRPC      string `long:"testnet-rpc" env:"TESTNET_RPC" description:"testnet rpc url" default:"https://testnet-rpc.monad.xyz"`
	TestnetOracle   string `long:"testnet-oracle-address" env:"TESTNET_ORACLE_ADDRESS" description:"testnet oracle address"`
	TestnetExplorer string `long:"testnet-explorer" env:"TESTNET_EXPLORER" description:"testnet explorer base" default:"https://testnet.monadexplorer.com"`
	TestnetToken    string `long:"testnet-token-address" env:"TESTNET_FORTUNE_TOKEN_ADDRESS" description:"testnet FORTUNE token address"`
	TestnetRouter   string `long:"testnet-router-address" env:"TESTNET_ROUTER_ADDRESS" description:"testnet bonding curve router" default:"0x6F6B8F1a20703309951a5127c45B49b1CD981A22"`
	TestnetNadFun   string `long:"testnet-nadfun" env:"TESTNET_NADFUN" description:"testnet nad.fun base" default:"https://dev.nad.fun"`

	MainnetRPC      string `long:"mainnet-rpc" env:"MAINNET_RPC" description:"mainnet rpc url" default:"https://rpc.monad.xyz"`
	MainnetOracle   string `long:"mainnet-oracle-address" env:"MAINNET_ORACLE_ADDRESS" description:"mainnet oracle address"`
	MainnetExplorer string `long:"mainnet-explorer" env:"MAINNET_EXPLORER" description:"mainnet explorer base" default:"https://monadexplorer.com"`
	MainnetToken    string `long:"mainnet-token-address" env:"MAINNET_FORTUNE_TOKEN_ADDRESS" description:"mainnet FORTUNE token address"`
	MainnetRouter   string `long:"mainnet-router-address" env:"MAINNET_ROUTER_ADDRESS" description:"mainnet bonding curve router" default:"0x6F6B8F1a20703309951a5127c45B49b1CD981A22"`
	MainnetNadFun   string `long:"mainnet-nadfun" env:"MAINNET_NADFUN" description:"mainnet nad.fun base" default:"https://nad.fun"`
}

type networkSettings struct {
	network  model.Network
	rpcURL   string
	oracle   string
	explorer string
	token    string
	router   string
	nadFun   string
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
		logger.Fatal("Failed to parse oracle private key", zap.Error(err))
	}
	minOffering := mustParseWei(logger, "min-offering", config.MinOffering)
	maxReturn := mustParseWei(logger, "max-return", config.MaxReturn)

	// Probe priority is fixed: mainnet before testnet.
	settings := []networkSettings{
		{model.Mainnet, config.MainnetRPC, config.MainnetOracle, config.MainnetExplorer, config.MainnetToken, config.MainnetRouter, config.MainnetNadFun},
		{model.Testnet, config.TestnetRPC, config.TestnetOracle, config.TestnetExplorer, config.TestnetToken, config.TestnetRouter, config.TestnetNadFun},
	}

	var (
		order    []model.Network
		clients  []*chain.Client
		probers  = make(map[model.Network]resolver.ReceiptProber)
		balances = make(map[model.Network]transport.BalanceProber)
		traders  = make(map[model.Network]transport.TokenTrader)
		bundles  = make(map[model.Network]service.NetworkBundle)
	)
	for _, s := range settings {
		if s.oracle == "" {
			logger.Info("network not configured; skipping", zap.String("network", string(s.network)))
			continue
		}
		client, err := chain.NewClient(ctx, chain.Config{
			Network:       s.network,
			RPCURL:        s.rpcURL,
			OracleAddress: common.HexToAddress(s.oracle),
			ExplorerBase:  s.explorer,
		}, key, logger)
		if err != nil {
			logger.Fatal("Failed to build chain client",
				zap.String("network", string(s.network)), zap.Error(err))
		}
		clients = append(clients, client)
		observed := chain.NewObservedClient(client, metrics.NewRPCClient(s.network))

		order = append(order, s.network)
		probers[s.network] = observed
		balances[s.network] = observed

		bundle := service.NetworkBundle{
			Reader: observed,
			Payout: payout.NewExecutor(observed, maxReturn, config.ConfirmTimeout,
				metrics.NewPayout(s.network), logger.With(zap.String("network", string(s.network)))),
		}
		if s.token != "" {
			manager, err := token.NewManager(client.Backend(), key, client.ChainID(), token.Config{
				Network:             s.network,
				TokenAddress:        common.HexToAddress(s.token),
				RouterAddress:       common.HexToAddress(s.router),
				ExplorerBase:        s.explorer,
				NadFunBase:          s.nadFun,
				RewardTokensPerUnit: config.RewardPerUnit,
			}, logger)
			if err != nil {
				logger.Fatal("Failed to build token manager",
					zap.String("network", string(s.network)), zap.Error(err))
			}
			bundle.Token = manager
			traders[s.network] = manager
		}
		bundles[s.network] = bundle
		logger.Info("network configured",
			zap.String("network", string(s.network)),
			zap.String("oracle", s.oracle),
			zap.Bool("token", s.token != ""),
		)
	}
	if len(bundles) == 0 {
		logger.Fatal("No network configured; set at least one oracle address")
	}
	defer func() {
		for _, client := range clients {
			client.Close()
		}
	}()

	replay := ledger.New(config.LedgerMaxEntries, logger)
	maintenance := ledger.NewMaintenance(replay, config.LedgerSweepInterval, logger)
	go func() {
		if err := maintenance.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ledger maintenance stopped", zap.Error(err))
		}
	}()

	var engine service.OutcomeEngine
	switch config.RuleSet {
	case "linear":
		engine = fortune.NewLinearEngine(fortune.DefaultLinearConfig())
	case "superstition":
		engine = fortune.NewSuperstitionEngine(fortune.DefaultSuperstitionConfig())
	default:
		logger.Fatal("Unknown rule-set", zap.String("rule_set", config.RuleSet))
	}
	decorator := fortune.NewDecorator(fortune.DefaultFortunePools(), rand.NewSource(time.Now().UnixNano()))

	callbacks := service.NewCallbackDispatcher(logger, 16, 500*time.Millisecond, config.CallbackRPS)
	callbacks.Start(ctx)
	defer callbacks.Stop()

	svc, err := service.New(service.Config{
		Resolver:    resolver.New(order, probers, model.Network(config.DefaultNetwork), logger),
		Ledger:      replay,
		Networks:    bundles,
		Engine:      engine,
		Decorator:   decorator,
		Callbacks:   callbacks,
		Metrics:     metrics.NewOracle(),
		MinOffering: minOffering,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to build fortune service", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/fortune", transport.NewFortuneHandler(svc, logger))
	mux.Handle("/health", transport.NewHealthHandler([]model.Network{model.Mainnet, model.Testnet}, balances, logger))
	tokenHandler := transport.NewTokenHandler(traders, model.Network(config.DefaultNetwork), logger)
	mux.HandleFunc("/token/info", tokenHandler.Info)
	mux.HandleFunc("/token/buy", tokenHandler.Buy)
	mux.HandleFunc("/token/sell", tokenHandler.Sell)
	mux.Handle("/metrics", promhttp.Handler())

	handler := transport.RequestLogger(logger)(
		transport.RateLimit(ratelimit.New(config.RateLimitRPS))(mux))

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           cors.Default().Handler(handler),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // payout confirmation waits happen in-request
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting fortune oracle", zap.String("addr", config.Addr), zap.String("rule_set", config.RuleSet))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}

func mustParseWei(logger *zap.Logger, name, value string) *big.Int {
	amount, err := utils.ParseWei(value)
	if err != nil {
		logger.Fatal("Invalid amount flag", zap.String("flag", name), zap.Error(err))
	}
	return amount
}
