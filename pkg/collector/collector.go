package collector

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/dapp"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const DefaultTimeout = 10 * time.Second

const (
	HolderWallet = "wallet"
	HolderFaucet = "faucet"
)

type BaseResult struct {
	Holder  string
	Address string
	Unit    *currency.Unit
	Value   float64
}

// BalanceReader is implemented by dapp.App.
type BalanceReader interface {
	ReadBalances(ctx context.Context) (*dapp.Snapshot, error)
}

// BalanceCollector reads fresh balances on every scrape. Nothing is cached
// between scrapes.
type BalanceCollector struct {
	reader       BalanceReader
	stable       *currency.Unit
	native       *currency.Unit
	timeout      time.Duration
	balance      *prometheus.GaugeVec
	health       *prometheus.GaugeVec
	collectMutex sync.Mutex
}

// CollectorOption defines functional options for BalanceCollector
type CollectorOption func(*BalanceCollector)

// WithCollectorTimeout sets the timeout for collection operations
func WithCollectorTimeout(timeout time.Duration) CollectorOption {
	return func(c *BalanceCollector) {
		c.timeout = timeout
	}
}

func NewBalanceCollector(reader BalanceReader, stable, native *currency.Unit, chainName string, opts ...CollectorOption) *BalanceCollector {
	constLabels := prometheus.Labels{"chain": chainName}

	c := &BalanceCollector{
		reader:  reader,
		stable:  stable,
		native:  native,
		timeout: DefaultTimeout,
		balance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "celo_faucet_balance",
				Help:        "Token balance held by the connected wallet or the faucet contract",
				ConstLabels: constLabels,
			},
			[]string{"holder", "address", "unit"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "celo_faucet_balance_health",
				Help:        "1 if the last balance read succeeded, 0 otherwise",
				ConstLabels: constLabels,
			},
			nil,
		),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// collectMetrics reads one snapshot and flattens it into per-token results.
func (c *BalanceCollector) collectMetrics() ([]*BaseResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.reader.ReadBalances(ctx)
	if err != nil {
		return nil, err
	}

	wallet, faucetAddr := snap.Account.Hex(), snap.FaucetAddress.Hex()
	return []*BaseResult{
		c.result(HolderWallet, wallet, c.native, snap.Wallet.Native),
		c.result(HolderWallet, wallet, c.stable, snap.Wallet.Stable),
		c.result(HolderFaucet, faucetAddr, c.native, snap.Faucet.Celo),
		c.result(HolderFaucet, faucetAddr, c.stable, snap.Faucet.CUSD),
	}, nil
}

func (c *BalanceCollector) result(holder, address string, unit *currency.Unit, value *big.Int) *BaseResult {
	return &BaseResult{
		Holder:  holder,
		Address: address,
		Unit:    unit,
		Value:   unit.FromBaseUnits(value).InexactFloat64(),
	}
}

// Implement prometheus.Collector interface
func (c *BalanceCollector) Describe(ch chan<- *prometheus.Desc) {
	c.balance.Describe(ch)
	c.health.Describe(ch)
}

func (c *BalanceCollector) Collect(ch chan<- prometheus.Metric) {
	c.collectMutex.Lock()
	defer c.collectMutex.Unlock()

	results, err := c.collectMetrics()
	if err != nil {
		logger.Warnf("error collecting balances: %v", err)
		c.health.WithLabelValues().Set(0)
		c.health.Collect(ch)
		return
	}
	c.health.WithLabelValues().Set(1)
	c.health.Collect(ch)

	for _, result := range results {
		labels := prometheus.Labels{
			"holder":  result.Holder,
			"address": result.Address,
			"unit":    result.Unit.Symbol,
		}
		logger.Debugf("collecting metric with labels: %v", labels)
		c.balance.With(labels).Set(result.Value)
	}
	c.balance.Collect(ch)
	c.balance.Reset()
}
