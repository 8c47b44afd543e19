package chain

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
)

// Backend is the subset of ethclient.Client the faucet needs.
type Backend interface {
	bind.ContractBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Wallet signs on behalf of the accounts it manages.
type Wallet interface {
	Accounts(ctx context.Context) ([]common.Address, error)
	Transactor(account common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// ConfirmOptions bound how long Send waits for a transaction to be mined.
// A zero PollInterval derives one from the timeout.
type ConfirmOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// Client is the SDK handle built once a wallet has been authorized.
type Client struct {
	backend Backend
	wallet  Wallet
	chainID *big.Int
	confirm ConfirmOptions
}

type Option func(*Client)

// WithChainID pins the chain id instead of asking the node for it.
func WithChainID(id *big.Int) Option {
	return func(c *Client) {
		c.chainID = id
	}
}

func WithConfirmOptions(opts ConfirmOptions) Option {
	return func(c *Client) {
		c.confirm = opts
	}
}

// Dial opens an RPC connection to the configured node.
func Dial(ctx context.Context, cfg config.Chain) (*ethclient.Client, error) {
	if cfg.HttpAddr == "" {
		return nil, fmt.Errorf("chain %s is missing httpAddr", cfg.Name)
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: strings.EqualFold(cfg.HttpSSLVerify, "false")}
	httpClient := &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
		Timeout:   30 * time.Second,
	}

	opts := []rpc.ClientOption{rpc.WithHTTPClient(httpClient)}
	if cfg.Authorization != nil && cfg.Authorization.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.Authorization.Username + ":" + cfg.Authorization.Password))
		opts = append(opts, rpc.WithHTTPAuth(func(h http.Header) error {
			h.Set("Authorization", fmt.Sprintf("Basic %s", creds))
			return nil
		}))
	}

	rpcClient, err := rpc.DialOptions(ctx, cfg.HttpAddr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rpc endpoint for chain %s: %w", cfg.Name, err)
	}
	return ethclient.NewClient(rpcClient), nil
}

// NewClient wraps backend. Without WithChainID the chain id is read from the node.
func NewClient(ctx context.Context, backend Backend, wallet Wallet, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet cannot be nil")
	}

	c := &Client{
		backend: backend,
		wallet:  wallet,
		confirm: ConfirmOptions{Timeout: config.DefaultConfirmationTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chainID == nil || c.chainID.Sign() == 0 {
		id, err := backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain id: %w", err)
		}
		c.chainID = id
	}
	return c, nil
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Accounts lists the wallet's accounts; the first one is the default.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	return c.wallet.Accounts(ctx)
}

// BalanceAt returns the native balance of account at the latest block.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// Bind returns a handle for the contract at address described by contractABI.
func (c *Client) Bind(contractABI abi.ABI, address common.Address) *Contract {
	return &Contract{
		Address: address,
		client:  c,
		bound:   bind.NewBoundContract(address, contractABI, c.backend, c.backend, c.backend),
	}
}

func (c *Client) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}
