package dapp

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/faucet"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
	"github.com/stretchr/testify/require"
)

var (
	accountA      = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	accountB      = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	faucetAddress = common.HexToAddress("0xc11430db76Ad33455169fA1b27fA797D4F31Fa06")
	cUSDAddress   = common.HexToAddress("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")

	testContracts = Contracts{Faucet: faucetAddress, Stable: cUSDAddress}
)

func wei(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

// events records the order in which chain side effects happen.
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, name)
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

type fakeProvider struct {
	enableErr error
	enabled   bool
}

func (p *fakeProvider) Enable(ctx context.Context) error {
	if p.enableErr != nil {
		return p.enableErr
	}
	p.enabled = true
	return nil
}

func (p *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{accountA}, nil
}

func (p *fakeProvider) Transactor(common.Address, *big.Int) (*bind.TransactOpts, error) {
	return nil, wallet.ErrNotEnabled
}

type requestCall struct {
	From      common.Address
	Requestor string
}

type swapCall struct {
	From   common.Address
	Amount string
}

type fakeFaucet struct {
	events *events

	mu         sync.Mutex
	requests   []requestCall
	swaps      []swapCall
	requestErr error
	swapErr    error
	balance    *faucet.TokenBalance
	balanceErr error

	// entered and release let a test hold a request in flight.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeFaucet) Address() common.Address {
	return faucetAddress
}

func (f *fakeFaucet) RequestTokens(ctx context.Context, from common.Address, requestor string) (*types.Receipt, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.add("requestTokens")
	f.requests = append(f.requests, requestCall{From: from, Requestor: requestor})
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0x01")}, nil
}

func (f *fakeFaucet) SwapToken(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.add("swapToken")
	f.swaps = append(f.swaps, swapCall{From: from, Amount: amount.String()})
	if f.swapErr != nil {
		return nil, f.swapErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0x02")}, nil
}

func (f *fakeFaucet) ContractTokenBalance(ctx context.Context) (*faucet.TokenBalance, error) {
	f.events.add("contractTokenBalance")
	return f.balance, f.balanceErr
}

type approveCall struct {
	From    common.Address
	Spender common.Address
	Amount  string
}

type fakeToken struct {
	address common.Address
	events  *events

	approvals  []approveCall
	approveErr error

	// entered and release let a test hold an approval in flight.
	entered chan struct{}
	release chan struct{}
}

func (t *fakeToken) Address() common.Address {
	return t.address
}

func (t *fakeToken) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (t *fakeToken) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	if t.entered != nil {
		t.entered <- struct{}{}
		<-t.release
	}
	t.events.add("approve")
	t.approvals = append(t.approvals, approveCall{From: from, Spender: spender, Amount: amount.String()})
	if t.approveErr != nil {
		return nil, t.approveErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

type fakeKit struct {
	events *events

	accounts    []common.Address
	accountsErr error
	total       *TotalBalance
	totalErr    error
	faucet      *fakeFaucet
	token       *fakeToken

	boundFaucet []common.Address
	boundToken  []common.Address
	closed      int
}

func (k *fakeKit) Accounts(ctx context.Context) ([]common.Address, error) {
	return k.accounts, k.accountsErr
}

func (k *fakeKit) TotalBalance(ctx context.Context, account common.Address) (*TotalBalance, error) {
	k.events.add("totalBalance")
	return k.total, k.totalErr
}

func (k *fakeKit) BindFaucet(address common.Address) faucet.Fauceter {
	k.boundFaucet = append(k.boundFaucet, address)
	return k.faucet
}

func (k *fakeKit) BindToken(address common.Address) Token {
	k.boundToken = append(k.boundToken, address)
	k.token.address = address
	return k.token
}

func (k *fakeKit) Close() {
	k.closed++
}

func newFakeKit(t *testing.T) *fakeKit {
	ev := &events{}
	return &fakeKit{
		events:   ev,
		accounts: []common.Address{accountA, accountB},
		total: &TotalBalance{
			Native: wei(t, "3000000000000000000"),
			Stable: wei(t, "12345600000000000000"),
		},
		faucet: &fakeFaucet{
			events: ev,
			balance: &faucet.TokenBalance{
				Celo: wei(t, "1000000000000000000"),
				CUSD: wei(t, "500000000000000000"),
			},
		},
		token: &fakeToken{events: ev},
	}
}

type harness struct {
	app      *App
	banner   *notify.Banner
	provider *fakeProvider
	kit      *fakeKit
	kitCalls int
}

func newHarness(t *testing.T, opts ...Option) *harness {
	logger.UseForTest(t)
	h := &harness{
		banner:   notify.NewBanner(),
		provider: &fakeProvider{},
		kit:      newFakeKit(t),
	}
	lookup := func() (wallet.Provider, bool) { return h.provider, true }
	factory := func(ctx context.Context, provider wallet.Provider) (Kit, error) {
		h.kitCalls++
		return h.kit, nil
	}
	h.app = NewApp(NewConnector(lookup, factory, testContracts, h.banner), h.banner, opts...)
	return h
}

func (h *harness) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.Connect(context.Background()))
}
