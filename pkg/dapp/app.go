package dapp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"go.uber.org/atomic"
)

const msgLoading = "⌛ Loading..."

var ErrNotConnected = errors.New("wallet is not connected")

// Display mirrors the balance fields a front-end renders.
type Display struct {
	Balance   string    `json:"balance"`
	CeloBal   string    `json:"celoBal"`
	CUSDBal   string    `json:"cUSDBal"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// State is a point-in-time copy of everything a renderer needs.
type State struct {
	Connected    bool                `json:"connected"`
	Account      string              `json:"account,omitempty"`
	Notification notify.Notification `json:"notification"`
	Balances     Display             `json:"balances"`
}

// App owns the session and the display state. It is safe for concurrent use.
type App struct {
	connector  *Connector
	banner     *notify.Banner
	metrics    *Metrics
	stableUnit *currency.Unit
	nativeUnit *currency.Unit
	registry   *currency.Registry

	mu      sync.RWMutex
	session *Session
	display Display

	requesting atomic.Bool
	swapping   atomic.Bool
}

type Option func(*App)

func WithMetrics(m *Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithUnits overrides the units balances and amounts are scaled with.
func WithUnits(stable, native *currency.Unit) Option {
	return func(a *App) {
		if stable != nil {
			a.stableUnit = stable
		}
		if native != nil {
			a.nativeUnit = native
		}
	}
}

// WithRegistry sets the registry token units discovered on-chain are
// recorded in.
func WithRegistry(registry *currency.Registry) Option {
	return func(a *App) {
		a.registry = registry
	}
}

func NewApp(connector *Connector, banner *notify.Banner, opts ...Option) *App {
	a := &App{
		connector:  connector,
		banner:     banner,
		stableUnit: currency.DefaultCUSD,
		nativeUnit: currency.DefaultCELO,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Connect replaces the current session with a fresh one. On failure the
// previous session, if any, is dropped. A dropped session's kit stays open
// until every flow still using it has returned.
func (a *App) Connect(ctx context.Context) error {
	session, err := a.connector.Connect(ctx)

	a.mu.Lock()
	previous := a.session
	a.session = session
	a.mu.Unlock()

	a.retire(previous)
	return err
}

// acquire returns the current session pinned against closing. The release
// func must be called once the caller is done with it.
func (a *App) acquire() (*Session, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.session
	if session == nil {
		return nil, func() {}
	}
	session.refs++
	return session, func() { a.release(session) }
}

func (a *App) release(session *Session) {
	a.mu.Lock()
	session.refs--
	closeNow := session.retired && session.refs == 0
	a.mu.Unlock()

	if closeNow {
		a.closeSession(session)
	}
}

func (a *App) retire(session *Session) {
	if session == nil {
		return
	}
	a.mu.Lock()
	session.retired = true
	pending := session.refs
	a.mu.Unlock()

	if pending > 0 {
		logger.Debugf("session for %s retired, closing after %d pending flows", session.Account.Hex(), pending)
		return
	}
	a.closeSession(session)
}

func (a *App) closeSession(session *Session) {
	session.Kit.Close()
	logger.Debugf("session for %s closed", session.Account.Hex())
}

// Load is the start-up sequence: connect, then wallet balance, then contract
// balances. The loading banner is cleared only when every step succeeded.
func (a *App) Load(ctx context.Context) error {
	a.banner.Show(msgLoading)

	if err := a.Connect(ctx); err != nil {
		return err
	}
	err := errors.Join(
		a.RefreshWalletBalance(ctx),
		a.RefreshContractBalances(ctx),
	)
	if err != nil {
		return err
	}
	a.banner.Hide()
	return nil
}

func (a *App) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *App) Connected() bool {
	return a.Session() != nil
}

// Units lists the known token units: the configured ones plus whatever the
// kit registered from chain metadata.
func (a *App) Units() []*currency.Unit {
	if a.registry == nil {
		return []*currency.Unit{a.nativeUnit, a.stableUnit}
	}
	return a.registry.List()
}

func (a *App) Banner() *notify.Banner {
	return a.banner
}

func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	state := State{
		Notification: a.banner.Current(),
		Balances:     a.display,
	}
	if a.session != nil {
		state.Connected = true
		state.Account = a.session.Account.Hex()
	}
	return state
}

func (a *App) Close() {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	a.retire(session)
}
