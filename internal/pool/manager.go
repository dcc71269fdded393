package pool

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"rewardpool/internal/clock"
	"rewardpool/internal/model"
	"rewardpool/internal/transfer"
)

const (
	// SecondsPerYear is the accrual granularity of the distribution
	// schedule: the reserve is spread over DistributionYears of these.
	SecondsPerYear uint64 = 365 * 24 * 60 * 60

	// FeePercent is charged on every deposit and folded into the reserve.
	FeePercent uint64 = 2

	// MaxDistributionYears bounds the configurable horizon.
	MaxDistributionYears uint64 = 255
)

// Manager is the pool ledger. It owns all mutable state and serializes
// every operation under one mutex; the external transfer in Withdraw is
// issued only after state is committed and saved.
type Manager struct {
	mu       sync.Mutex
	state    *model.PoolState
	clock    clock.Clock
	transfer transfer.Transferer
	filePath string
}

// NewManager creates a Manager, loading prior state from disk or seeding a
// fresh pool. distributionYears and fundingAmount only apply to a fresh
// pool; a loaded pool keeps its construction-time configuration.
func NewManager(filePath string, distributionYears, fundingAmount uint64, clk clock.Clock, tr transfer.Transferer) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	// Initialize if fresh state
	if state.MinimumLiquidity == 0 {
		if distributionYears == 0 || distributionYears > MaxDistributionYears {
			return nil, ErrInvalidDuration
		}
		minLiquidity := distributionYears * SecondsPerYear
		if fundingAmount < minLiquidity {
			return nil, ErrInsufficientSeedFunding
		}
		state.Reserve = fundingAmount
		state.TotalPrincipal = 0
		state.MinimumLiquidity = minLiquidity
		state.DistributionYears = distributionYears
	}

	m := &Manager{state: state, clock: clk, transfer: tr, filePath: filePath}
	if err := SaveState(m.filePath, m.state); err != nil {
		return nil, err
	}
	return m, nil
}

// Invest deposits amount for account. A 2% fee (truncating, per full
// hundred units) goes to the reserve; the remainder becomes principal.
// If the account already holds principal, the profit earned so far is
// frozen into the record first so the new deposit cannot inflate it.
func (m *Manager) Invest(account string, amount uint64) (model.InvestedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.state.Users[account]
	if !ok {
		u = &model.UserRecord{}
	}

	if u.Balance > 0 {
		profit, err := m.profitLocked(u)
		if err != nil {
			return model.InvestedEvent{}, err
		}
		u.AccruedProfit = profit
	}

	fee := amount / 100 * FeePercent
	net := amount - fee

	m.state.Reserve += fee
	u.Balance += net
	m.state.TotalPrincipal += net
	u.LastActionTime = m.clock.Now()
	m.state.Users[account] = u

	m.save()

	return model.InvestedEvent{
		Account:      account,
		Amount:       amount,
		Fee:          fee,
		NewBalance:   u.Balance,
		ReserveAfter: m.state.Reserve,
	}, nil
}

// Withdraw pays out account's full principal balance to destination.
// The destination must be the caller itself. The liquidity gate is a
// coarse solvency check: the reserve, less the caller's balance, must
// stay above the fixed floor. Balance is zeroed and the state saved
// before the transfer is issued; a failed transfer is logged and
// reported in the event but the committed accounting is not rolled back.
func (m *Manager) Withdraw(account, destination string) (model.WithdrawnEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if destination != account {
		return model.WithdrawnEvent{}, ErrUnauthorizedDestination
	}

	var bal uint64
	u := m.state.Users[account]
	if u != nil {
		bal = u.Balance
	}

	if m.state.Reserve < bal || m.state.Reserve-bal <= m.state.MinimumLiquidity {
		return model.WithdrawnEvent{}, ErrInsufficientPoolLiquidity
	}

	if u != nil {
		u.Balance = 0
		m.state.TotalPrincipal -= bal
	}
	m.save()

	evt := model.WithdrawnEvent{
		Account:     account,
		Destination: destination,
		Amount:      bal,
		Reference:   uuid.NewString(),
		TransferOK:  true,
	}
	if err := m.transfer.Transfer(evt.Reference, destination, bal); err != nil {
		log.Printf("[ERROR] transfer %s of %d to %s failed: %v", evt.Reference, bal, destination, err)
		evt.TransferOK = false
	}
	return evt, nil
}

// Profit returns the account's profit as of now: the accrual earned over
// the window since its last deposit plus any previously frozen profit.
// Read-only.
func (m *Manager) Profit(account string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profitLocked(m.state.Users[account])
}

// profitLocked implements the accrual formula. Division truncates at
// every step and the step order is part of the ledger's semantics.
func (m *Manager) profitLocked(u *model.UserRecord) (uint64, error) {
	if u == nil || u.Balance == 0 {
		return 0, ErrNoYieldAvailable
	}
	perYear := m.state.Reserve / m.state.DistributionYears
	if perYear <= SecondsPerYear {
		return 0, ErrNoYieldAvailable
	}
	moneyPerSecond := perYear / SecondsPerYear
	sharePercent := 100 * u.Balance / m.state.TotalPrincipal

	elapsed := m.clock.Now() - u.LastActionTime
	if elapsed < 0 {
		elapsed = 0
	}

	return moneyPerSecond * uint64(elapsed) / 100 * sharePercent + u.AccruedProfit, nil
}

// APR returns the emergent annual yield in whole percent: the reserve's
// yearly tranche relative to the deposited principal.
func (m *Manager) APR() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.TotalPrincipal == 0 || m.state.Reserve <= 2 {
		return 0, ErrNoLiquidity
	}
	return m.state.Reserve / m.state.DistributionYears * 100 / m.state.TotalPrincipal, nil
}

// InjectFunds tops up the reserve. Unrestricted; no other state changes.
func (m *Manager) InjectFunds(amount uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Reserve += amount
	m.save()
	return m.state.Reserve
}

// PoolAmount returns the current reserve.
func (m *Manager) PoolAmount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Reserve
}

// UserBalance returns the account's live principal. Unknown accounts
// read as zero.
func (m *Manager) UserBalance(account string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.state.Users[account]; u != nil {
		return u.Balance
	}
	return 0
}

// Stat returns a point-in-time read of the pool-level figures.
func (m *Manager) Stat() model.PoolStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.PoolStat{
		Reserve:           m.state.Reserve,
		TotalPrincipal:    m.state.TotalPrincipal,
		MinimumLiquidity:  m.state.MinimumLiquidity,
		DistributionYears: m.state.DistributionYears,
		Users:             len(m.state.Users),
	}
}

func (m *Manager) save() {
	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save pool state: %v", err)
	}
}
