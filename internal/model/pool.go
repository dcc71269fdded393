package model

import "time"

// UserRecord tracks one depositor's live principal and locked-in profit.
// Records are created on first deposit and never deleted; a withdrawn
// user keeps a record with a zero balance.
type UserRecord struct {
	Balance        uint64 `json:"balance"`
	AccruedProfit  uint64 `json:"accrued_profit"`
	LastActionTime int64  `json:"last_action_time"`
}

// PoolState is the full persisted ledger state.
type PoolState struct {
	Reserve           uint64                 `json:"reserve"`
	TotalPrincipal    uint64                 `json:"total_principal"`
	MinimumLiquidity  uint64                 `json:"minimum_liquidity"`
	DistributionYears uint64                 `json:"distribution_years"`
	Users             map[string]*UserRecord `json:"users"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// PoolStat is a point-in-time read of the pool used by the API and the
// snapshot scheduler. It carries no per-user data.
type PoolStat struct {
	Reserve           uint64 `json:"reserve"`
	TotalPrincipal    uint64 `json:"total_principal"`
	MinimumLiquidity  uint64 `json:"minimum_liquidity"`
	DistributionYears uint64 `json:"distribution_years"`
	Users             int    `json:"users"`
}
