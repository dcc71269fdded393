package model

// InvestedEvent is emitted after a successful deposit.
type InvestedEvent struct {
	Account      string
	Amount       uint64
	Fee          uint64
	NewBalance   uint64
	ReserveAfter uint64
}

// WithdrawnEvent is emitted after a withdrawal commits. TransferOK reports
// whether the outbound transfer succeeded; the ledger state is committed
// either way.
type WithdrawnEvent struct {
	Account     string
	Destination string
	Amount      uint64
	Reference   string
	TransferOK  bool
}

// PoolSnapshot records pool-level figures at a point in time.
type PoolSnapshot struct {
	Reserve        uint64
	TotalPrincipal uint64
	APR            uint64
}
