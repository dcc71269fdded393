package recorder

import "rewardpool/internal/model"

// Recorder persists ledger events and pool snapshots for audit and analysis.
type Recorder interface {
	RecordInvestment(evt *model.InvestedEvent) error
	RecordWithdrawal(evt *model.WithdrawnEvent) error
	RecordSnapshot(snap *model.PoolSnapshot) error
	Close() error
}
