package recorder

import "rewardpool/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordInvestment(_ *model.InvestedEvent) error  { return nil }
func (n *NoopRecorder) RecordWithdrawal(_ *model.WithdrawnEvent) error { return nil }
func (n *NoopRecorder) RecordSnapshot(_ *model.PoolSnapshot) error     { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
