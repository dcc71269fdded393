package transfer

import "log"

// DryRunTransferer logs transfers instead of moving value. Used when no
// payout gateway is configured.
type DryRunTransferer struct{}

func NewDryRunTransferer() *DryRunTransferer { return &DryRunTransferer{} }

func (d *DryRunTransferer) Name() string { return "dry-run" }

func (d *DryRunTransferer) Transfer(reference, destination string, amount uint64) error {
	log.Printf("[INFO] dry-run transfer %s: %d to %s", reference, amount, destination)
	return nil
}
