package transfer

// Transferer moves custodied value to a user-controlled destination.
// A transfer either fully succeeds or fails as a unit; the ledger does
// not roll back committed accounting on failure.
type Transferer interface {
	Transfer(reference, destination string, amount uint64) error
	Name() string
}
