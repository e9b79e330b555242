package domain

import "context"

// Store bundles all repositories behind one accessor surface.
// *postgres.Store satisfies this interface; tests substitute fakes.
type Store interface {
	Users() UserRepository
	PCs() PCRepository
	Servers() ServerRepository
	NetworkIPs() NetworkIPRepository
	Printers() PrinterRepository
	Software() SoftwareRepository
	History() HistoryRepository

	// InTx runs fn against a store view bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise,
	// so multi-row writes are all-or-nothing.
	InTx(ctx context.Context, fn func(Store) error) error
}
