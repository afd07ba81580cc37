package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction. Repositories
	// called inside fn pick the transaction up from the context, so a
	// multi-row mutation either commits whole or leaves no trace.
	ExecTx(ctx context.Context, fn TxFn) error
}
