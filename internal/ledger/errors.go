package ledger

import "errors"

// Every rejection the engine can produce. All of them are recoverable: the
// caller skips the action and state is left untouched.
var (
	// ErrDuplicateTransaction signals a deposit or withdrawal re-using an
	// already recorded transaction id.
	ErrDuplicateTransaction = errors.New("transaction id already recorded")

	// ErrUnknownTransaction signals a dispute, resolve or chargeback
	// referencing a transaction id that was never recorded.
	ErrUnknownTransaction = errors.New("transaction not found")

	// ErrClientMismatch signals an action referencing a transaction that
	// belongs to a different client.
	ErrClientMismatch = errors.New("transaction belongs to a different client")

	// ErrInvalidState signals a dispute on an already disputed transaction,
	// or a resolve/chargeback on a non-disputed one.
	ErrInvalidState = errors.New("invalid transaction state for action")

	// ErrInsufficientFunds signals a withdrawal or dispute hold exceeding
	// the available balance.
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// ErrAccountLocked signals any action against a locked account.
	ErrAccountLocked = errors.New("account is locked")

	// ErrInvalidAmount signals a deposit or withdrawal with a missing,
	// zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")
)
