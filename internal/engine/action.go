package engine

import (
	"github.com/terminal-bench/payengine/internal/ledger"
	"github.com/terminal-bench/payengine/pkg/amount"
)

// ActionKind is the closed set of input event types.
type ActionKind string

const (
	// ActionDeposit adds funds to an account, creating it if needed.
	ActionDeposit ActionKind = "deposit"

	// ActionWithdrawal removes available funds from an account.
	ActionWithdrawal ActionKind = "withdrawal"

	// ActionDispute opens a claim against a recorded deposit, holding its
	// funds.
	ActionDispute ActionKind = "dispute"

	// ActionResolve closes a dispute, releasing the held funds.
	ActionResolve ActionKind = "resolve"

	// ActionChargeback finalizes a dispute as a loss and locks the account.
	ActionChargeback ActionKind = "chargeback"
)

// Action is one input event requesting a ledger/account mutation. Amount is
// set only for deposits and withdrawals; the other kinds reference a prior
// transaction by Tx alone.
type Action struct {
	Kind   ActionKind
	Client ledger.ClientID
	Tx     ledger.TxID
	Amount *amount.Amount
}
