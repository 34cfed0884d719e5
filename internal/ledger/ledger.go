// Package ledger holds the per-client accounts and the append-only record of
// accepted deposits and withdrawals.
package ledger

import (
	"fmt"

	"github.com/terminal-bench/payengine/pkg/amount"
)

// TxID identifies a transaction. Newtyped so it can never be mixed up with
// a client id.
type TxID uint32

// Kind is the recorded transaction type.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Transaction is one accepted deposit or withdrawal. Records are never
// deleted; only the disputed flag changes after creation.
type Transaction struct {
	ID       TxID
	Client   ClientID
	Kind     Kind
	Amount   amount.Amount
	Disputed bool
}

// Ledger maps transaction ids to their records.
type Ledger struct {
	transactions map[TxID]*Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make(map[TxID]*Transaction),
	}
}

// Record inserts a new un-disputed transaction. A transaction id is usable
// exactly once for the lifetime of the ledger.
func (l *Ledger) Record(id TxID, client ClientID, kind Kind, amt amount.Amount) error {
	if _, exists := l.transactions[id]; exists {
		return fmt.Errorf("record tx %d: %w", id, ErrDuplicateTransaction)
	}
	l.transactions[id] = &Transaction{
		ID:     id,
		Client: client,
		Kind:   kind,
		Amount: amt,
	}
	return nil
}

// Lookup returns the record for a transaction id.
func (l *Ledger) Lookup(id TxID) (*Transaction, error) {
	tx, exists := l.transactions[id]
	if !exists {
		return nil, fmt.Errorf("tx %d: %w", id, ErrUnknownTransaction)
	}
	return tx, nil
}

// MarkDisputed flags a transaction as under dispute. Re-disputing an already
// disputed transaction is rejected.
func (l *Ledger) MarkDisputed(id TxID) error {
	tx, err := l.Lookup(id)
	if err != nil {
		return err
	}
	if tx.Disputed {
		return fmt.Errorf("tx %d already disputed: %w", id, ErrInvalidState)
	}
	tx.Disputed = true
	return nil
}

// ClearDisputed removes the dispute flag. Clearing a non-disputed
// transaction is rejected.
func (l *Ledger) ClearDisputed(id TxID) error {
	tx, err := l.Lookup(id)
	if err != nil {
		return err
	}
	if !tx.Disputed {
		return fmt.Errorf("tx %d not disputed: %w", id, ErrInvalidState)
	}
	tx.Disputed = false
	return nil
}
