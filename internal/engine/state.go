package engine

import (
	"fmt"
	"sort"

	"github.com/terminal-bench/payengine/internal/ledger"
)

// state is the engine's internal state: the account map plus the transaction
// ledger. It is not safe for concurrent use; the engine variants decide how
// access is synchronized.
type state struct {
	accounts     map[ledger.ClientID]*ledger.Account
	transactions *ledger.Ledger
}

func newState() *state {
	return &state{
		accounts:     make(map[ledger.ClientID]*ledger.Account),
		transactions: ledger.NewLedger(),
	}
}

// account returns the client's account, creating an empty unlocked one on
// first reference.
func (s *state) account(client ledger.ClientID) *ledger.Account {
	acct, exists := s.accounts[client]
	if !exists {
		acct = ledger.NewAccount(client)
		s.accounts[client] = acct
	}
	return acct
}

// apply runs one action against the state. Every precondition is checked
// before any mutation, so a returned error means nothing changed.
func (s *state) apply(action Action) error {
	switch action.Kind {
	case ActionDeposit:
		return s.applyTransfer(action, ledger.KindDeposit)
	case ActionWithdrawal:
		return s.applyTransfer(action, ledger.KindWithdrawal)
	case ActionDispute:
		return s.applyDispute(action)
	case ActionResolve:
		return s.applyResolve(action)
	case ActionChargeback:
		return s.applyChargeback(action)
	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

// applyTransfer handles deposits and withdrawals: record the transaction and
// move the funds. Rejected transfers are not recorded, so their transaction
// ids stay usable.
func (s *state) applyTransfer(action Action, kind ledger.Kind) error {
	if action.Amount == nil || !action.Amount.IsPositive() {
		return fmt.Errorf("%s tx %d: %w", kind, action.Tx, ledger.ErrInvalidAmount)
	}
	amt := *action.Amount

	acct := s.account(action.Client)
	if acct.Locked() {
		return fmt.Errorf("client %d: %w", action.Client, ledger.ErrAccountLocked)
	}
	if _, err := s.transactions.Lookup(action.Tx); err == nil {
		return fmt.Errorf("%s tx %d: %w", kind, action.Tx, ledger.ErrDuplicateTransaction)
	}
	if kind == ledger.KindWithdrawal && amt.GreaterThan(acct.Available()) {
		return fmt.Errorf("withdraw %s from client %d: %w", amt, action.Client, ledger.ErrInsufficientFunds)
	}

	if err := s.transactions.Record(action.Tx, action.Client, kind, amt); err != nil {
		return err
	}
	if kind == ledger.KindDeposit {
		return acct.Credit(amt)
	}
	return acct.Debit(amt)
}

// referenced resolves the transaction an action points at and runs the checks
// shared by dispute, resolve and chargeback: the transaction must exist and
// belong to the acting client, and the account must not be locked. The lock
// gate comes before any dispute-state check, so actions against a charged-back
// account always surface AccountLocked.
func (s *state) referenced(action Action) (*ledger.Transaction, *ledger.Account, error) {
	tx, err := s.transactions.Lookup(action.Tx)
	if err != nil {
		return nil, nil, err
	}
	if tx.Client != action.Client {
		return nil, nil, fmt.Errorf("tx %d is for client %d, not %d: %w",
			action.Tx, tx.Client, action.Client, ledger.ErrClientMismatch)
	}
	acct := s.account(action.Client)
	if acct.Locked() {
		return nil, nil, fmt.Errorf("client %d: %w", action.Client, ledger.ErrAccountLocked)
	}
	return tx, acct, nil
}

func (s *state) applyDispute(action Action) error {
	tx, acct, err := s.referenced(action)
	if err != nil {
		return err
	}
	if tx.Disputed {
		return fmt.Errorf("tx %d already disputed: %w", action.Tx, ledger.ErrInvalidState)
	}
	// Only deposits can be disputed. Holding a withdrawal's amount would
	// freeze funds that were never available.
	if tx.Kind != ledger.KindDeposit {
		return fmt.Errorf("tx %d is a %s: %w", action.Tx, tx.Kind, ledger.ErrInvalidState)
	}
	if err := acct.Hold(tx.Amount); err != nil {
		return err
	}
	return s.transactions.MarkDisputed(action.Tx)
}

func (s *state) applyResolve(action Action) error {
	tx, acct, err := s.referenced(action)
	if err != nil {
		return err
	}
	if !tx.Disputed {
		return fmt.Errorf("tx %d not disputed: %w", action.Tx, ledger.ErrInvalidState)
	}
	if err := acct.Release(tx.Amount); err != nil {
		return err
	}
	return s.transactions.ClearDisputed(action.Tx)
}

func (s *state) applyChargeback(action Action) error {
	tx, acct, err := s.referenced(action)
	if err != nil {
		return err
	}
	if !tx.Disputed {
		return fmt.Errorf("tx %d not disputed: %w", action.Tx, ledger.ErrInvalidState)
	}
	// Forfeit drops the held funds and locks the account for good.
	if err := acct.Forfeit(tx.Amount); err != nil {
		return err
	}
	return s.transactions.ClearDisputed(action.Tx)
}

// snapshot copies every account, ordered by client id ascending.
func (s *state) snapshot() []ledger.Snapshot {
	snapshots := make([]ledger.Snapshot, 0, len(s.accounts))
	for _, acct := range s.accounts {
		snapshots = append(snapshots, acct.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}
