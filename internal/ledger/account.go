package ledger

import (
	"fmt"

	"github.com/terminal-bench/payengine/pkg/amount"
)

// ClientID identifies a client. Newtyped so it can never be mixed up with
// a transaction id.
type ClientID uint16

// Account holds one client's funds. Balances are reachable only through the
// mutators below, which keep total == available + held and refuse any change
// once the account is locked.
type Account struct {
	client    ClientID
	available amount.Amount
	held      amount.Amount
	locked    bool
}

// Snapshot is a read-only copy of an account's state.
type Snapshot struct {
	Client    ClientID
	Available amount.Amount
	Held      amount.Amount
	Total     amount.Amount
	Locked    bool
}

// NewAccount creates an empty, unlocked account for a client.
func NewAccount(client ClientID) *Account {
	return &Account{
		client:    client,
		available: amount.Zero(),
		held:      amount.Zero(),
	}
}

// Client returns the owning client id.
func (a *Account) Client() ClientID {
	return a.client
}

// Available returns the spendable funds.
func (a *Account) Available() amount.Amount {
	return a.available
}

// Held returns the funds frozen pending dispute resolution.
func (a *Account) Held() amount.Amount {
	return a.held
}

// Total returns available plus held funds.
func (a *Account) Total() amount.Amount {
	return a.available.Add(a.held)
}

// Locked reports whether the account has undergone a chargeback.
func (a *Account) Locked() bool {
	return a.locked
}

// Snapshot returns a copy of the account's observable state.
func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}

// Credit adds funds to the available balance.
func (a *Account) Credit(amt amount.Amount) error {
	if a.locked {
		return a.lockedErr()
	}
	a.available = a.available.Add(amt)
	return nil
}

// Debit removes funds from the available balance.
func (a *Account) Debit(amt amount.Amount) error {
	if a.locked {
		return a.lockedErr()
	}
	if amt.GreaterThan(a.available) {
		return fmt.Errorf("debit %s from client %d: %w", amt, a.client, ErrInsufficientFunds)
	}
	a.available = a.available.Sub(amt)
	return nil
}

// Hold moves funds from available to held while a dispute is open.
func (a *Account) Hold(amt amount.Amount) error {
	if a.locked {
		return a.lockedErr()
	}
	if amt.GreaterThan(a.available) {
		return fmt.Errorf("hold %s for client %d: %w", amt, a.client, ErrInsufficientFunds)
	}
	a.available = a.available.Sub(amt)
	a.held = a.held.Add(amt)
	return nil
}

// Release moves held funds back to available when a dispute is resolved.
func (a *Account) Release(amt amount.Amount) error {
	if a.locked {
		return a.lockedErr()
	}
	if amt.GreaterThan(a.held) {
		return fmt.Errorf("release %s for client %d: %w", amt, a.client, ErrInsufficientFunds)
	}
	a.held = a.held.Sub(amt)
	a.available = a.available.Add(amt)
	return nil
}

// Forfeit removes held funds entirely and locks the account. The lock is
// permanent: there is no unlock.
func (a *Account) Forfeit(amt amount.Amount) error {
	if a.locked {
		return a.lockedErr()
	}
	if amt.GreaterThan(a.held) {
		return fmt.Errorf("forfeit %s for client %d: %w", amt, a.client, ErrInsufficientFunds)
	}
	a.held = a.held.Sub(amt)
	a.locked = true
	return nil
}

func (a *Account) lockedErr() error {
	return fmt.Errorf("client %d: %w", a.client, ErrAccountLocked)
}
