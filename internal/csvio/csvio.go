// Package csvio adapts the engine to CSV: it decodes action rows into
// engine.Action values and encodes account snapshots for output. The engine
// itself never sees bytes; this package owns all formatting concerns.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/terminal-bench/payengine/internal/engine"
	"github.com/terminal-bench/payengine/internal/ledger"
	"github.com/terminal-bench/payengine/pkg/amount"
)

// actionRow mirrors one input record. Amount is kept as a string so a
// missing column value can be told apart from zero.
type actionRow struct {
	Type   string `csv:"type"`
	Client uint16 `csv:"client"`
	Tx     uint32 `csv:"tx"`
	Amount string `csv:"amount"`
}

// accountRow mirrors one output record. Balances are pre-formatted to four
// decimal places.
type accountRow struct {
	Client    uint16 `csv:"client"`
	Available string `csv:"available"`
	Held      string `csv:"held"`
	Total     string `csv:"total"`
	Locked    bool   `csv:"locked"`
}

// Decoder reads actions from a CSV stream with a header row. Whitespace
// around values is tolerated.
type Decoder struct {
	dec *csvutil.Decoder
}

// NewDecoder creates a Decoder over r. It fails if the header row cannot
// be read.
func NewDecoder(r io.Reader) (*Decoder, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return &Decoder{dec: dec}, nil
}

// Next decodes the next action, returning io.EOF when the stream is
// exhausted. A non-EOF error covers only the offending row; decoding can
// continue afterwards.
func (d *Decoder) Next() (engine.Action, error) {
	var row actionRow
	if err := d.dec.Decode(&row); err != nil {
		if err == io.EOF {
			return engine.Action{}, io.EOF
		}
		return engine.Action{}, fmt.Errorf("decode action row: %w", err)
	}
	return rowToAction(row)
}

func rowToAction(row actionRow) (engine.Action, error) {
	action := engine.Action{
		Client: ledger.ClientID(row.Client),
		Tx:     ledger.TxID(row.Tx),
	}

	switch kind := engine.ActionKind(strings.TrimSpace(row.Type)); kind {
	case engine.ActionDeposit, engine.ActionWithdrawal,
		engine.ActionDispute, engine.ActionResolve, engine.ActionChargeback:
		action.Kind = kind
	default:
		return engine.Action{}, fmt.Errorf("unknown action type %q", row.Type)
	}

	if raw := strings.TrimSpace(row.Amount); raw != "" {
		amt, err := amount.FromString(raw)
		if err != nil {
			return engine.Action{}, fmt.Errorf("tx %d: %w", row.Tx, err)
		}
		action.Amount = &amt
	}

	return action, nil
}

// WriteAccounts encodes account snapshots as CSV with a header row and all
// balances at exactly four decimal places.
func WriteAccounts(w io.Writer, snapshots []ledger.Snapshot) error {
	writer := csv.NewWriter(w)
	enc := csvutil.NewEncoder(writer)

	for _, snap := range snapshots {
		row := accountRow{
			Client:    uint16(snap.Client),
			Available: snap.Available.String(),
			Held:      snap.Held.String(),
			Total:     snap.Total.String(),
			Locked:    snap.Locked,
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode account %d: %w", snap.Client, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
