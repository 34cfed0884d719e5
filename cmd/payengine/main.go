// Command payengine processes CSV action files and writes the resulting
// account balances as CSV on stdout.
//
// A single input file is processed sequentially. With multiple input files,
// each file becomes an independent producer feeding one shared engine
// concurrently.
//
// PAYENGINE_ON_REJECT controls what happens to actions the engine turns
// away (and to rows that fail to decode): "ignore" (default), "log", or
// "fail" to abort on the first rejection.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/terminal-bench/payengine/internal/csvio"
	"github.com/terminal-bench/payengine/internal/engine"
	"github.com/terminal-bench/payengine/internal/feed"
	"github.com/terminal-bench/payengine/internal/ledger"
)

type rejectPolicy string

const (
	rejectIgnore rejectPolicy = "ignore"
	rejectLog    rejectPolicy = "log"
	rejectFail   rejectPolicy = "fail"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.With(zap.String("run_id", uuid.NewString()))

	if len(os.Args) < 2 {
		log.Fatal("no input file given",
			zap.String("usage", "payengine <input.csv> [input.csv ...]"))
	}
	inputs := os.Args[1:]

	policy := rejectPolicy(os.Getenv("PAYENGINE_ON_REJECT"))
	switch policy {
	case rejectIgnore, rejectLog, rejectFail:
	case "":
		policy = rejectIgnore
	default:
		log.Fatal("invalid PAYENGINE_ON_REJECT value", zap.String("value", string(policy)))
	}

	snapshots, err := run(log, inputs, policy)
	if err != nil {
		log.Fatal("processing failed", zap.Error(err))
	}

	if err := csvio.WriteAccounts(os.Stdout, snapshots); err != nil {
		log.Fatal("failed to write accounts", zap.Error(err))
	}
}

// run processes every input file and returns the final account snapshots.
func run(log *zap.Logger, inputs []string, policy rejectPolicy) ([]ledger.Snapshot, error) {
	rej := newRejector(log, policy)

	var snapshots []ledger.Snapshot
	var err error
	if len(inputs) == 1 {
		snapshots, err = runSerial(inputs[0], rej)
	} else {
		snapshots, err = runShared(inputs, rej)
	}
	if err != nil {
		return nil, err
	}
	if err := rej.firstErr(); err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.Int64("decoded", rej.decoded.Load()),
		zap.Int64("rejected", rej.rejected.Load()),
		zap.Int("accounts", len(snapshots)))
	return snapshots, nil
}

// runSerial feeds one file through a single-owner engine.
func runSerial(input string, rej *rejector) ([]ledger.Snapshot, error) {
	eng := engine.NewSerial()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rej.cancel = cancel

	if err := processFile(ctx, input, eng, rej); err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return eng.Snapshot(), nil
}

// runShared feeds each file through its own producer into one shared engine.
func runShared(inputs []string, rej *rejector) ([]ledger.Snapshot, error) {
	eng := engine.NewShared()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rej.cancel = cancel

	group, ctx := errgroup.WithContext(ctx)
	sources := make([]<-chan engine.Action, 0, len(inputs))
	for _, input := range inputs {
		input := input
		actions := make(chan engine.Action, 64)
		sources = append(sources, actions)
		group.Go(func() error {
			defer close(actions)
			return decodeFile(ctx, input, actions, rej)
		})
	}

	group.Go(func() error {
		return feed.Run(ctx, eng, sources, rej.onReject)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return eng.Snapshot(), nil
}

// processFile decodes a file and applies each action directly.
func processFile(ctx context.Context, input string, eng engine.Engine, rej *rejector) error {
	actions := make(chan engine.Action, 64)
	done := make(chan error, 1)
	go func() {
		done <- feed.Run(ctx, eng, []<-chan engine.Action{actions}, rej.onReject)
	}()

	err := decodeFile(ctx, input, actions, rej)
	close(actions)
	if feedErr := <-done; err == nil {
		err = feedErr
	}
	return err
}

// decodeFile streams one file's actions into a channel. Rows that fail to
// decode go through the reject policy and the rest of the file is still read.
func decodeFile(ctx context.Context, input string, actions chan<- engine.Action, rej *rejector) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	dec, err := csvio.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	for {
		action, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			rej.onReject(engine.Action{}, err)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case actions <- action:
			rej.decoded.Add(1)
		}
	}
}

// rejector applies the reject policy and keeps run counters. Safe for use
// from multiple producers.
type rejector struct {
	log    *zap.Logger
	policy rejectPolicy
	cancel context.CancelFunc

	decoded  atomic.Int64
	rejected atomic.Int64

	mu  sync.Mutex
	err error
}

func newRejector(log *zap.Logger, policy rejectPolicy) *rejector {
	return &rejector{log: log, policy: policy}
}

func (r *rejector) onReject(action engine.Action, err error) {
	r.rejected.Add(1)
	switch r.policy {
	case rejectLog:
		r.log.Warn("action rejected",
			zap.String("kind", string(action.Kind)),
			zap.Uint16("client", uint16(action.Client)),
			zap.Uint32("tx", uint32(action.Tx)),
			zap.Error(err))
	case rejectFail:
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
		if r.cancel != nil {
			r.cancel()
		}
	}
}

func (r *rejector) firstErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
