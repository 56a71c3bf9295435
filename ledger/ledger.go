// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serializes vault operations into a persisted journal.
// Every mutation runs against fresh state. The journal entry and the head
// pointer land in the same commit batch as the state writes, so a crash
// can never leave state and journal disagreeing. Committed entries are
// mirrored into the sqlite index and broadcast to subscribers.
package ledger

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/co"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/kv"
	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/token"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/reverts"
	"github.com/roostlabs/roost/vault/schedule"
)

var (
	headKey      = []byte("h")
	genesisIDKey = []byte("g")

	errNotFound = errors.New("entry not found")

	logger = log.WithContext("pkg", "ledger")
)

// SetLogger sets the logger for the package, mainly used for testing purposes.
func SetLogger(l log.Logger) {
	logger = l
}

// Store is the persistent backend of the ledger.
type Store interface {
	kv.GetPutter
	Snapshot() (kv.Snapshot, error)
}

// Ledger owns the journal and drives all vault mutations.
// It's thread-safe.
type Ledger struct {
	store Store
	gene  *genesis.Genesis
	index *logdb.LogDB
	clock func() uint64

	headSeq atomic.Uint64
	tick    co.Signal
	mu      sync.Mutex
}

// New opens a ledger over the given store. A fresh store is bootstrapped
// from the genesis, an existing one must match its ID. The index may be
// nil to run without the sqlite mirror. A nil clock means wall time.
func New(store Store, gene *genesis.Genesis, index *logdb.LogDB, clock func() uint64) (*Ledger, error) {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	l := &Ledger{
		store: store,
		gene:  gene,
		index: index,
		clock: clock,
	}
	if err := l.bootstrap(); err != nil {
		return nil, err
	}
	l.catchUpIndex()
	return l, nil
}

func (l *Ledger) bootstrap() error {
	head, err := l.store.Get(headKey)
	if err != nil {
		if !l.store.IsNotFound(err) {
			return errors.Wrap(err, "read head")
		}
		// no head yet, build genesis state
		st := state.New(l.store)
		if err := l.gene.Build(st); err != nil {
			return err
		}
		v := vault.New(st, asset.New(st), token.New(st), params.New(st))
		segments, err := v.Schedule()
		if err != nil {
			return errors.Wrap(err, "read genesis schedule")
		}
		entry := &Entry{
			Seq:      0,
			Time:     l.gene.Timestamp(),
			Kind:     KindGenesis,
			Amount:   new(big.Int),
			Segments: segments,
		}
		stage, err := st.Stage()
		if err != nil {
			return errors.Wrap(err, "stage genesis")
		}
		if err := stageEntry(stage, entry); err != nil {
			return err
		}
		if err := stage.Put(genesisIDKey, l.gene.ID().Bytes()); err != nil {
			return err
		}
		if err := stage.Commit(); err != nil {
			return errors.Wrap(err, "commit genesis")
		}
		l.headSeq.Store(0)
		logger.Info("ledger bootstrapped", "name", l.gene.Name(), "genesis", l.gene.ID())
		return nil
	}

	stored, err := l.store.Get(genesisIDKey)
	if err != nil {
		return errors.Wrap(err, "read genesis id")
	}
	if !bytes.Equal(stored, l.gene.ID().Bytes()) {
		return errors.New("genesis mismatch")
	}
	l.headSeq.Store(binary.BigEndian.Uint64(head))
	return nil
}

// Deposit locks the caller's asset into vault custody.
func (l *Ledger) Deposit(caller roost.Address, id roost.Bytes32) (*Entry, error) {
	return l.execute(KindDeposit, func(v *vault.Vault, now uint64) (*Entry, error) {
		if err := v.Deposit(caller, id, now); err != nil {
			return nil, err
		}
		return &Entry{Kind: KindDeposit, AssetID: id, Owner: caller, Amount: new(big.Int)}, nil
	})
}

// Settle mints the reward the asset accrued since its last settlement.
func (l *Ledger) Settle(caller roost.Address, id roost.Bytes32) (*Entry, error) {
	return l.execute(KindSettle, func(v *vault.Vault, now uint64) (*Entry, error) {
		owed, err := v.Settle(caller, id, now)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindSettle, AssetID: id, Owner: caller, Amount: owed}, nil
	})
}

// Withdraw settles outstanding rewards and returns the asset to its owner.
func (l *Ledger) Withdraw(caller roost.Address, id roost.Bytes32) (*Entry, error) {
	return l.execute(KindWithdraw, func(v *vault.Vault, now uint64) (*Entry, error) {
		owed, err := v.Withdraw(caller, id, now)
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindWithdraw, AssetID: id, Owner: caller, Amount: owed}, nil
	})
}

// ReplaceSchedule swaps the reward schedule. Admin only.
func (l *Ledger) ReplaceSchedule(caller roost.Address, segments []schedule.Segment) (*Entry, error) {
	return l.execute(KindSchedule, func(v *vault.Vault, now uint64) (*Entry, error) {
		if err := v.ReplaceSchedule(caller, segments); err != nil {
			return nil, err
		}
		installed, err := v.Schedule()
		if err != nil {
			return nil, err
		}
		return &Entry{Kind: KindSchedule, Owner: caller, Amount: new(big.Int), Segments: installed}, nil
	})
}

// execute runs one mutation against fresh state and commits it as the
// next journal entry.
func (l *Ledger) execute(kind string, proc func(v *vault.Vault, now uint64) (*Entry, error)) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	startTime := time.Now()
	now := l.clock()
	st := state.New(l.store)
	v := vault.New(st, asset.New(st), token.New(st), params.New(st))

	entry, err := proc(v, now)
	if err != nil {
		status := "failed"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		countOp(kind, status, startTime)
		return nil, err
	}
	entry.Seq = l.headSeq.Load() + 1
	entry.Time = now

	stage, err := st.Stage()
	if err != nil {
		countOp(kind, "failed", startTime)
		return nil, errors.Wrap(err, "stage")
	}
	if err := stageEntry(stage, entry); err != nil {
		countOp(kind, "failed", startTime)
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		countOp(kind, "failed", startTime)
		return nil, errors.Wrap(err, "commit")
	}

	l.headSeq.Store(entry.Seq)
	l.mirror(entry)
	l.tick.Broadcast()

	countOp(kind, "committed", startTime)
	metricHeadSeq().Set(int64(entry.Seq))
	if entry.Amount.Sign() > 0 && entry.Amount.IsInt64() {
		metricRewardsMinted().Add(entry.Amount.Int64())
	}
	if kind == KindDeposit || kind == KindWithdraw {
		if staked, err := v.TotalStaked(); err == nil {
			metricTotalStaked().Set(staked.Int64())
		}
	}
	return entry, nil
}

// stageEntry adds the journal record and the new head pointer to the
// staged batch.
func stageEntry(stage *state.Stage, entry *Entry) error {
	data, err := rlp.EncodeToBytes(entry)
	if err != nil {
		return errors.Wrap(err, "encode entry")
	}
	if err := stage.Put(journalKey(entry.Seq), data); err != nil {
		return err
	}
	var head [8]byte
	binary.BigEndian.PutUint64(head[:], entry.Seq)
	return stage.Put(headKey, head[:])
}

func journalKey(seq uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'j'
	binary.BigEndian.PutUint64(key[1:], seq)
	return key
}

// mirror forwards a committed entry to the sqlite index. Index trouble is
// logged, not returned. The journal stays authoritative and the index can
// be rebuilt from it.
func (l *Ledger) mirror(entry *Entry) {
	if l.index == nil {
		return
	}
	if err := l.index.Write([]*logdb.Event{entry.toEvent()}); err != nil {
		logger.Warn("failed to index entry", "seq", entry.Seq, "err", err)
	}
}

// catchUpIndex replays journal entries the index has not seen yet,
// typically after a crash between commit and mirror.
func (l *Ledger) catchUpIndex() {
	if l.index == nil {
		return
	}
	newest, ok, err := l.index.NewestSeq()
	if err != nil {
		logger.Warn("failed to read index head", "err", err)
		return
	}
	next := uint64(0)
	if ok {
		next = newest + 1
	}
	head := l.headSeq.Load()

	var batch []*logdb.Event
	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		if err := l.index.Write(batch); err != nil {
			logger.Warn("failed to index entries", "err", err)
			return false
		}
		batch = batch[:0]
		return true
	}
	for seq := next; seq <= head; seq++ {
		entry, err := l.Entry(seq)
		if err != nil {
			logger.Warn("failed to read journal entry", "seq", seq, "err", err)
			return
		}
		batch = append(batch, entry.toEvent())
		if len(batch) >= 512 {
			if !flush() {
				return
			}
		}
	}
	flush()
}

//
// Reads - no state change
//

// Read returns a read-only state over a store snapshot, plus the release
// func to call when done.
func (l *Ledger) Read() (*state.State, func(), error) {
	snap, err := l.store.Snapshot()
	if err != nil {
		return nil, nil, errors.Wrap(err, "snapshot")
	}
	return state.NewReader(snap), snap.Release, nil
}

// ReadVault runs the given read against a vault over a store snapshot.
func (l *Ledger) ReadVault(read func(v *vault.Vault, now uint64) error) error {
	st, release, err := l.Read()
	if err != nil {
		return err
	}
	defer release()
	v := vault.New(st, asset.New(st), token.New(st), params.New(st))
	return read(v, l.clock())
}

// Entry reads one journal entry.
func (l *Ledger) Entry(seq uint64) (*Entry, error) {
	data, err := l.store.Get(journalKey(seq))
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, errors.Wrap(err, "read journal")
	}
	var entry Entry
	if err := rlp.DecodeBytes(data, &entry); err != nil {
		return nil, errors.Wrap(err, "decode entry")
	}
	return &entry, nil
}

// Entries reads up to limit journal entries starting at from.
func (l *Ledger) Entries(from, limit uint64) ([]*Entry, error) {
	head := l.headSeq.Load()
	var entries []*Entry
	for seq := from; seq <= head && uint64(len(entries)) < limit; seq++ {
		entry, err := l.Entry(seq)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RebuildIndex re-derives an event index from the journal. Indexed rows
// at or above from are dropped first, then every journal entry from there
// to the head is replayed into the index. Progress reports each replayed
// sequence number.
func (l *Ledger) RebuildIndex(ctx context.Context, index *logdb.LogDB, from uint64, progress func(seq uint64)) error {
	if err := index.Truncate(from); err != nil {
		return errors.Wrap(err, "truncate index")
	}

	var batch []*logdb.Event
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := index.Write(batch); err != nil {
			return errors.Wrap(err, "write index")
		}
		batch = batch[:0]
		return nil
	}

	head := l.headSeq.Load()
	for seq := from; seq <= head; seq++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		entry, err := l.Entry(seq)
		if err != nil {
			return errors.Wrapf(err, "read journal entry %d", seq)
		}
		batch = append(batch, entry.toEvent())
		if len(batch) >= 512 {
			if err := flush(); err != nil {
				return err
			}
		}
		if progress != nil {
			progress(seq)
		}
	}
	return flush()
}

// IsNotFound checks if the given error means the entry was missing.
func (l *Ledger) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// HeadSeq returns the seq of the newest committed entry.
func (l *Ledger) HeadSeq() uint64 {
	return l.headSeq.Load()
}

// GenesisID returns the ID of the genesis this ledger was built from.
func (l *Ledger) GenesisID() roost.Bytes32 {
	return l.gene.ID()
}

// Now returns the ledger clock reading.
func (l *Ledger) Now() uint64 {
	return l.clock()
}

// NewTicker creates a waiter that wakes on every committed entry.
func (l *Ledger) NewTicker() co.Waiter {
	return l.tick.NewWaiter()
}

// Index returns the sqlite event index, nil when running without one.
func (l *Ledger) Index() *logdb.LogDB {
	return l.index
}
