// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/token"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/reverts"
	"github.com/roostlabs/roost/vault/schedule"
)

type testEnv struct {
	t     *testing.T
	store *lvldb.LevelDB
	index *logdb.LogDB
	gene  *genesis.Genesis
	now   uint64
	l     *ledger.Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	gene := genesis.NewDevnet()
	env := &testEnv{t: t, store: store, index: index, gene: gene, now: gene.Timestamp()}

	l, err := ledger.New(store, gene, index, env.clock)
	require.NoError(t, err)
	env.l = l
	return env
}

func (e *testEnv) clock() uint64 {
	return e.now
}

func (e *testEnv) advance(days uint64) {
	e.now += days * roost.DaySeconds
}

func (e *testEnv) assetOwner(id roost.Bytes32) roost.Address {
	st, release, err := e.l.Read()
	require.NoError(e.t, err)
	defer release()
	owner, err := asset.New(st).OwnerOf(id)
	require.NoError(e.t, err)
	return owner
}

func (e *testEnv) balance(addr roost.Address) *big.Int {
	st, release, err := e.l.Read()
	require.NoError(e.t, err)
	defer release()
	bal, err := token.New(st).BalanceOf(addr)
	require.NoError(e.t, err)
	return bal
}

func TestBootstrap(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, uint64(0), env.l.HeadSeq())
	assert.Equal(t, env.gene.ID(), env.l.GenesisID())

	entry, err := env.l.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindGenesis, entry.Kind)
	assert.Equal(t, env.gene.Timestamp(), entry.Time)
	assert.Equal(t, genesis.DevSchedule, entry.Segments)
	assert.Zero(t, entry.Amount.Sign())

	newest, ok, err := env.index.NewestSeq()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), newest)
}

func TestReopenResumesHead(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)

	reopened, err := ledger.New(env.store, env.gene, env.index, env.clock)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reopened.HeadSeq())

	err = reopened.ReadVault(func(v *vault.Vault, _ uint64) error {
		record, err := v.GetDeposit(id)
		require.NoError(t, err)
		assert.Equal(t, acct, record.Owner)
		return nil
	})
	require.NoError(t, err)
}

func TestGenesisMismatch(t *testing.T) {
	env := newTestEnv(t)

	admin := genesis.DevAccounts()[0]
	other, err := genesis.NewCustomNet(&genesis.CustomGenesis{
		LaunchTime:    12345,
		ScheduleAdmin: &admin,
	})
	require.NoError(t, err)

	_, err = ledger.New(env.store, other, nil, env.clock)
	assert.EqualError(t, err, "genesis mismatch")
}

func TestDepositCommitsEntry(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	entry, err := env.l.Deposit(acct, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), entry.Seq)
	assert.Equal(t, ledger.KindDeposit, entry.Kind)
	assert.Equal(t, env.now, entry.Time)
	assert.Equal(t, uint64(1), env.l.HeadSeq())

	read, err := env.l.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, entry.Seq, read.Seq)
	assert.Equal(t, entry.Time, read.Time)
	assert.Equal(t, entry.Kind, read.Kind)
	assert.Equal(t, id, read.AssetID)
	assert.Equal(t, acct, read.Owner)
	assert.Zero(t, read.Amount.Sign())

	assert.Equal(t, vault.Address, env.assetOwner(id))

	err = env.l.ReadVault(func(v *vault.Vault, _ uint64) error {
		record, err := v.GetDeposit(id)
		require.NoError(t, err)
		assert.Equal(t, env.now, record.DepositedAt)
		return nil
	})
	require.NoError(t, err)
}

func TestRevertLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	stranger := genesis.DevAccounts()[2]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(stranger, id)
	assert.True(t, reverts.IsNotOwner(err))

	assert.Equal(t, uint64(0), env.l.HeadSeq())
	_, err = env.l.Entry(1)
	assert.True(t, env.l.IsNotFound(err))

	err = env.l.ReadVault(func(v *vault.Vault, _ uint64) error {
		record, err := v.GetDeposit(id)
		require.NoError(t, err)
		assert.True(t, record.IsEmpty())
		return nil
	})
	require.NoError(t, err)
}

func TestSettleMintsAccrued(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)

	env.advance(7)
	entry, err := env.l.Settle(acct, id)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindSettle, entry.Kind)
	assert.Equal(t, big.NewInt(49), entry.Amount)
	assert.Equal(t, big.NewInt(49), env.balance(acct))

	// nothing new accrues within the same day
	_, err = env.l.Settle(acct, id)
	assert.True(t, reverts.IsNothingToClaim(err))
	assert.Equal(t, uint64(2), env.l.HeadSeq())
}

func TestWithdrawReturnsCustody(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)

	env.advance(7)
	entry, err := env.l.Withdraw(acct, id)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindWithdraw, entry.Kind)
	assert.Equal(t, big.NewInt(49), entry.Amount)
	assert.Equal(t, acct, env.assetOwner(id))
	assert.Equal(t, big.NewInt(49), env.balance(acct))
}

func TestWithdrawBeforeLockExpires(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)

	env.advance(3)
	_, err = env.l.Withdraw(acct, id)
	assert.True(t, reverts.IsLockNotExpired(err))
	assert.Equal(t, uint64(1), env.l.HeadSeq())
	assert.Equal(t, vault.Address, env.assetOwner(id))
}

func TestReplaceScheduleEntry(t *testing.T) {
	env := newTestEnv(t)
	admin := genesis.DevAccounts()[0]
	flat := []schedule.Segment{{Start: 0, End: 30, FlatRate: 3}}

	entry, err := env.l.ReplaceSchedule(admin, flat)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindSchedule, entry.Kind)
	assert.Equal(t, admin, entry.Owner)
	assert.Equal(t, flat, entry.Segments)

	read, err := env.l.Entry(entry.Seq)
	require.NoError(t, err)
	assert.Equal(t, flat, read.Segments)

	_, err = env.l.ReplaceSchedule(genesis.DevAccounts()[3], flat)
	assert.True(t, reverts.IsNotOwner(err))
}

func TestEntriesPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 3; i++ {
		_, err := env.l.Deposit(genesis.DevAccounts()[i], genesis.DevAssets()[i].ID)
		require.NoError(t, err)
	}

	all, err := env.l.Entries(0, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ledger.KindGenesis, all[0].Kind)

	page, err := env.l.Entries(1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(1), page[0].Seq)
	assert.Equal(t, uint64(2), page[1].Seq)

	empty, err := env.l.Entries(9, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	zero, err := env.l.Entries(0, 0)
	require.NoError(t, err)
	assert.Empty(t, zero)
}

func TestTickerWakesOnCommit(t *testing.T) {
	env := newTestEnv(t)

	waiter := env.l.NewTicker()
	_, err := env.l.Deposit(genesis.DevAccounts()[1], genesis.DevAssets()[1].ID)
	require.NoError(t, err)

	select {
	case <-waiter.C():
	default:
		t.Fatal("expected tick after commit")
	}
}

func TestIndexCatchUp(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)
	env.advance(7)
	_, err = env.l.Settle(acct, id)
	require.NoError(t, err)

	// an empty index gets refilled from the journal on open
	fresh, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { fresh.Close() })

	reopened, err := ledger.New(env.store, env.gene, fresh, env.clock)
	require.NoError(t, err)

	newest, ok, err := fresh.NewestSeq()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, reopened.HeadSeq(), newest)

	events, err := fresh.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, logdb.KindGenesis, events[0].Kind)
	assert.Equal(t, logdb.KindDeposit, events[1].Kind)
	assert.Equal(t, logdb.KindSettle, events[2].Kind)
	assert.Equal(t, big.NewInt(49), events[2].Amount)
}

func TestRebuildIndex(t *testing.T) {
	env := newTestEnv(t)
	acct := genesis.DevAccounts()[1]
	id := genesis.DevAssets()[1].ID

	_, err := env.l.Deposit(acct, id)
	require.NoError(t, err)
	env.advance(7)
	_, err = env.l.Settle(acct, id)
	require.NoError(t, err)
	_, err = env.l.Withdraw(acct, id)
	require.NoError(t, err)

	// rebuilding from zero re-derives every row
	fresh, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { fresh.Close() })

	var replayed []uint64
	err = env.l.RebuildIndex(context.Background(), fresh, 0, func(seq uint64) {
		replayed = append(replayed, seq)
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2, 3}, replayed)

	events, err := fresh.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, logdb.KindWithdraw, events[3].Kind)

	// a partial rebuild keeps rows below the start point
	err = env.l.RebuildIndex(context.Background(), fresh, 2, nil)
	require.NoError(t, err)

	events, err = fresh.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	// a canceled context stops the replay
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	err = env.l.RebuildIndex(canceled, fresh, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
