// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes committed ledger entries in sqlite for filtered queries.
// The index is derived data. It can be rebuilt from the journal at any time.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault/schedule"
)

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, ts, kind, assetID, owner, amount, segments) VALUES(?,?,?,?,?,?,?)"

// memSeq names in-memory databases so tests get isolated instances.
var memSeq atomic.Int64

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmts         *stmtCache
}

// New creates or opens the event index at the given path.
func New(path string) (*LogDB, error) {
	return open(path, path+"?_journal_mode=WAL&_synchronous=NORMAL")
}

// NewMem creates an event index in ram.
func NewMem() (*LogDB, error) {
	dsn := fmt.Sprintf("file:roost-mem-%d?mode=memory&cache=shared", memSeq.Add(1))
	return open(dsn, dsn)
}

func open(path, dsn string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
		newStmtCache(db),
	}, nil
}

// Close closes the event index.
func (db *LogDB) Close() error {
	db.stmts.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Write upserts the given events. Writes are keyed by seq, so replaying
// an already indexed entry is harmless.
func (db *LogDB) Write(events []*Event) error {
	return db.execInTx(func(tx *sql.Tx) error {
		stmt := tx.Stmt(db.stmts.MustPrepare(insertEventQuery))
		for _, ev := range events {
			segments, err := encodeSegments(ev.Segments)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(
				ev.Seq,
				ev.Time,
				ev.Kind,
				ev.AssetID.Bytes(),
				ev.Owner.Bytes(),
				amountValue(ev.Amount),
				segments,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// NewestSeq returns the highest indexed seq. ok is false when the index is empty.
func (db *LogDB) NewestSeq() (seq uint64, ok bool, err error) {
	row := db.stmts.MustPrepare("SELECT MAX(seq) FROM event").QueryRow()
	var newest sql.NullInt64
	if err := row.Scan(&newest); err != nil {
		return 0, false, err
	}
	if !newest.Valid {
		return 0, false, nil
	}
	return uint64(newest.Int64), true, nil
}

// Truncate drops all events with seq at or above fromSeq.
func (db *LogDB) Truncate(fromSeq uint64) error {
	_, err := db.stmts.MustPrepare("DELETE FROM event WHERE seq >= ?").Exec(fromSeq)
	return err
}

func (db *LogDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM event WHERE 1"
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(",?", len(filter.Kinds)-1) + ") "
		for _, kind := range filter.Kinds {
			args = append(args, kind)
		}
	}
	if filter.AssetID != nil {
		args = append(args, filter.AssetID.Bytes())
		stmt += " AND assetID = ? "
	}
	if filter.Owner != nil {
		args = append(args, filter.Owner.Bytes())
		stmt += " AND owner = ? "
	}
	if filter.SeqRange != nil {
		args = append(args, filter.SeqRange.From)
		stmt += " AND seq >= ? "
		if filter.SeqRange.To >= filter.SeqRange.From {
			args = append(args, filter.SeqRange.To)
			stmt += " AND seq <= ? "
		}
	}
	if filter.TimeRange != nil {
		args = append(args, filter.TimeRange.From)
		stmt += " AND ts >= ? "
		if filter.TimeRange.To >= filter.TimeRange.From {
			args = append(args, filter.TimeRange.To)
			stmt += " AND ts <= ? "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      uint64
			ts       uint64
			kind     string
			assetID  []byte
			owner    []byte
			amount   []byte
			segments []byte
		)
		if err := rows.Scan(
			&seq,
			&ts,
			&kind,
			&assetID,
			&owner,
			&amount,
			&segments,
		); err != nil {
			return nil, err
		}
		segs, err := decodeSegments(segments)
		if err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:      seq,
			Time:     ts,
			Kind:     kind,
			AssetID:  roost.BytesToBytes32(assetID),
			Owner:    roost.BytesToAddress(owner),
			Amount:   new(big.Int).SetBytes(amount),
			Segments: segs,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func amountValue(amount *big.Int) []byte {
	if amount == nil {
		return nil
	}
	return amount.Bytes()
}

func encodeSegments(segs []schedule.Segment) ([]byte, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	blobs := make([][]byte, 0, len(segs))
	for i := range segs {
		blob, err := segs[i].Encode()
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}
	return rlp.EncodeToBytes(blobs)
}

func decodeSegments(data []byte) ([]schedule.Segment, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var blobs [][]byte
	if err := rlp.DecodeBytes(data, &blobs); err != nil {
		return nil, err
	}
	segs := make([]schedule.Segment, len(blobs))
	for i, blob := range blobs {
		if err := segs[i].Decode(blob); err != nil {
			return nil, err
		}
	}
	return segs, nil
}
