// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var logger = log.New("pkg", "logdb")

const eventSelect = "SELECT seq, blockTime, txID, txOrigin, clauseIndex, contract, name, account, ref, amount, data FROM event"

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would open its own empty memory db
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestBlock returns the number of the newest block that has events, zero when empty.
func (db *LogDB) NewestBlock() (uint64, error) {
	stmt, err := db.stmtCache.Prepare("SELECT seq FROM event ORDER BY seq DESC LIMIT 1")
	if err != nil {
		return 0, err
	}
	var seq sequence
	if err := stmt.QueryRow().Scan(&seq); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return seq.BlockNumber(), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = eventSelect + " WHERE 1"
	)
	if r := filter.Range; r != nil {
		if r.Unit == Time {
			args = append(args, r.From)
			stmt += " AND blockTime >= ?"
			if r.To >= r.From {
				args = append(args, r.To)
				stmt += " AND blockTime <= ?"
			}
		} else {
			from, err := newSequence(r.From, 0)
			if err != nil {
				return nil, err
			}
			args = append(args, from)
			stmt += " AND seq >= ?"
			if r.To >= r.From {
				to, err := newSequence(r.To, indexMask)
				if err != nil {
					return nil, err
				}
				args = append(args, to)
				stmt += " AND seq <= ?"
			}
		}
	}
	if filter.Contract != nil {
		args = append(args, filter.Contract.Bytes())
		stmt += " AND contract = ?"
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.Ref != nil {
		args = append(args, filter.Ref.Bytes())
		stmt += " AND ref = ?"
	}
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ?"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
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
			seq         sequence
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			contract    []byte
			name        string
			account     []byte
			ref         []byte
			amount      sql.NullString
			data        sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
			&contract,
			&name,
			&account,
			&ref,
			&amount,
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			BlockTime:   blockTime,
			TxID:        gf.BytesToBytes32(txID),
			TxOrigin:    gf.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Contract:    gf.BytesToAddress(contract),
			Name:        name,
			Account:     gf.BytesToAddress(account),
			Ref:         gf.BytesToBytes32(ref),
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("malformed amount %q", amount.String)
			}
			event.Amount = v
		}
		if data.Valid && data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &event.Data); err != nil {
				return nil, errors.Wrap(err, "decode event data")
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Prepare starts a batch of events of one block.
func (db *LogDB) Prepare(blockNumber, blockTime uint64) *BlockBatch {
	return &BlockBatch{
		db:          db.db,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

// BlockBatch collects events of a block and writes them in one sql transaction.
type BlockBatch struct {
	db          *sql.DB
	blockNumber uint64
	blockTime   uint64
	events      []*Event
}

// ForTransaction appends the events emitted by a clause of the transaction.
func (bb *BlockBatch) ForTransaction(txID gf.Bytes32, txOrigin gf.Address) struct {
	Insert func(clauseIndex uint32, events tx.Events) *BlockBatch
} {
	return struct {
		Insert func(clauseIndex uint32, events tx.Events) *BlockBatch
	}{
		func(clauseIndex uint32, events tx.Events) *BlockBatch {
			for _, ev := range events {
				bb.events = append(bb.events, &Event{
					BlockNumber: bb.blockNumber,
					Index:       uint32(len(bb.events)),
					BlockTime:   bb.blockTime,
					TxID:        txID,
					TxOrigin:    txOrigin,
					ClauseIndex: clauseIndex,
					Contract:    ev.Address,
					Name:        ev.Name,
					Account:     ev.Account,
					Ref:         ev.Ref,
					Amount:      ev.Amount,
					Data:        ev.Data,
				})
			}
			return bb
		},
	}
}

func (bb *BlockBatch) Len() int {
	return len(bb.events)
}

func (bb *BlockBatch) Commit() error {
	if len(bb.events) == 0 {
		return nil
	}
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := bb.insert(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (bb *BlockBatch) insert(tx *sql.Tx) error {
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO event(seq, blockTime, txID, txOrigin, clauseIndex, contract, name, account, ref, amount, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range bb.events {
		seq, err := newSequence(ev.BlockNumber, ev.Index)
		if err != nil {
			return err
		}
		var amount, data any
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if len(ev.Data) > 0 {
			enc, err := json.Marshal(ev.Data)
			if err != nil {
				return err
			}
			data = string(enc)
		}
		var account, ref []byte
		if !ev.Account.IsZero() {
			account = ev.Account.Bytes()
		}
		if !ev.Ref.IsZero() {
			ref = ev.Ref.Bytes()
		}
		if _, err := stmt.Exec(
			seq,
			ev.BlockTime,
			ev.TxID.Bytes(),
			ev.TxOrigin.Bytes(),
			ev.ClauseIndex,
			ev.Contract.Bytes(),
			ev.Name,
			account,
			ref,
			amount,
			data,
		); err != nil {
			return err
		}
	}
	return nil
}
