// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq packs the block number and the event index within the block, and orders events.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB NOT NULL,
	txOrigin BLOB NOT NULL,
	clauseIndex INTEGER NOT NULL,
	contract BLOB NOT NULL,
	name TEXT NOT NULL,
	account BLOB,
	ref BLOB,
	amount TEXT,
	data TEXT
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(contract, name);
CREATE INDEX IF NOT EXISTS event_i1 ON event(account);
CREATE INDEX IF NOT EXISTS event_i2 ON event(ref);
CREATE INDEX IF NOT EXISTS event_i3 ON event(txID);
CREATE INDEX IF NOT EXISTS event_i4 ON event(blockTime);
`
