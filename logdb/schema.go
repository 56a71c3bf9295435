// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// eventTableSchema creates the event table. seq aliases the sqlite rowid,
// writes keyed by it stay idempotent.
const eventTableSchema = `
create table if not exists event (
	seq integer primary key,
	ts integer not null,
	kind text not null,
	assetID blob(32),
	owner blob(20),
	amount blob,
	segments blob
);

CREATE INDEX if not exists kindIndex on event(kind);
CREATE INDEX if not exists assetIndex on event(assetID);
CREATE INDEX if not exists ownerIndex on event(owner);
CREATE INDEX if not exists tsIndex on event(ts);
`
