// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/roostlabs/roost/ledger"
)

// pageSize bounds how many journal entries one Read pulls.
const pageSize = 256

type entryReader struct {
	ledger *ledger.Ledger
	next   uint64
	cache  *messageCache[LedgerMessage]
}

func newEntryReader(l *ledger.Ledger, position uint64, cache *messageCache[LedgerMessage]) *entryReader {
	return &entryReader{
		ledger: l,
		next:   position,
		cache:  cache,
	}
}

func (er *entryReader) Read() ([]interface{}, bool, error) {
	entries, err := er.ledger.Entries(er.next, pageSize)
	if err != nil {
		return nil, false, err
	}
	var msgs []interface{}
	for _, entry := range entries {
		msg, _, err := er.cache.GetOrAdd(entry.Seq, er.generateMessage(entry))
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	if len(entries) > 0 {
		er.next = entries[len(entries)-1].Seq + 1
	}
	return msgs, len(entries) > 0, nil
}

func (er *entryReader) generateMessage(entry *ledger.Entry) func() (LedgerMessage, error) {
	return func() (LedgerMessage, error) {
		return convertEntry(entry), nil
	}
}
