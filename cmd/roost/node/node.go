// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/roostlabs/roost/co"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/vault"
)

var logger = log.WithContext("pkg", "node")

const clockOffsetTolerance = 30 * time.Second

// Node keeps a running ledger healthy. It watches the journal, reports
// vault statistics and checks the host clock against NTP.
type Node struct {
	goes   co.Goes
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Node {
	return &Node{ledger: l}
}

// Run blocks until ctx is done and all background loops have drained.
func (n *Node) Run(ctx context.Context) error {
	defer n.goes.Wait()

	n.goes.Go(func() { n.houseKeeping(ctx) })

	return nil
}

func (n *Node) houseKeeping(ctx context.Context) {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	journalTicker := n.ledger.NewTicker()
	statsTicker := time.NewTicker(time.Minute)
	clockSyncTicker := time.NewTicker(10 * time.Minute)

	defer func() {
		statsTicker.Stop()
		clockSyncTicker.Stop()
	}()

	go checkClockOffset()
	n.reportHead()

	for {
		select {
		case <-ctx.Done():
			return
		case <-journalTicker.C():
			n.reportHead()
		case <-statsTicker.C:
			n.reportStats()
		case <-clockSyncTicker.C:
			go checkClockOffset()
		}
	}
}

func (n *Node) reportHead() {
	head := n.ledger.HeadSeq()
	metricJournalHead().Set(int64(head))

	entry, err := n.ledger.Entry(head)
	if err != nil {
		logger.Error("failed to read journal head", "err", err)
		return
	}
	logger.Info(fmt.Sprintf("journal extended (#%v)", entry.Seq),
		"kind", entry.Kind,
		"asset", entry.AssetID.AbbrevString(),
		"t", time.Unix(int64(entry.Time), 0),
	)
}

func (n *Node) reportStats() {
	var staked *big.Int
	if err := n.ledger.ReadVault(func(v *vault.Vault, _ uint64) error {
		total, err := v.TotalStaked()
		if err != nil {
			return err
		}
		staked = total
		return nil
	}); err != nil {
		logger.Warn("failed to read vault stats", "err", err)
		return
	}
	metricStakedAssets().Set(staked.Int64())
	logger.Debug("vault stats", "staked", staked)
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > clockOffsetTolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
