// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roostclient is the typed client for the roost node API. It wraps
// the HTTP endpoints and the websocket journal stream behind one facade.
package roostclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/api/assets"
	"github.com/roostlabs/roost/api/events"
	"github.com/roostlabs/roost/api/rewards"
	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/api/stakes"
	"github.com/roostlabs/roost/api/subscriptions"
	"github.com/roostlabs/roost/health"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/roostclient/common"
	"github.com/roostlabs/roost/roostclient/httpclient"
	"github.com/roostlabs/roost/roostclient/wsclient"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

type Option func(*options)

type options struct {
	timeout    time.Duration
	httpClient *http.Client
}

func applyOptions(opts []Option) *options {
	options := &options{
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(options)
	}
	if options.timeout > 0 {
		// leave the caller's client untouched
		client := *options.httpClient
		client.Timeout = options.timeout
		options.httpClient = &client
	}
	return options
}

// Timeout bounds every request made through the client.
func Timeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// HTTPClient swaps the underlying http client.
func HTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func New(url string, opts ...Option) *Client {
	options := applyOptions(opts)
	return &Client{
		httpConn: httpclient.NewWithHTTP(url, options.httpClient),
	}
}

func NewWithWS(url string, opts ...Option) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	options := applyOptions(opts)
	return &Client{
		httpConn: httpclient.NewWithHTTP(url, options.httpClient),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

// Stake retrieves the custody record of an asset.
func (c *Client) Stake(id *roost.Bytes32) (*stakes.Stake, error) {
	return c.httpConn.GetStake(id)
}

// DepositStake locks an asset into vault custody on behalf of the caller.
func (c *Client) DepositStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	return c.httpConn.DepositStake(caller, id)
}

// SettleStake mints the rewards accrued by the caller's staked asset.
func (c *Client) SettleStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	return c.httpConn.SettleStake(caller, id)
}

// WithdrawStake settles and returns the caller's staked asset.
func (c *Client) WithdrawStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	return c.httpConn.WithdrawStake(caller, id)
}

// Schedules retrieves the installed accrual schedule.
func (c *Client) Schedules() ([]schedules.JSONSegment, error) {
	return c.httpConn.GetSchedule()
}

// ScheduleCount retrieves the number of configured schedule segments.
func (c *Client) ScheduleCount() (uint32, error) {
	return c.httpConn.GetScheduleCount()
}

// FilterEvents filters journal events based on the provided event filter.
func (c *Client) FilterEvents(req *events.EventFilter) ([]events.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

// RewardBalance retrieves the reward balance of the given address.
func (c *Client) RewardBalance(addr *roost.Address) (*rewards.Balance, error) {
	return c.httpConn.GetRewardBalance(addr)
}

// RewardSupply retrieves the total supply of minted rewards.
func (c *Client) RewardSupply() (*math.HexOrDecimal256, error) {
	return c.httpConn.GetRewardSupply()
}

// Asset retrieves the mint and custody status of an asset.
func (c *Client) Asset(id *roost.Bytes32) (*assets.Asset, error) {
	return c.httpConn.GetAsset(id)
}

// AssetOwner resolves the current owner of an asset. The vault address
// shows up as the owner while the asset is staked.
func (c *Client) AssetOwner(id *roost.Bytes32) (*roost.Address, error) {
	asset, err := c.httpConn.GetAsset(id)
	if err != nil {
		return nil, err
	}
	if !asset.Minted {
		return nil, common.ErrNotFound
	}
	return asset.Owner, nil
}

// TotalAssets retrieves the number of minted assets.
func (c *Client) TotalAssets() (*math.HexOrDecimal256, error) {
	return c.httpConn.GetTotalAssets()
}

// Health retrieves the node health status.
func (c *Client) Health() (*health.Status, error) {
	return c.httpConn.GetHealth()
}

// SubscribeLedger streams journal entries starting at the given sequence
// number. A nil position tails the stream.
func (c *Client) SubscribeLedger(pos *uint64) (<-chan common.EventWrapper[*subscriptions.LedgerMessage], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeLedger(pos)
}
