// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides the HTTP client used to talk to a roost node.
// It offers typed methods for stakes, schedules, assets, rewards and the
// event journal, plus raw escape hatches for everything else.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/api/assets"
	"github.com/roostlabs/roost/api/events"
	"github.com/roostlabs/roost/api/rewards"
	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/api/stakes"
	"github.com/roostlabs/roost/health"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/roostclient/common"
)

// Client communicates with a roost node over HTTP.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// GetStake retrieves the custody record for the given asset.
func (c *Client) GetStake(id *roost.Bytes32) (*stakes.Stake, error) {
	body, err := c.httpGET(c.url + "/stakes/" + id.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stake - %w", err)
	}

	var stake stakes.Stake
	if err = json.Unmarshal(body, &stake); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stake - %w", err)
	}

	return &stake, nil
}

// DepositStake locks an asset into vault custody on behalf of the caller.
func (c *Client) DepositStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	body, err := c.httpPOST(c.url+"/stakes", &stakes.DepositRequest{AssetID: id, Caller: caller})
	if err != nil {
		return nil, fmt.Errorf("unable to deposit stake - %w", err)
	}

	var receipt stakes.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}

	return &receipt, nil
}

// SettleStake mints the rewards accrued by the caller's staked asset.
func (c *Client) SettleStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	body, err := c.httpPOST(c.url+"/stakes/"+id.String()+"/settle", &stakes.CallerRequest{Caller: caller})
	if err != nil {
		return nil, fmt.Errorf("unable to settle stake - %w", err)
	}

	var receipt stakes.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}

	return &receipt, nil
}

// WithdrawStake settles and returns the caller's staked asset.
func (c *Client) WithdrawStake(caller roost.Address, id roost.Bytes32) (*stakes.Receipt, error) {
	body, err := c.httpPOST(c.url+"/stakes/"+id.String()+"/withdraw", &stakes.CallerRequest{Caller: caller})
	if err != nil {
		return nil, fmt.Errorf("unable to withdraw stake - %w", err)
	}

	var receipt stakes.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}

	return &receipt, nil
}

// GetSchedule retrieves the installed accrual schedule.
func (c *Client) GetSchedule() ([]schedules.JSONSegment, error) {
	body, err := c.httpGET(c.url + "/schedules")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve schedule - %w", err)
	}

	var segments []schedules.JSONSegment
	if err = json.Unmarshal(body, &segments); err != nil {
		return nil, fmt.Errorf("unable to unmarshal schedule - %w", err)
	}

	return segments, nil
}

// GetScheduleCount retrieves the number of configured schedule segments.
func (c *Client) GetScheduleCount() (uint32, error) {
	body, err := c.httpGET(c.url + "/schedules/count")
	if err != nil {
		return 0, fmt.Errorf("unable to retrieve schedule count - %w", err)
	}

	var res struct {
		Count uint32 `json:"count"`
	}
	if err = json.Unmarshal(body, &res); err != nil {
		return 0, fmt.Errorf("unable to unmarshal schedule count - %w", err)
	}

	return res.Count, nil
}

// GetAsset retrieves the mint and custody status of an asset.
func (c *Client) GetAsset(id *roost.Bytes32) (*assets.Asset, error) {
	body, err := c.httpGET(c.url + "/assets/" + id.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve asset - %w", err)
	}

	var asset assets.Asset
	if err = json.Unmarshal(body, &asset); err != nil {
		return nil, fmt.Errorf("unable to unmarshal asset - %w", err)
	}

	return &asset, nil
}

// GetTotalAssets retrieves the number of minted assets.
func (c *Client) GetTotalAssets() (*math.HexOrDecimal256, error) {
	body, err := c.httpGET(c.url + "/assets")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve total assets - %w", err)
	}

	var res struct {
		Total *math.HexOrDecimal256 `json:"total"`
	}
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal total assets - %w", err)
	}

	return res.Total, nil
}

// GetRewardBalance retrieves the reward balance of the given address.
func (c *Client) GetRewardBalance(addr *roost.Address) (*rewards.Balance, error) {
	body, err := c.httpGET(c.url + "/rewards/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward balance - %w", err)
	}

	var balance rewards.Balance
	if err = json.Unmarshal(body, &balance); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward balance - %w", err)
	}

	return &balance, nil
}

// GetRewardSupply retrieves the total supply of minted rewards.
func (c *Client) GetRewardSupply() (*math.HexOrDecimal256, error) {
	body, err := c.httpGET(c.url + "/rewards")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve reward supply - %w", err)
	}

	var res struct {
		TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
	}
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal reward supply - %w", err)
	}

	return res.TotalSupply, nil
}

// FilterEvents filters journal events based on the provided event filter.
func (c *Client) FilterEvents(req *events.EventFilter) ([]events.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/events", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var filteredEvents []events.FilteredEvent
	if err = json.Unmarshal(body, &filteredEvents); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}

	return filteredEvents, nil
}

// GetHealth retrieves the node health status. An unhealthy node still
// answers with its status, carried on a 503.
func (c *Client) GetHealth() (*health.Status, error) {
	body, statusCode, err := c.rawHTTPRequest(http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve health - %w", err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("unable to retrieve health - %w: %d", common.ErrNot200Status, statusCode)
	}

	var status health.Status
	if err = json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("unable to unmarshal health - %w", err)
	}

	return &status, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified URL with the provided data.
func (c *Client) RawHTTPPost(url string, calldata any) ([]byte, int, error) {
	var data []byte
	var err error

	if _, ok := calldata.([]byte); ok {
		data = calldata.([]byte)
	} else {
		data, err = json.Marshal(calldata)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.rawHTTPRequest(http.MethodPost, c.url+url, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified URL.
func (c *Client) RawHTTPGet(url string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+url, nil)
}

func (c *Client) httpGET(url string) ([]byte, error) {
	body, statusCode, err := c.rawHTTPRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return validateResponse(body, statusCode)
}

func (c *Client) httpPOST(url string, obj any) ([]byte, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	body, statusCode, err := c.rawHTTPRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	return validateResponse(body, statusCode)
}

func (c *Client) rawHTTPRequest(method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to create request - %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to perform request - %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("unable to read response body - %w", err)
	}

	return body, resp.StatusCode, nil
}

func validateResponse(body []byte, statusCode int) ([]byte, error) {
	if statusCode == http.StatusNotFound {
		return nil, common.ErrNotFound
	}
	if statusCode != http.StatusOK {
		// the node reports rule violations as plain text, keep it in the error
		return nil, fmt.Errorf("%w: %d %s", common.ErrNot200Status, statusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
