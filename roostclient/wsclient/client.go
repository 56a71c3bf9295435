// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/roostlabs/roost/api/subscriptions"
	"github.com/roostlabs/roost/roostclient/common"
)

// Client subscribes to the journal stream of a roost node.
type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeLedger streams journal entries starting at the given sequence
// number. A nil position tails the stream from the entry after the head.
func (c *Client) SubscribeLedger(pos *uint64) (<-chan common.EventWrapper[*subscriptions.LedgerMessage], error) {
	query := ""
	if pos != nil {
		query = "pos=" + strconv.FormatUint(*pos, 10)
	}
	conn, err := c.connect("/subscriptions/ledger", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[subscriptions.LedgerMessage](conn)
}

// subscribe creates a channel to handle new subscriptions
// It takes a websocket connection as an argument and returns a read-only channel for receiving messages of type T and an error if any occurs.
func subscribe[T any](conn *websocket.Conn) (<-chan common.EventWrapper[*T], error) {
	// Create a new channel for events
	eventChan := make(chan common.EventWrapper[*T])

	// Start a goroutine to handle receiving messages from the websocket connection
	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			// Read a JSON message from the websocket and unmarshal it into data
			err := conn.ReadJSON(&data)
			if err != nil {
				// Send an EventWrapper with the error to the channel
				eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}
				return
			}

			// Send the received data to the event channel
			eventChan <- common.EventWrapper[*T]{Data: &data}
		}
	}()

	// Return the event channel
	return eventChan, nil
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
