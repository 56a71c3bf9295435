// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var logger = log.WithContext("pkg", "subscriptions")

type msgReader interface {
	Read() (msgs []interface{}, hasMore bool, err error)
}

// Subscriptions pushes committed journal entries to websocket clients.
type Subscriptions struct {
	ledger   *ledger.Ledger
	upgrader *websocket.Upgrader
	cache    *messageCache[LedgerMessage]
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(l *ledger.Ledger, allowedOrigins []string, cacheSize uint32) *Subscriptions {
	return &Subscriptions{
		ledger: l,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		cache: newMessageCache[LedgerMessage](cacheSize),
		done:  make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeLedger(w http.ResponseWriter, req *http.Request) error {
	head := s.ledger.HeadSeq()
	position := head + 1
	if posStr := req.URL.Query().Get("pos"); posStr != "" {
		pos, err := strconv.ParseUint(posStr, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "pos"))
		}
		if pos > head+1 {
			return utils.BadRequest(errors.New("pos: beyond the journal head"))
		}
		position = pos
	}
	reader := newEntryReader(s.ledger, position, s.cache)

	conn, closed, err := s.setupConn(w, req)
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return err
	}
	defer func() { s.closeConn(conn, err) }()

	err = s.pipe(conn, reader, closed)
	if err != nil {
		logger.Debug("error in websocket pipe", "err", err)
	}
	return nil
}

// setupConn upgrades the connection and starts a read loop that watches
// for the client going away.
func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}
	closed := make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)

		conn.SetReadLimit(maxMessageSize)
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("failed to write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("failed to close the connection", "err", err)
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := s.ledger.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	for {
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return fmt.Errorf("failed to read messages: %w", err)
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
		} else {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			case <-pingTicker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return err
				}
			case <-ticker.C():
			}
		}
	}
}

// Close initiates the shutdown of all active subscriptions.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/ledger").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeLedger))
}
