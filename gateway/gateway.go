// Package gateway implements the packet connection to the catalog gateway:
// typed binary frames over a websocket, with keepalive pings, packet-type
// dispatch and transparent reconnection.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	canto "github.com/adaleix/go-canto"
	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
	"nhooyr.io/websocket"
)

const (
	pingInterval = 30 * time.Second
	timeout      = 10 * time.Second
)

type Conn struct {
	addr canto.GetAddressFunc

	conn *websocket.Conn

	stop           bool
	pingTickerStop chan struct{}
	recvLoopStop   chan struct{}
	recvLoopOnce   sync.Once

	// unix nanos of the last received pong, shared between the recv loop
	// and the ping ticker
	lastPong atomic.Int64

	// connMu is held for writing when performing (re)connection and for reading when
	// sending on the conn. If it's not held, a valid connection is available.
	connMu sync.RWMutex

	recvChans     map[PacketType][]chan Packet
	recvChansLock sync.RWMutex

	authed   bool
	username string
	authData []byte
	authLock sync.RWMutex
}

func NewConn(addr canto.GetAddressFunc) *Conn {
	return &Conn{addr: addr, recvChans: make(map[PacketType][]chan Packet)}
}

// Connect dials the gateway and performs the login exchange. Once it
// returns successfully the connection is authenticated and the receive
// loop is running.
func (c *Conn) Connect(ctx context.Context, username string, authData []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil && !c.stop {
		log.Debugf("gateway connection already opened")
		return nil
	}

	if err := c.connect(ctx); err != nil {
		return err
	}

	if err := c.login(ctx, username, authData); err != nil {
		_ = c.conn.Close(websocket.StatusInternalError, "")
		c.conn = nil
		return err
	}

	c.startReceiving()
	return nil
}

func (c *Conn) connect(ctx context.Context) error {
	c.recvLoopStop = make(chan struct{}, 1)
	c.pingTickerStop = make(chan struct{}, 1)
	c.stop = false

	httpClient := &http.Client{Timeout: timeout}
	if proxyAddr := os.Getenv("CANTO_PROXY"); len(proxyAddr) > 0 {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed initializing proxy dialer: %w", err)
		}

		httpClient.Transport = &http.Transport{
			DialContext: func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	}

	addr := c.addr()
	if !strings.Contains(addr, "://") {
		addr = "wss://" + addr
	}

	conn, _, err := websocket.Dial(ctx, fmt.Sprintf("%s/gateway", addr), &websocket.DialOptions{
		HTTPHeader: http.Header{
			"User-Agent": []string{canto.UserAgent()},
		},
		HTTPClient: httpClient,
	})
	if err != nil {
		return err
	}

	c.conn = conn

	// remove the read limit
	c.conn.SetReadLimit(math.MaxUint32)

	log.Debugf("gateway connection opened")

	return nil
}

// login must be called with connMu held for writing and before the recv
// loop is started: the response packets are read synchronously here.
func (c *Conn) login(ctx context.Context, username string, authData []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.writePacket(ctx, PacketTypeLogin, encodeLogin(username, authData)); err != nil {
		return fmt.Errorf("failed sending login packet: %w", err)
	}

	for {
		pkt, err := c.readPacket(ctx)
		if err != nil {
			return fmt.Errorf("failed reading login response: %w", err)
		}

		switch pkt.Type {
		case PacketTypeLoginOk:
			canonical, err := decodeWelcome(pkt.Payload)
			if err != nil {
				return fmt.Errorf("failed decoding welcome packet: %w", err)
			}

			c.authLock.Lock()
			c.authed, c.username, c.authData = true, canonical, authData
			c.authLock.Unlock()

			log.Infof("authenticated as %s", canonical)
			return nil
		case PacketTypeLoginFailed:
			return fmt.Errorf("login failed: %s", decodeLoginFailure(pkt.Payload))
		default:
			log.Debugf("skipping %s packet during login", pkt.Type)
		}
	}
}

func (c *Conn) writePacket(ctx context.Context, pktType PacketType, payload []byte) error {
	frame, err := encodeFrame(pktType, payload)
	if err != nil {
		return err
	}

	return c.conn.Write(ctx, websocket.MessageBinary, frame)
}

func (c *Conn) readPacket(ctx context.Context) (Packet, error) {
	msgType, frame, err := c.conn.Read(ctx)
	if err != nil {
		return Packet{}, err
	} else if msgType != websocket.MessageBinary {
		return Packet{}, fmt.Errorf("unsupported message type: %v, len: %d", msgType, len(frame))
	}

	return decodeFrame(frame)
}

// Send writes one packet to the gateway.
func (c *Conn) Send(ctx context.Context, pktType PacketType, payload []byte) error {
	c.connMu.RLock()
	defer c.connMu.RUnlock()

	if c.conn == nil {
		return errors.New("gateway not connected")
	}

	return c.writePacket(ctx, pktType, payload)
}

// Receive registers and returns a channel receiving all packets of the given types.
func (c *Conn) Receive(types ...PacketType) <-chan Packet {
	ch := make(chan Packet)

	c.recvChansLock.Lock()
	for _, type_ := range types {
		c.recvChans[type_] = append(c.recvChans[type_], ch)
	}
	c.recvChansLock.Unlock()

	return ch
}

func (c *Conn) Authenticated() bool {
	c.authLock.RLock()
	defer c.authLock.RUnlock()
	return c.authed
}

// Username returns the canonical username confirmed by the gateway.
func (c *Conn) Username() string {
	c.authLock.RLock()
	defer c.authLock.RUnlock()
	return c.username
}

func (c *Conn) startReceiving() {
	c.recvLoopOnce.Do(func() {
		log.Debugf("starting gateway recv loop")
		go c.recvLoop()

		// set last pong in the future
		c.lastPong.Store(time.Now().Add(pingInterval).UnixNano())
		go c.pingTicker()
	})
}

func (c *Conn) recvLoop() {
loop:
	for {
		select {
		case <-c.recvLoopStop:
			break loop
		default:
			// no need to hold the connMu since reconnection happens in this routine
			pkt, err := c.readPacket(context.Background())

			// don't log closed error if we're stopping
			if c.stop && websocket.CloseStatus(err) == websocket.StatusGoingAway {
				log.Debugf("gateway connection closed")
				break loop
			} else if err != nil {
				log.WithError(err).Errorf("failed receiving gateway packet")
				break loop
			}

			switch pkt.Type {
			case PacketTypePing:
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				c.connMu.RLock()
				err := c.writePacket(ctx, PacketTypePong, nil)
				c.connMu.RUnlock()
				cancel()

				if err != nil {
					log.WithError(err).Warnf("failed sending gateway pong")
				}
			case PacketTypePong:
				c.lastPong.Store(time.Now().UnixNano())
				log.Debugf("received gateway pong")
			default:
				c.recvChansLock.RLock()
				chans := c.recvChans[pkt.Type]
				c.recvChansLock.RUnlock()

				if len(chans) == 0 {
					log.Debugf("skipping unhandled packet: %s", pkt.Type)
					continue
				}

				for _, ch := range chans {
					ch <- pkt
				}
			}
		}
	}

	// always close as we might end up here because of application errors
	_ = c.conn.Close(websocket.StatusInternalError, "")

	// if we shouldn't stop, try to reconnect
	if !c.stop {
		c.connMu.Lock()
		if err := backoff.Retry(c.reconnect, backoff.NewExponentialBackOff()); err != nil {
			log.WithError(err).Errorf("failed reconnecting gateway, bye bye")
			log.Exit(1)
		}
		c.connMu.Unlock()

		// reconnection was successful, do not close receivers
		return
	}

	// a channel may be registered under multiple packet types, close each once
	closed := make(map[chan Packet]struct{})

	c.recvChansLock.RLock()
	for _, chans := range c.recvChans {
		for _, ch := range chans {
			if _, ok := closed[ch]; ok {
				continue
			}

			closed[ch] = struct{}{}
			close(ch)
		}
	}
	c.recvChansLock.RUnlock()

	log.Debugf("gateway recv loop stopped")
}

func (c *Conn) reconnect() error {
	c.authLock.RLock()
	authed, username, authData := c.authed, c.username, c.authData
	c.authLock.RUnlock()

	if !authed {
		return backoff.Permanent(errors.New("cannot reconnect before login"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		return err
	}

	if err := c.login(ctx, username, authData); err != nil {
		return err
	}

	c.lastPong.Store(time.Now().UnixNano())

	// if we are here the recv loop has already died, restart it
	go c.recvLoop()

	log.Debugf("re-established gateway connection")
	return nil
}

func (c *Conn) pingTicker() {
	ticker := time.NewTicker(pingInterval)

loop:
	for {
		select {
		case <-c.pingTickerStop:
			break loop
		case <-ticker.C:
			lastPong := time.Unix(0, c.lastPong.Load())
			if time.Since(lastPong) > pingInterval+timeout {
				log.Errorf("did not receive last pong from gateway, %.0fs passed", time.Since(lastPong).Seconds())

				// closing the connection should make the read on the recv loop fail,
				// continue hoping for a new connection
				_ = c.conn.Close(websocket.StatusServiceRestart, "")
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			c.connMu.RLock()
			err := c.writePacket(ctx, PacketTypePing, nil)
			c.connMu.RUnlock()
			cancel()

			if err != nil {
				if c.stop {
					// break early without logging if we should stop
					break loop
				}

				log.WithError(err).Warnf("failed sending gateway ping")
				_ = c.conn.Close(websocket.StatusServiceRestart, "")
				continue
			}

			log.Debugf("sent gateway ping")
		}
	}

	ticker.Stop()
}

func (c *Conn) Close() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.stop = true

	if c.conn == nil {
		return
	}

	c.recvLoopStop <- struct{}{}
	c.pingTickerStop <- struct{}{}
	_ = c.conn.Close(websocket.StatusGoingAway, "")
}
