// Package session ties the gateway connection and the mercury client
// together behind the narrow session contract the metadata layer consumes.
package session

import (
	"context"
	"fmt"
	"sync"

	canto "github.com/adaleix/go-canto"
	"github.com/adaleix/go-canto/gateway"
	"github.com/adaleix/go-canto/mercury"
)

type Session struct {
	log canto.Logger

	conn    *gateway.Conn
	mercury *mercury.Client

	country     string
	countryLock sync.RWMutex
}

func NewSession(opts *Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = &canto.NullLogger{}
	}

	if opts.Addr == nil {
		return nil, fmt.Errorf("missing gateway address")
	}

	var username string
	var authData []byte
	switch creds := opts.Credentials.(type) {
	case TokenCredentials:
		username, authData = creds.Username, []byte(creds.Token)
	case StoredCredentials:
		username, authData = creds.Username, creds.Data
	default:
		return nil, fmt.Errorf("unknown credentials: %T", opts.Credentials)
	}

	s := &Session{log: log, conn: gateway.NewConn(opts.Addr)}

	if err := s.conn.Connect(context.Background(), username, authData); err != nil {
		return nil, fmt.Errorf("failed connecting to gateway: %w", err)
	}

	s.mercury = mercury.NewClient(log, s.conn)

	// the gateway announces the listener country shortly after login
	go s.watchCountry()

	return s, nil
}

func (s *Session) watchCountry() {
	for pkt := range s.conn.Receive(gateway.PacketTypeCountryCode) {
		if len(pkt.Payload) != 2 {
			s.log.Warnf("received invalid country code: %x", pkt.Payload)
			continue
		}

		s.countryLock.Lock()
		s.country = string(pkt.Payload)
		s.countryLock.Unlock()

		s.log.Debugf("listener country is %s", pkt.Payload)
	}
}

// Connected returns a handle performing mercury calls on this session, or
// canto.ErrNoSession if the gateway is not authenticated.
func (s *Session) Connected() (canto.ConnectedSession, error) {
	if !s.conn.Authenticated() {
		return nil, canto.ErrNoSession
	}

	return &connectedSession{s}, nil
}

type connectedSession struct {
	sess *Session
}

func (c *connectedSession) GetMercuryBytes(ctx context.Context, uri string) ([]byte, error) {
	return c.sess.mercury.Request(ctx, "GET", uri, nil, nil)
}

func (s *Session) Close() {
	s.mercury.Close()
	s.conn.Close()
}
