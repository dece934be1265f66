package session

import "github.com/adaleix/go-canto/mercury"

// Username returns the canonical username the gateway confirmed at login.
func (s *Session) Username() string {
	return s.conn.Username()
}

// Country returns the listener country announced by the gateway, or the
// empty string if none was received yet.
func (s *Session) Country() string {
	s.countryLock.RLock()
	defer s.countryLock.RUnlock()
	return s.country
}

func (s *Session) Mercury() *mercury.Client {
	return s.mercury
}
