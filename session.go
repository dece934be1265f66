package go_canto

import "context"

// GetAddressFunc returns an address for an endpoint, possibly a different
// one on every call.
type GetAddressFunc func() string

// Session is the narrow contract through which the metadata layer reaches
// the remote catalog.
type Session interface {
	// Connected returns a handle on the currently authenticated session,
	// or ErrNoSession if there is none.
	Connected() (ConnectedSession, error)
}

// ConnectedSession performs keyed request/response calls against the
// remote catalog service.
type ConnectedSession interface {
	// GetMercuryBytes performs one GET request for the given hermes uri and
	// returns the raw response payload.
	GetMercuryBytes(ctx context.Context, uri string) ([]byte, error)
}
