package session

import (
	canto "github.com/adaleix/go-canto"
)

type Options struct {
	// Addr returns the gateway address to connect to, required.
	Addr canto.GetAddressFunc
	// Credentials is the credentials to be used for authentication, required.
	Credentials any

	// Log is the logger to use, leave nil to disable logging.
	Log canto.Logger
}

type TokenCredentials struct {
	Username string
	Token    string
}

type StoredCredentials struct {
	Username string
	Data     []byte
}
