package gateway

import (
	"context"
	"fmt"
)

type PacketType byte

const (
	PacketTypePing         PacketType = 0x04
	PacketTypeCountryCode  PacketType = 0x1b
	PacketTypePong         PacketType = 0x49
	PacketTypeLogin        PacketType = 0xab
	PacketTypeLoginOk      PacketType = 0xac
	PacketTypeLoginFailed  PacketType = 0xad
	PacketTypeMercuryReq   PacketType = 0xb2
	PacketTypeMercurySub   PacketType = 0xb3
	PacketTypeMercuryUnsub PacketType = 0xb4
	PacketTypeMercuryEvent PacketType = 0xb5
)

func (t PacketType) String() string {
	switch t {
	case PacketTypePing:
		return "Ping"
	case PacketTypeCountryCode:
		return "CountryCode"
	case PacketTypePong:
		return "Pong"
	case PacketTypeLogin:
		return "Login"
	case PacketTypeLoginOk:
		return "LoginOk"
	case PacketTypeLoginFailed:
		return "LoginFailed"
	case PacketTypeMercuryReq:
		return "MercuryReq"
	case PacketTypeMercurySub:
		return "MercurySub"
	case PacketTypeMercuryUnsub:
		return "MercuryUnsub"
	case PacketTypeMercuryEvent:
		return "MercuryEvent"
	default:
		return fmt.Sprintf("PacketType(%#02x)", byte(t))
	}
}

type Packet struct {
	Type    PacketType
	Payload []byte
}

// Transport is the packet-level contract consumed by the mercury client.
type Transport interface {
	// Receive registers and returns a channel receiving all packets of the
	// given types.
	Receive(types ...PacketType) <-chan Packet
	// Send writes one packet to the gateway.
	Send(ctx context.Context, pktType PacketType, payload []byte) error
}
