package gateway

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	canto "github.com/adaleix/go-canto"
	"google.golang.org/protobuf/encoding/protowire"
)

// Frames are one packet each: a type byte, a big-endian u16 payload length
// and the payload itself.

func encodeFrame(pktType PacketType, payload []byte) ([]byte, error) {
	if len(payload) > math.MaxUint16 {
		return nil, fmt.Errorf("payload too big: %d", len(payload))
	}

	frame := make([]byte, 1+2+len(payload))
	frame[0] = byte(pktType)
	binary.BigEndian.PutUint16(frame[1:3], uint16(len(payload)))
	copy(frame[3:], payload)
	return frame, nil
}

func decodeFrame(frame []byte) (Packet, error) {
	if len(frame) < 3 {
		return Packet{}, fmt.Errorf("frame too short: %d", len(frame))
	}

	length := binary.BigEndian.Uint16(frame[1:3])
	if int(length) != len(frame)-3 {
		return Packet{}, fmt.Errorf("invalid frame payload length: %d != %d", length, len(frame)-3)
	}

	return Packet{Type: PacketType(frame[0]), Payload: frame[3:]}, nil
}

func encodeLogin(username string, authData []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, username)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, authData)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, canto.VersionString())
	return b
}

func decodeWelcome(b []byte) (string, error) {
	var username string
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", protowire.ParseError(n)
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", protowire.ParseError(n)
			}
			username = val
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return "", protowire.ParseError(n)
		}
		b = b[n:]
	}

	if len(username) == 0 {
		return "", errors.New("welcome packet without canonical username")
	}
	return username, nil
}

func decodeLoginFailure(b []byte) string {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "malformed failure packet"
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return "malformed failure packet"
			}
			return val
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return "malformed failure packet"
		}
		b = b[n:]
	}

	return "unknown reason"
}
