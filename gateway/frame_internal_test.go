//go:build test_unit

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	frame, err := encodeFrame(PacketTypeMercuryReq, []byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xb2, 0x00, 0x03, 0x01, 0x02, 0x03}, frame)

	pkt, err := decodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, PacketTypeMercuryReq, pkt.Type)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, pkt.Payload)
}

func TestFrameEmptyPayload(t *testing.T) {
	frame, err := encodeFrame(PacketTypePing, nil)
	require.NoError(t, err)

	pkt, err := decodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, PacketTypePing, pkt.Type)
	assert.Empty(t, pkt.Payload)
}

func TestFrameTooBig(t *testing.T) {
	_, err := encodeFrame(PacketTypeMercuryReq, make([]byte, 0x10000))
	assert.Error(t, err)
}

func TestDecodeFrameInvalid(t *testing.T) {
	_, err := decodeFrame([]byte{0xb2})
	assert.Error(t, err)

	// announced length does not match the actual payload
	_, err = decodeFrame([]byte{0xb2, 0x00, 0x05, 0x01})
	assert.Error(t, err)
}

func TestWelcomeCodec(t *testing.T) {
	_, err := decodeWelcome(nil)
	assert.Error(t, err, "welcome without username must not authenticate")

	login := encodeLogin("alice", []byte("secret"))
	require.NotEmpty(t, login)

	// the login payload doubles as a welcome shape: field 1 is a string
	username, err := decodeWelcome(login)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestDecodeLoginFailure(t *testing.T) {
	assert.Equal(t, "unknown reason", decodeLoginFailure(nil))
	assert.Equal(t, "alice", decodeLoginFailure(encodeLogin("alice", nil)))
}
