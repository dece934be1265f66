//go:build test_unit

package go_canto_test

import (
	"testing"

	canto "github.com/adaleix/go-canto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestItemIdFromRaw(t *testing.T) {
	id, ok := canto.ItemIdFromRaw([]byte{0xde, 0xad, 0xbe, 0xef}, canto.ItemIdTypeTrack)
	require.True(t, ok)
	assert.Equal(t, canto.ItemIdTypeTrack, id.Type())
	assert.Equal(t, "deadbeef", id.Hex())

	_, ok = canto.ItemIdFromRaw(nil, canto.ItemIdTypeTrack)
	assert.False(t, ok)

	_, ok = canto.ItemIdFromRaw([]byte{}, canto.ItemIdTypeAlbum)
	assert.False(t, ok)
}

func TestItemIdHexDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		raw := make([]byte, 16)
		_, _ = rng.Read(raw)

		a, ok := canto.ItemIdFromRaw(raw, canto.ItemIdTypeTrack)
		require.True(t, ok)
		b, ok := canto.ItemIdFromRaw(raw, canto.ItemIdTypeAlbum)
		require.True(t, ok)

		// same raw bytes, same rendering, regardless of type
		assert.Equal(t, a.Hex(), b.Hex())
		assert.Len(t, a.Hex(), 32)

		seen[a.Hex()] = struct{}{}
	}

	// distinct raw bytes, distinct renderings
	assert.Len(t, seen, 100)
}

func TestItemIdImmutable(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	id, ok := canto.ItemIdFromRaw(raw, canto.ItemIdTypeTrack)
	require.True(t, ok)

	raw[0] = 0xff
	assert.Equal(t, "01020304", id.Hex())
}

func TestItemIdUriRoundTrip(t *testing.T) {
	raw := make([]byte, 16)
	rng := rand.New(rand.NewSource(7))
	_, _ = rng.Read(raw)

	id, ok := canto.ItemIdFromRaw(raw, canto.ItemIdTypeTrack)
	require.True(t, ok)

	parsed, err := canto.ItemIdFromUri(id.Uri())
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), parsed.Hex())
	assert.Equal(t, canto.ItemIdTypeTrack, parsed.Type())

	_, err = canto.ItemIdFromUri("canto:track:!!!")
	assert.Error(t, err)
}

func TestItemIdFromUriOverflow(t *testing.T) {
	// 22 base62 chars can encode more than 128 bits, which no raw id has
	_, err := canto.ItemIdFromUri("canto:track:zzzzzzzzzzzzzzzzzzzzzz")
	assert.Error(t, err)

	// the largest 128-bit value still parses
	id, err := canto.ItemIdFromUri("canto:track:7N42dgm5tFLK9N8MT7fHC7")
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffffffffffffffffffff", id.Hex())
}

func TestFileIdFromRaw(t *testing.T) {
	id, ok := canto.FileIdFromRaw([]byte{0xca, 0xfe})
	require.True(t, ok)
	assert.Equal(t, "cafe", id.Hex())

	_, ok = canto.FileIdFromRaw(nil)
	assert.False(t, ok)
}
