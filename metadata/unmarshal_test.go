//go:build test_unit

package metadata_test

import (
	"testing"

	"github.com/adaleix/go-canto/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendBytesField(b []byte, num protowire.Number, val []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, val)
}

func appendStringField(b []byte, num protowire.Number, val string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, val)
}

func appendVarintField(b []byte, num protowire.Number, val uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, val)
}

func buildAudioFile(fileId []byte, format metadata.AudioFormat) []byte {
	var b []byte
	b = appendBytesField(b, 1, fileId)
	b = appendVarintField(b, 2, uint64(format))
	return b
}

func buildRestriction(allowed, forbidden *string) []byte {
	var b []byte
	if allowed != nil {
		b = appendStringField(b, 2, *allowed)
	}
	if forbidden != nil {
		b = appendStringField(b, 3, *forbidden)
	}
	return b
}

func TestUnmarshalTrack(t *testing.T) {
	allowed := "USGB"

	var b []byte
	b = appendBytesField(b, 1, []byte{0xde, 0xad})
	b = appendStringField(b, 2, "Watermusic")
	b = appendVarintField(b, 7, protowire.EncodeZigZag(215000))
	b = appendVarintField(b, 9, 1)
	b = appendBytesField(b, 11, buildRestriction(&allowed, nil))
	b = appendBytesField(b, 12, buildAudioFile([]byte{0xca, 0xfe}, metadata.FormatOggVorbis320))

	// one alternative carrying only gid and restrictions
	var alt []byte
	alt = appendBytesField(alt, 1, []byte{0xbe, 0xef})
	alt = appendBytesField(alt, 11, buildRestriction(nil, &allowed))
	b = appendBytesField(b, 13, alt)

	track, err := metadata.UnmarshalTrack(b)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xde, 0xad}, track.Gid)
	require.NotNil(t, track.Name)
	assert.Equal(t, "Watermusic", *track.Name)
	require.NotNil(t, track.Duration)
	assert.Equal(t, int32(215000), *track.Duration)
	require.NotNil(t, track.Explicit)
	assert.True(t, *track.Explicit)

	require.Len(t, track.Restrictions, 1)
	require.NotNil(t, track.Restrictions[0].CountriesAllowed)
	assert.Equal(t, "USGB", *track.Restrictions[0].CountriesAllowed)
	assert.Nil(t, track.Restrictions[0].CountriesForbidden)

	require.Len(t, track.Files, 1)
	assert.Equal(t, []byte{0xca, 0xfe}, track.Files[0].FileId)
	require.NotNil(t, track.Files[0].Format)
	assert.Equal(t, metadata.FormatOggVorbis320, *track.Files[0].Format)

	require.Len(t, track.Alternatives, 1)
	assert.Equal(t, []byte{0xbe, 0xef}, track.Alternatives[0].Gid)
	require.Len(t, track.Alternatives[0].Restrictions, 1)
	require.NotNil(t, track.Alternatives[0].Restrictions[0].CountriesForbidden)
	assert.Equal(t, "USGB", *track.Alternatives[0].Restrictions[0].CountriesForbidden)
}

func TestUnmarshalTrackEmptyPayload(t *testing.T) {
	track, err := metadata.UnmarshalTrack(nil)
	require.NoError(t, err)

	// every field is optional and absent
	assert.Nil(t, track.Gid)
	assert.Nil(t, track.Name)
	assert.Nil(t, track.Duration)
	assert.Empty(t, track.Files)
	assert.Empty(t, track.Restrictions)
	assert.Empty(t, track.Alternatives)
}

func TestUnmarshalTrackPresentEmptyAllowedList(t *testing.T) {
	empty := ""

	var b []byte
	b = appendBytesField(b, 11, buildRestriction(&empty, nil))

	track, err := metadata.UnmarshalTrack(b)
	require.NoError(t, err)

	// present-but-empty must survive decoding, it is the restrict-everywhere sentinel
	require.Len(t, track.Restrictions, 1)
	require.NotNil(t, track.Restrictions[0].CountriesAllowed)
	assert.Empty(t, *track.Restrictions[0].CountriesAllowed)
}

func TestUnmarshalTrackSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = appendBytesField(b, 1, []byte{0x01})
	b = appendVarintField(b, 200, 12345)
	b = appendStringField(b, 201, "ignored")
	b = appendStringField(b, 2, "Named")

	track, err := metadata.UnmarshalTrack(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, track.Gid)
	require.NotNil(t, track.Name)
	assert.Equal(t, "Named", *track.Name)
}

func TestUnmarshalTrackMalformed(t *testing.T) {
	// a bytes field announcing more data than available
	b := []byte{0x0a, 0xff}
	_, err := metadata.UnmarshalTrack(b)
	assert.Error(t, err)
}

func TestUnmarshalAlbum(t *testing.T) {
	forbidden := "DE"

	var b []byte
	b = appendBytesField(b, 1, []byte{0x42})
	b = appendStringField(b, 2, "Suites")
	b = appendBytesField(b, 14, buildRestriction(nil, &forbidden))

	album, err := metadata.UnmarshalAlbum(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, album.Gid)
	require.NotNil(t, album.Name)
	assert.Equal(t, "Suites", *album.Name)
	require.Len(t, album.Restrictions, 1)
}
