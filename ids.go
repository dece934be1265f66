package go_canto

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var UriRegexp = regexp.MustCompile("^canto:([a-z]+):([0-9a-zA-Z]{21,22})$")

type ItemIdType string

const (
	ItemIdTypeTrack  ItemIdType = "track"
	ItemIdTypeAlbum  ItemIdType = "album"
	ItemIdTypeArtist ItemIdType = "artist"
)

// ItemId is an opaque, typed identifier for one catalog entity. It is a
// value type: the raw bytes are copied on construction and never mutated.
type ItemId struct {
	typ ItemIdType
	id  []byte
}

// ItemIdFromRaw wraps the given raw identifier bytes with a type tag.
// It reports false when raw is absent or empty.
func ItemIdFromRaw(raw []byte, typ ItemIdType) (ItemId, bool) {
	if len(raw) == 0 {
		return ItemId{}, false
	}

	id := make([]byte, len(raw))
	copy(id, raw)
	return ItemId{typ, id}, true
}

// ItemIdFromUri parses a "canto:<type>:<base62>" uri.
func ItemIdFromUri(uri string) (ItemId, error) {
	matches := UriRegexp.FindStringSubmatch(uri)
	if len(matches) == 0 {
		return ItemId{}, fmt.Errorf("invalid uri: %s", uri)
	}

	var i big.Int
	if _, ok := i.SetString(matches[2], 62); !ok || i.BitLen() > 128 {
		return ItemId{}, fmt.Errorf("invalid base62 id in uri: %s", uri)
	}

	return ItemId{ItemIdType(matches[1]), i.FillBytes(make([]byte, 16))}, nil
}

func (id ItemId) Type() ItemIdType {
	return id.typ
}

func (id ItemId) Raw() []byte {
	return id.id
}

// Hex is the canonical lowercase base16 rendering used verbatim in
// metadata request addresses.
func (id ItemId) Hex() string {
	return hex.EncodeToString(id.id)
}

func (id ItemId) Base62() string {
	s := new(big.Int).SetBytes(id.id).Text(62)
	if len(s) >= 22 {
		return s
	}
	return strings.Repeat("0", 22-len(s)) + s
}

func (id ItemId) Uri() string {
	return fmt.Sprintf("canto:%s:%s", id.typ, id.Base62())
}

func (id ItemId) String() string {
	return id.Uri()
}

// FileId is an opaque identifier for one encoded audio variant of a track.
type FileId struct {
	id []byte
}

// FileIdFromRaw wraps the given raw file identifier bytes, reporting false
// when raw is absent or empty.
func FileIdFromRaw(raw []byte) (FileId, bool) {
	if len(raw) == 0 {
		return FileId{}, false
	}

	id := make([]byte, len(raw))
	copy(id, raw)
	return FileId{id}, true
}

func (id FileId) Raw() []byte {
	return id.id
}

func (id FileId) Hex() string {
	return hex.EncodeToString(id.id)
}

func (id FileId) String() string {
	return id.Hex()
}
