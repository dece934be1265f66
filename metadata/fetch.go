package metadata

import (
	"context"
	"fmt"

	canto "github.com/adaleix/go-canto"
)

// Kind describes one addressable kind of catalog metadata: it owns the
// hermes address template for that kind and the decoding of its response
// payload. Adding a new metadata kind means adding a new Kind, existing
// ones are never touched.
type Kind[T any] interface {
	Uri(id canto.ItemId) string
	Unmarshal(payload []byte) (*T, error)
}

type TrackKind struct{}

func (TrackKind) Uri(id canto.ItemId) string {
	return fmt.Sprintf("hm://metadata/3/track/%s", id.Hex())
}

func (TrackKind) Unmarshal(payload []byte) (*Track, error) {
	return UnmarshalTrack(payload)
}

type AlbumKind struct{}

func (AlbumKind) Uri(id canto.ItemId) string {
	return fmt.Sprintf("hm://metadata/3/album/%s", id.Hex())
}

func (AlbumKind) Unmarshal(payload []byte) (*Album, error) {
	return UnmarshalAlbum(payload)
}

// Fetch performs one blocking metadata request for the given id. It fails
// with canto.ErrNoSession when no session is authenticated, propagates
// transport errors unmodified and wraps undecodable responses in a
// canto.ProtocolError. It never retries.
func Fetch[T any](ctx context.Context, sess canto.Session, kind Kind[T], id canto.ItemId) (*T, error) {
	conn, err := sess.Connected()
	if err != nil {
		return nil, err
	}

	uri := kind.Uri(id)
	payload, err := conn.GetMercuryBytes(ctx, uri)
	if err != nil {
		return nil, err
	}

	msg, err := kind.Unmarshal(payload)
	if err != nil {
		return nil, &canto.ProtocolError{Uri: uri, Err: err}
	}

	return msg, nil
}

func FetchTrack(ctx context.Context, sess canto.Session, id canto.ItemId) (*Track, error) {
	return Fetch[Track](ctx, sess, TrackKind{}, id)
}

func FetchAlbum(ctx context.Context, sess canto.Session, id canto.ItemId) (*Album, error) {
	return Fetch[Album](ctx, sess, AlbumKind{}, id)
}
