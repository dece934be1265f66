package metadata

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The schema ships no generated code, messages are decoded by hand from the
// proto wire format. Unknown fields are skipped so schema additions on the
// service side do not break decoding.

// UnmarshalTrack decodes a track metadata response payload.
func UnmarshalTrack(payload []byte) (*Track, error) {
	track := new(Track)
	if err := unmarshalTrack(payload, track); err != nil {
		return nil, fmt.Errorf("failed unmarshalling track: %w", err)
	}

	return track, nil
}

// UnmarshalAlbum decodes an album metadata response payload.
func UnmarshalAlbum(payload []byte) (*Album, error) {
	album := new(Album)
	if err := unmarshalAlbum(payload, album); err != nil {
		return nil, fmt.Errorf("failed unmarshalling album: %w", err)
	}

	return album, nil
}

func unmarshalTrack(b []byte, track *Track) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			track.Gid = append([]byte(nil), val...)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			track.Name = &val
			b = b[n:]
		case num == 7 && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			duration := int32(protowire.DecodeZigZag(val))
			track.Duration = &duration
			b = b[n:]
		case num == 8 && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			popularity := int32(protowire.DecodeZigZag(val))
			track.Popularity = &popularity
			b = b[n:]
		case num == 9 && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			explicit := val != 0
			track.Explicit = &explicit
			b = b[n:]
		case num == 11 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			restriction := new(Restriction)
			if err := unmarshalRestriction(val, restriction); err != nil {
				return err
			}
			track.Restrictions = append(track.Restrictions, restriction)
			b = b[n:]
		case num == 12 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			file := new(AudioFile)
			if err := unmarshalAudioFile(val, file); err != nil {
				return err
			}
			track.Files = append(track.Files, file)
			b = b[n:]
		case num == 13 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			alternative := new(Track)
			if err := unmarshalTrack(val, alternative); err != nil {
				return err
			}
			track.Alternatives = append(track.Alternatives, alternative)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return nil
}

func unmarshalRestriction(b []byte, restriction *Restriction) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 2 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			restriction.CountriesAllowed = &val
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			restriction.CountriesForbidden = &val
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return nil
}

func unmarshalAudioFile(b []byte, file *AudioFile) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			file.FileId = append([]byte(nil), val...)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			format := AudioFormat(val)
			file.Format = &format
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return nil
}

func unmarshalAlbum(b []byte, album *Album) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			album.Gid = append([]byte(nil), val...)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			val, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			album.Name = &val
			b = b[n:]
		case num == 14 && typ == protowire.BytesType:
			val, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			restriction := new(Restriction)
			if err := unmarshalRestriction(val, restriction); err != nil {
				return err
			}
			album.Restrictions = append(album.Restrictions, restriction)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return nil
}
