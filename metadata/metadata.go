// Package metadata holds the catalog wire messages and the capability to
// fetch them from the remote metadata service.
//
// The messages follow the upstream proto2 schema, so every field is
// optional: scalar fields are pointers (nil means the service omitted the
// field) and byte/slice fields are simply empty when absent.
package metadata

import "fmt"

type AudioFormat int32

const (
	FormatOggVorbis96  AudioFormat = 0
	FormatOggVorbis160 AudioFormat = 1
	FormatOggVorbis320 AudioFormat = 2
	FormatMp3_256      AudioFormat = 3
	FormatMp3_320      AudioFormat = 4
	FormatMp3_160      AudioFormat = 5
	FormatMp3_96       AudioFormat = 6
	FormatMp3_160Enc   AudioFormat = 7
	FormatAac24        AudioFormat = 8
	FormatAac48        AudioFormat = 9
	FormatFlacFlac     AudioFormat = 16
)

func (f AudioFormat) String() string {
	switch f {
	case FormatOggVorbis96:
		return "OGG_VORBIS_96"
	case FormatOggVorbis160:
		return "OGG_VORBIS_160"
	case FormatOggVorbis320:
		return "OGG_VORBIS_320"
	case FormatMp3_256:
		return "MP3_256"
	case FormatMp3_320:
		return "MP3_320"
	case FormatMp3_160:
		return "MP3_160"
	case FormatMp3_96:
		return "MP3_96"
	case FormatMp3_160Enc:
		return "MP3_160_ENC"
	case FormatAac24:
		return "AAC_24"
	case FormatAac48:
		return "AAC_48"
	case FormatFlacFlac:
		return "FLAC_FLAC"
	default:
		return fmt.Sprintf("AudioFormat(%d)", int32(f))
	}
}

// Restriction is one regional playability rule. The country lists are flat
// sequences of two-letter codes with no delimiter. Presence matters: an
// empty-but-present allowed list means no country is allowed at all.
type Restriction struct {
	CountriesAllowed   *string
	CountriesForbidden *string
}

// AudioFile describes one encoded variant of a track.
type AudioFile struct {
	FileId []byte
	Format *AudioFormat
}

// Track is the decoded metadata for one catalog track. Alternatives are
// Track-shaped but only their Gid and Restrictions are ever populated with
// meaningful data by the service.
type Track struct {
	Gid          []byte
	Name         *string
	Duration     *int32
	Popularity   *int32
	Explicit     *bool
	Restrictions []*Restriction
	Files        []*AudioFile
	Alternatives []*Track
}

// Album is the decoded metadata for one catalog album.
type Album struct {
	Gid          []byte
	Name         *string
	Restrictions []*Restriction
}
