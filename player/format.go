package player

import (
	"github.com/adaleix/go-canto/metadata"
)

// FormatBitrate returns the nominal bitrate in kbit/s of the streaming
// vorbis tiers, or 0 for anything else.
func FormatBitrate(format metadata.AudioFormat) int {
	switch format {
	case metadata.FormatOggVorbis96:
		return 96
	case metadata.FormatOggVorbis160:
		return 160
	case metadata.FormatOggVorbis320:
		return 320
	default:
		return 0
	}
}

// CompatibleFormats returns the formats acceptable for the given preferred
// bitrate, most preferred first. The order of the returned slice is the
// selection priority used by ToAudioPath.
func CompatibleFormats(preferredBitrate int) []metadata.AudioFormat {
	switch preferredBitrate {
	case 96:
		return []metadata.AudioFormat{
			metadata.FormatOggVorbis96,
			metadata.FormatOggVorbis160,
			metadata.FormatOggVorbis320,
		}
	case 160:
		return []metadata.AudioFormat{
			metadata.FormatOggVorbis160,
			metadata.FormatOggVorbis96,
			metadata.FormatOggVorbis320,
		}
	case 320:
		return []metadata.AudioFormat{
			metadata.FormatOggVorbis320,
			metadata.FormatOggVorbis160,
			metadata.FormatOggVorbis96,
		}
	default:
		return nil
	}
}
