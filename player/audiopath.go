package player

import (
	"time"

	canto "github.com/adaleix/go-canto"
	"github.com/adaleix/go-canto/metadata"
)

// AudioPath is a fully resolved playable descriptor. All four fields are
// always populated, downstream consumers never need to null-check it.
type AudioPath struct {
	ItemId   canto.ItemId
	FileId   canto.FileId
	Format   metadata.AudioFormat
	Duration time.Duration
}

// ToAudioPath picks the track file variant best matching preferredBitrate
// and returns the resolved descriptor. Selection priority is the order of
// CompatibleFormats, not the order the variants appear on the track: for
// each acceptable format in turn, the first file with that exact format
// wins. It returns nil, never a partial value, when no variant matches or
// when the track gid, the file id or the duration is absent.
//
// Restrictions are not consulted here, callers compose that step
// separately (TrackIsRestricted, FindAllowedAlternative, re-fetch).
func ToAudioPath(track *metadata.Track, preferredBitrate int) *AudioPath {
	var file *metadata.AudioFile
	for _, format := range CompatibleFormats(preferredBitrate) {
		for _, f := range track.Files {
			if f.Format != nil && *f.Format == format {
				file = f
				break
			}
		}
		if file != nil {
			break
		}
	}

	if file == nil || file.Format == nil {
		return nil
	}

	itemId, ok := canto.ItemIdFromRaw(track.Gid, canto.ItemIdTypeTrack)
	if !ok {
		return nil
	}

	fileId, ok := canto.FileIdFromRaw(file.FileId)
	if !ok {
		return nil
	}

	if track.Duration == nil {
		return nil
	}

	return &AudioPath{
		ItemId:   itemId,
		FileId:   fileId,
		Format:   *file.Format,
		Duration: time.Duration(*track.Duration) * time.Millisecond,
	}
}
