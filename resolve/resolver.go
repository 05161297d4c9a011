package resolve

import (
	"math"

	"github.com/olegtrasher/audition-markers-extractor/sesx"
)

// ResolvedMarker is a source marker projected onto the session timeline.
type ResolvedMarker struct {
	// Position is the absolute timeline position in project-rate samples.
	Position int64
	// End is the absolute range end; meaningful only when IsRange.
	End     int64
	IsRange bool
	Label   string
	// SourcePath and ClipName record where the marker came from.
	SourcePath string
	ClipName   string
}

// Length returns the range length in project-rate samples, zero for point
// markers.
func (m ResolvedMarker) Length() int64 {
	if !m.IsRange {
		return 0
	}

	return m.End - m.Position
}

// ResolveClip projects the source's markers through one clip placement.
//
// Markers outside the portion of the source the clip actually uses are
// dropped: a marker sitting in material trimmed away by this placement has
// no position on the timeline. The remaining positions are rescaled from
// the source rate to the project rate and offset by the clip's timeline
// start. Resolution never fails; a clip without usable markers yields an
// empty slice.
func ResolveClip(projectRate int, clip sesx.Clip, src *Source) []ResolvedMarker {
	if src == nil || projectRate <= 0 || src.SampleRate <= 0 {
		return nil
	}

	var out []ResolvedMarker

	for _, marker := range src.Markers {
		pos := int64(marker.Position)
		if pos < clip.SourceInStart || pos >= clip.SourceInEnd() {
			continue
		}

		relOffset := pos - clip.SourceInStart

		resolved := ResolvedMarker{
			Position:   clip.TimelineOffset + rescale(relOffset, projectRate, src.SampleRate),
			Label:      marker.Label,
			SourcePath: src.Path,
			ClipName:   clip.Name,
		}

		if marker.IsRange() {
			resolved.IsRange = true
			resolved.End = resolved.Position + rescale(int64(marker.Length), projectRate, src.SampleRate)
		}

		out = append(out, resolved)
	}

	return out
}

// rescale converts a sample count from one rate to another, rounding half
// to even so batch conversions don't accumulate drift.
func rescale(samples int64, toRate, fromRate int) int64 {
	if toRate == fromRate {
		return samples
	}

	return int64(math.RoundToEven(float64(samples) * float64(toRate) / float64(fromRate)))
}
