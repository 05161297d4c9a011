package wav

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrFormat is returned when a file is not a readable RIFF/WAVE container.
var ErrFormat = errors.New("not a valid RIFF/WAVE file")

// Marker is a cue point merged with its adtl label and region companions.
// A zero Length is a point marker, a positive Length a range.
type Marker struct {
	CueID    uint32
	Position uint32
	Length   uint32
	Label    string
}

// IsRange reports whether the marker spans a region.
func (m Marker) IsRange() bool {
	return m.Length > 0
}

// End returns the exclusive end position for range markers and the marker
// position itself for point markers.
func (m Marker) End() uint32 {
	return m.Position + m.Length
}

// Info describes the stream shape of a source file.
type Info struct {
	SampleRate   uint32
	NumChannels  uint16
	BitDepth     uint16
	TotalSamples int64
}

// Markers merges the decoded cue points with their labels and regions,
// ordered by position within the source. ReadMetadata must have run first.
func (d *Decoder) Markers() []Marker {
	if d == nil || d.Metadata == nil || len(d.Metadata.CuePoints) == 0 {
		return nil
	}

	labels := make(map[uint32]string, len(d.Metadata.CueLabels))
	for _, label := range d.Metadata.CueLabels {
		labels[label.CuePointID] = label.Text
	}

	lengths := make(map[uint32]uint32, len(d.Metadata.CueRegions))
	regionText := make(map[uint32]string, len(d.Metadata.CueRegions))

	for _, region := range d.Metadata.CueRegions {
		lengths[region.CuePointID] = region.SampleLength
		regionText[region.CuePointID] = region.Text
	}

	markers := make([]Marker, 0, len(d.Metadata.CuePoints))

	for _, point := range d.Metadata.CuePoints {
		marker := Marker{
			CueID:    point.ID,
			Position: point.SampleOffset,
			Length:   lengths[point.ID],
			Label:    labels[point.ID],
		}

		if marker.Label == "" {
			marker.Label = regionText[point.ID]
		}

		markers = append(markers, marker)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Position < markers[j].Position
	})

	return markers
}

// Info returns the stream shape of the decoded file. The total sample count
// is derived from the data chunk size and is zero when the chunk was never
// reached.
func (d *Decoder) Info() Info {
	if d == nil {
		return Info{}
	}

	info := Info{
		SampleRate:  d.SampleRate,
		NumChannels: d.NumChans,
		BitDepth:    d.BitDepth,
	}

	frameSize := int64(d.NumChans) * int64(bytesPerSample(int(d.BitDepth)))
	if frameSize > 0 && d.DataSize > 0 {
		info.TotalSamples = int64(d.DataSize) / frameSize
	}

	// compressed formats carry the frame count in the fact chunk instead
	if info.TotalSamples == 0 && d.FactSamples > 0 {
		info.TotalSamples = int64(d.FactSamples)
	}

	return info
}

// ReadMarkers opens the WAV file at path, parses its metadata chunks and
// returns the stream info plus the embedded markers. A valid file without
// cue metadata yields an empty marker slice and no error.
func ReadMarkers(path string) (Info, []Marker, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	d := NewDecoder(file)
	d.ReadMetadata()

	if err := d.Err(); err != nil {
		return Info{}, nil, fmt.Errorf("%w: %s: %s", ErrFormat, path, err)
	}

	if d.SampleRate == 0 {
		return Info{}, nil, fmt.Errorf("%w: %s: missing fmt chunk", ErrFormat, path)
	}

	return d.Info(), d.Markers(), nil
}
