package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// smpl chunk is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#smpl

var (
	errSmplNilChunk   = errors.New("can't decode a nil chunk")
	errSmplNilDecoder = errors.New("nil decoder")
)

// DecodeSamplerChunk decodes a smpl chunk into Decoder.Metadata.SamplerInfo.
func DecodeSamplerChunk(d *Decoder, ch *riff.Chunk) error {
	if ch == nil {
		return errSmplNilChunk
	}

	if d == nil {
		return errSmplNilDecoder
	}

	if ch.ID != CIDSmpl {
		ch.Drain()
		return nil
	}

	// read the entire chunk in memory
	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read the smpl chunk - %w", err)
	}

	buf = buf[:n]
	ch.Drain()

	if d.Metadata == nil {
		d.Metadata = &Metadata{}
	}

	info := &SamplerInfo{}
	reader := bytes.NewReader(buf)

	if _, err := io.ReadFull(reader, info.Manufacturer[:]); err != nil {
		return fmt.Errorf("failed to read the smpl manufacturer: %w", err)
	}

	if _, err := io.ReadFull(reader, info.Product[:]); err != nil {
		return fmt.Errorf("failed to read the smpl product: %w", err)
	}

	fields := []struct {
		name string
		dst  *uint32
	}{
		{"sample period", &info.SamplePeriod},
		{"MIDI unity note", &info.MIDIUnityNote},
		{"MIDI pitch fraction", &info.MIDIPitchFraction},
		{"SMPTE format", &info.SMPTEFormat},
		{"SMPTE offset", &info.SMPTEOffset},
		{"number of sample loops", &info.NumSampleLoops},
	}

	for _, field := range fields {
		if err := binary.Read(reader, binary.LittleEndian, field.dst); err != nil {
			return fmt.Errorf("failed to read %s: %w", field.name, err)
		}
	}

	// trailing sampler-specific data size, unused
	var remaining uint32
	if err := binary.Read(reader, binary.LittleEndian, &remaining); err != nil {
		return fmt.Errorf("failed to read remaining sampler data: %w", err)
	}

	for i := uint32(0); i < info.NumSampleLoops; i++ {
		loop := &SampleLoop{}

		if _, err := io.ReadFull(reader, loop.CuePointID[:]); err != nil {
			return fmt.Errorf("failed to read the sample loop cue point id: %w", err)
		}

		loopFields := []struct {
			name string
			dst  *uint32
		}{
			{"type", &loop.Type},
			{"start", &loop.Start},
			{"end", &loop.End},
			{"fraction", &loop.Fraction},
			{"play count", &loop.PlayCount},
		}

		for _, field := range loopFields {
			if err := binary.Read(reader, binary.LittleEndian, field.dst); err != nil {
				return fmt.Errorf("failed to read sample loop %s: %w", field.name, err)
			}
		}

		info.Loops = append(info.Loops, loop)
	}

	d.Metadata.SamplerInfo = info

	return nil
}
