package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// cue chunk layout is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#cue

const cuePointSize = 24

var (
	errCueNilChunk   = errors.New("can't decode a nil chunk")
	errCueNilDecoder = errors.New("nil decoder")
)

// DecodeCueChunk decodes a cue chunk and stores the cue points in
// Decoder.Metadata.CuePoints. Truncated entries are dropped, not fatal.
func DecodeCueChunk(d *Decoder, ch *riff.Chunk) error {
	if ch == nil {
		return errCueNilChunk
	}

	if d == nil {
		return errCueNilDecoder
	}

	if ch.ID != CIDCue {
		ch.Drain()
		return nil
	}

	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read the cue chunk - %w", err)
	}

	buf = buf[:n]

	reader := bytes.NewReader(buf)

	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		ch.Drain()
		return nil
	}

	if d.Metadata == nil {
		d.Metadata = &Metadata{}
	}

	points := make([]*CuePoint, 0, count)

	for i := uint32(0); i < count; i++ {
		if reader.Len() < cuePointSize {
			break
		}

		point := &CuePoint{}

		binary.Read(reader, binary.LittleEndian, &point.ID)
		binary.Read(reader, binary.LittleEndian, &point.Position)
		io.ReadFull(reader, point.DataChunkID[:])
		binary.Read(reader, binary.LittleEndian, &point.ChunkStart)
		binary.Read(reader, binary.LittleEndian, &point.BlockStart)
		binary.Read(reader, binary.LittleEndian, &point.SampleOffset)

		points = append(points, point)
	}

	// the chunk may be scanned twice when it precedes the fmt chunk;
	// assigning keeps the decode idempotent.
	d.Metadata.CuePoints = points

	ch.Drain()

	return nil
}

// decodeAssociatedDataList decodes the sub-chunks of a LIST/adtl chunk:
// labl and note carry cue labels, ltxt carries region lengths. The payload
// passed in excludes the leading "adtl" type tag.
func decodeAssociatedDataList(d *Decoder, payload []byte) {
	if d.Metadata == nil {
		d.Metadata = &Metadata{}
	}

	reader := bytes.NewReader(payload)

	var (
		id   [4]byte
		size uint32
	)

	for reader.Len() > 1 {
		if err := binary.Read(reader, binary.BigEndian, &id); err != nil {
			break
		}

		if err := binary.Read(reader, binary.LittleEndian, &size); err != nil {
			break
		}

		data := make([]byte, size)

		n, err := io.ReadFull(reader, data)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		data = data[:n]

		switch id {
		case CIDLabl:
			if label := decodeCueLabel(data); label != nil {
				d.Metadata.CueLabels = append(d.Metadata.CueLabels, label)
			}
		case CIDNote:
			if note := decodeCueLabel(data); note != nil {
				d.Metadata.CueNotes = append(d.Metadata.CueNotes, note)
			}
		case CIDLtxt:
			if region := decodeCueRegion(data); region != nil {
				d.Metadata.CueRegions = append(d.Metadata.CueRegions, region)
			}
		}

		// sub-chunks are word aligned
		if size%2 == 1 {
			reader.ReadByte()
		}
	}
}

func decodeCueLabel(data []byte) *CueLabel {
	if len(data) < 4 {
		return nil
	}

	return &CueLabel{
		CuePointID: binary.LittleEndian.Uint32(data[:4]),
		Text:       nullTermStr(data[4:]),
	}
}

func decodeCueRegion(data []byte) *CueRegion {
	if len(data) < 20 {
		return nil
	}

	region := &CueRegion{
		CuePointID:   binary.LittleEndian.Uint32(data[0:4]),
		SampleLength: binary.LittleEndian.Uint32(data[4:8]),
		Country:      binary.LittleEndian.Uint16(data[12:14]),
		Language:     binary.LittleEndian.Uint16(data[14:16]),
		Dialect:      binary.LittleEndian.Uint16(data[16:18]),
		CodePage:     binary.LittleEndian.Uint16(data[18:20]),
	}
	copy(region.PurposeID[:], data[8:12])

	if len(data) > 20 {
		region.Text = nullTermStr(data[20:])
	}

	return region
}
