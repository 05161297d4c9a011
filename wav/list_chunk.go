package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

var (
	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART    = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT    = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD    = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP    = [4]byte{'I', 'C', 'O', 'P'}
	markerIARL    = [4]byte{'I', 'A', 'R', 'L'}
	markerINAM    = [4]byte{'I', 'N', 'A', 'M'}
	markerIENG    = [4]byte{'I', 'E', 'N', 'G'}
	markerIGNR    = [4]byte{'I', 'G', 'N', 'R'}
	markerIPRD    = [4]byte{'I', 'P', 'R', 'D'}
	markerISRC    = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ    = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT    = [4]byte{'I', 'C', 'M', 'T'}
	markerITRK    = [4]byte{'I', 'T', 'R', 'K'}
	markerITRKBug = [4]byte{'i', 't', 'r', 'k'}
	markerITCH    = [4]byte{'I', 'T', 'C', 'H'}
	markerIKEY    = [4]byte{'I', 'K', 'E', 'Y'}
	markerIMED    = [4]byte{'I', 'M', 'E', 'D'}

	errListNilChunk   = errors.New("can't decode a nil chunk")
	errListNilDecoder = errors.New("nil decoder")
)

// DecodeListChunk decodes a LIST chunk. INFO lists populate the metadata
// string fields, adtl lists populate cue labels and regions. Other list
// types are skipped.
func DecodeListChunk(d *Decoder, ch *riff.Chunk) error {
	if ch == nil {
		return errListNilChunk
	}

	if d == nil {
		return errListNilDecoder
	}

	if ch.ID != CIDList {
		ch.Drain()
		return nil
	}

	// read the entire chunk in memory
	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read the LIST chunk - %w", err)
	}

	buf = buf[:n]
	ch.Drain()

	if len(buf) < 4 {
		return nil
	}

	var listType [4]byte
	copy(listType[:], buf[:4])

	switch {
	case bytes.Equal(listType[:], CIDInfo):
		return decodeInfoList(d, buf[4:])
	case listType == CIDAdtl:
		decodeAssociatedDataList(d, buf[4:])
		return nil
	default:
		return nil
	}
}

func decodeInfoList(d *Decoder, payload []byte) error {
	if d.Metadata == nil {
		d.Metadata = &Metadata{}
	}

	reader := bytes.NewReader(payload)

	var (
		id   [4]byte
		size uint32
	)

	readSubHeader := func() error {
		err := binary.Read(reader, binary.BigEndian, &id)
		if err != nil {
			return fmt.Errorf("failed to read sub header ID: %w", err)
		}

		err = binary.Read(reader, binary.LittleEndian, &size)
		if err != nil {
			return fmt.Errorf("failed to read sub header size: %w", err)
		}

		return nil
	}

	scratch := make([]byte, 4)

	// stop early when just a word alignment byte remains so readSubHeader
	// doesn't trip over an io.ErrUnexpectedEOF.
	for reader.Len() > 1 {
		err := readSubHeader()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("read sub header: %w", err)
		}

		if cap(scratch) >= int(size) {
			scratch = scratch[:size]
		} else {
			scratch = make([]byte, size)
		}

		if _, err := io.ReadFull(reader, scratch); err != nil {
			return fmt.Errorf("read sub header %s data: %w", id, err)
		}

		switch id {
		case markerIARL:
			d.Metadata.Location = nullTermStr(scratch)
		case markerIART:
			d.Metadata.Artist = nullTermStr(scratch)
		case markerISFT:
			d.Metadata.Software = nullTermStr(scratch)
		case markerICRD:
			d.Metadata.CreationDate = nullTermStr(scratch)
		case markerICOP:
			d.Metadata.Copyright = nullTermStr(scratch)
		case markerINAM:
			d.Metadata.Title = nullTermStr(scratch)
		case markerIENG:
			d.Metadata.Engineer = nullTermStr(scratch)
		case markerIGNR:
			d.Metadata.Genre = nullTermStr(scratch)
		case markerIPRD:
			d.Metadata.Product = nullTermStr(scratch)
		case markerISRC:
			d.Metadata.Source = nullTermStr(scratch)
		case markerISBJ:
			d.Metadata.Subject = nullTermStr(scratch)
		case markerICMT:
			d.Metadata.Comments = nullTermStr(scratch)
		case markerITRK, markerITRKBug:
			d.Metadata.TrackNbr = nullTermStr(scratch)
		case markerITCH:
			d.Metadata.Technician = nullTermStr(scratch)
		case markerIKEY:
			d.Metadata.Keywords = nullTermStr(scratch)
		case markerIMED:
			d.Metadata.Medium = nullTermStr(scratch)
		}

		// entries are word aligned
		if size%2 == 1 {
			reader.ReadByte()
		}
	}

	return nil
}
