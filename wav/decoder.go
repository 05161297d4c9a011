package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var (
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDSmpl is the chunk ID for a smpl chunk.
	CIDSmpl = [4]byte{'s', 'm', 'p', 'l'}
	// CIDInfo is the LIST type for an INFO chunk.
	CIDInfo = []byte{'I', 'N', 'F', 'O'}
	// CIDAdtl is the LIST type for an associated data list chunk.
	CIDAdtl = [4]byte{'a', 'd', 't', 'l'}
	// CIDCue is the chunk ID for the cue chunk.
	CIDCue = [4]byte{'c', 'u', 'e', 0x20}
	// CIDLabl is the adtl sub-chunk ID for a cue label.
	CIDLabl = [4]byte{'l', 'a', 'b', 'l'}
	// CIDNote is the adtl sub-chunk ID for a cue note.
	CIDNote = [4]byte{'n', 'o', 't', 'e'}
	// CIDLtxt is the adtl sub-chunk ID for a labeled text region.
	CIDLtxt = [4]byte{'l', 't', 'x', 't'}
	// CIDFact is the chunk ID for the fact chunk.
	CIDFact = [4]byte{'f', 'a', 'c', 't'}
	// CIDBext is the chunk ID for the broadcast extension chunk.
	CIDBext = [4]byte{'b', 'e', 'x', 't'}

	// ErrDurationNilPointer is returned when calculating duration on a nil decoder.
	ErrDurationNilPointer = errors.New("can't calculate the duration of a nil pointer")
	errNilChunkOrParser   = errors.New("nil chunk/parser pointer")
)

// Decoder reads the chunk structure of a wav file. It only parses metadata
// and stream shape; PCM payloads are skipped, never decoded.
type Decoder struct {
	r      io.ReadSeeker
	parser *riff.Parser
	chunks *ChunkRegistry

	NumChans   uint16
	BitDepth   uint16
	SampleRate uint32

	AvgBytesPerSec uint32
	WavAudioFormat uint16
	FmtChunk       *FmtChunk

	err error
	// DataSize is the byte size of the data chunk, when one was seen.
	DataSize int64
	// FactSamples is the per-channel sample count from the fact chunk, if any.
	FactSamples uint32
	// Metadata for the current file.
	Metadata *Metadata
	// UnknownChunks records unrecognized chunks for inspection.
	UnknownChunks []RawChunk

	metadataRead      bool
	unknownChunkOrder int
}

// NewDecoder creates a decoder for the passed wav reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
		chunks: newDefaultChunkRegistry(),
	}
}

// Err returns the first non-EOF error that was encountered by the Decoder.
func (d *Decoder) Err() error {
	if errors.Is(d.err, io.EOF) || errors.Is(d.err, io.ErrUnexpectedEOF) {
		return nil
	}

	return d.err
}

// EOF returns positively if the underlying reader reached the end of file.
func (d *Decoder) EOF() bool {
	if d == nil || errors.Is(d.err, io.EOF) {
		return true
	}

	return false
}

// IsValidFile verifies that the file is a readable RIFF/WAVE container with
// a plausible fmt chunk.
func (d *Decoder) IsValidFile() bool {
	d.err = d.readHeaders()
	if d.err != nil {
		return false
	}

	if d.NumChans < 1 {
		return false
	}

	return d.SampleRate > 0
}

// ReadInfo reads the underlying reader until the fmt header is parsed.
// This method is safe to call multiple times.
func (d *Decoder) ReadInfo() {
	d.err = d.readHeaders()
}

// ReadMetadata parses the entire chunk structure: cue points, adtl labels,
// LIST/INFO entries, sampler loops, broadcast extension and the data chunk
// size. A chunk whose declared size runs past the end of file truncates the
// scan with whatever was recovered so far.
func (d *Decoder) ReadMetadata() {
	if d.metadataRead {
		return
	}

	d.ReadInfo()

	if d.Err() != nil {
		return
	}

	d.metadataRead = true
	d.UnknownChunks = nil
	d.unknownChunkOrder = 0

	var (
		chunk *riff.Chunk
		err   error
	)

	for err == nil {
		chunk, err = d.NextChunk()
		if err != nil {
			break
		}

		d.unknownChunkOrder++

		if chunk.ID == riff.DataFormatID {
			d.DataSize = int64(chunk.Size)

			chunk.Drain()

			continue
		}

		handled, handleErr := d.decodeChunkViaRegistry(chunk)
		if handleErr != nil && !errors.Is(handleErr, io.EOF) {
			d.err = handleErr
		}

		if !handled {
			d.captureUnknownChunk(chunk)
		}
	}
}

// NextChunk returns the next available chunk.
func (d *Decoder) NextChunk() (*riff.Chunk, error) {
	if d.err = d.readHeaders(); d.err != nil {
		d.err = fmt.Errorf("failed to read header - %w", d.err)
		return nil, d.err
	}

	var (
		id   [4]byte
		size uint32
	)

	id, size, d.err = d.parser.IDnSize()
	if d.err != nil {
		d.err = fmt.Errorf("error reading chunk header - %w", d.err)
		return nil, d.err
	}

	// all RIFF chunks must be word aligned; an odd-sized chunk is padded
	// with a zero byte that isn't counted in the header size.
	if size%2 == 1 {
		size++
	}

	chnk := &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}

	return chnk, d.err
}

// Duration returns the time duration for the current audio container.
func (d *Decoder) Duration() (time.Duration, error) {
	if d == nil || d.parser == nil {
		return 0, ErrDurationNilPointer
	}

	dur, err := d.parser.Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to get duration: %w", err)
	}

	return dur, nil
}

// Format returns the audio format of the decoded content.
func (d *Decoder) Format() *audio.Format {
	if d == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(d.NumChans),
		SampleRate:  int(d.SampleRate),
	}
}

// String implements the Stringer interface.
func (d *Decoder) String() string {
	return d.parser.String()
}

// readHeaders is safe to call multiple times.
func (d *Decoder) readHeaders() error {
	if d == nil || d.NumChans > 0 {
		return nil
	}

	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read chunk ID and size: %w", err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%s - %w", d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("failed to read format: %w", err)
	}

	var (
		chunk       *riff.Chunk
		rewindBytes int64
	)

	for err == nil {
		chunk, err = d.parser.NextChunk()
		if err != nil {
			break
		}

		if chunk.ID == riff.FmtID {
			err := d.processFmtChunk(chunk, rewindBytes)
			if err != nil {
				return err
			}

			break
		}

		d.processNonFmtChunk(chunk, &rewindBytes)
	}

	return d.err
}

func (d *Decoder) processFmtChunk(chunk *riff.Chunk, rewindBytes int64) error {
	fmtChunk, err := decodeWavHeaderChunk(chunk, d.parser)
	if err != nil {
		return fmt.Errorf("failed to decode fmt chunk: %w", err)
	}

	d.FmtChunk = fmtChunk
	d.NumChans = d.parser.NumChannels
	d.BitDepth = d.parser.BitsPerSample
	d.SampleRate = d.parser.SampleRate
	d.WavAudioFormat = d.parser.WavAudioFormat
	d.AvgBytesPerSec = d.parser.AvgBytesPerSec

	if rewindBytes > 0 {
		d.r.Seek(-(rewindBytes + int64(chunk.Size) + 8), 1)
	}

	return nil
}

func (d *Decoder) processNonFmtChunk(chunk *riff.Chunk, rewindBytes *int64) {
	if handled, _ := d.decodeHeaderChunkViaRegistry(chunk); handled {
		*rewindBytes += int64(chunk.Size) + 8
	} else {
		// unexpected chunk order, might be a bext chunk
		*rewindBytes += int64(chunk.Size) + 8
		// drain the chunk
		io.CopyN(io.Discard, d.r, int64(chunk.Size))
	}
}

func (d *Decoder) decodeChunkViaRegistry(chunk *riff.Chunk) (bool, error) {
	if d == nil || chunk == nil {
		return false, nil
	}

	if d.chunks == nil {
		d.chunks = newDefaultChunkRegistry()
	}

	return d.chunks.Decode(d, chunk)
}

func (d *Decoder) decodeHeaderChunkViaRegistry(chunk *riff.Chunk) (bool, error) {
	if chunk == nil {
		return false, nil
	}

	switch chunk.ID {
	case CIDList, CIDSmpl, CIDBext, CIDCue:
		return d.decodeChunkViaRegistry(chunk)
	default:
		return false, nil
	}
}

func decodeWavHeaderChunk(chunk *riff.Chunk, parser *riff.Parser) (*FmtChunk, error) {
	if chunk == nil || parser == nil {
		return nil, errNilChunkOrParser
	}

	fmtChunk := &FmtChunk{}

	err := chunk.ReadLE(&fmtChunk.FormatTag)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav format: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.AvgBytesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to read avg bytes/sec: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BlockAlign)
	if err != nil {
		return nil, fmt.Errorf("failed to read block align: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("failed to read bit depth: %w", err)
	}

	parser.NumChannels = fmtChunk.NumChannels
	parser.SampleRate = fmtChunk.SampleRate
	parser.AvgBytesPerSec = fmtChunk.AvgBytesPerSec
	parser.BlockAlign = fmtChunk.BlockAlign
	parser.BitsPerSample = fmtChunk.BitsPerSample
	parser.WavAudioFormat = fmtChunk.FormatTag

	if chunk.Size <= 16 {
		return fmtChunk, nil
	}

	var extraSize uint16

	err = chunk.ReadLE(&extraSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read fmt extension size: %w", err)
	}

	fmtChunk.ExtraData = make([]byte, extraSize)
	if extraSize > 0 {
		err := chunk.ReadLE(&fmtChunk.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("failed to read fmt extension data: %w", err)
		}
	}

	if fmtChunk.FormatTag != wavFormatExtensible || extraSize < 22 {
		chunk.Drain()

		return fmtChunk, nil
	}

	ext := &FmtExtensible{}
	ext.ValidBitsPerSample = binary.LittleEndian.Uint16(fmtChunk.ExtraData[0:2])
	ext.ChannelMask = binary.LittleEndian.Uint32(fmtChunk.ExtraData[2:6])
	copy(ext.SubFormat[:], fmtChunk.ExtraData[6:22])

	if len(fmtChunk.ExtraData) > 22 {
		ext.ExtraData = append(ext.ExtraData, fmtChunk.ExtraData[22:]...)
	}

	fmtChunk.Extensible = ext
	parser.WavAudioFormat = fmtChunk.EffectiveFormatTag()

	chunk.Drain()

	return fmtChunk, nil
}

func (d *Decoder) captureUnknownChunk(chunk *riff.Chunk) {
	if d == nil || chunk == nil {
		return
	}

	data, err := io.ReadAll(chunk)
	if err != nil {
		d.err = fmt.Errorf("failed to read unknown chunk %s: %w", chunk.ID, err)

		return
	}

	chunk.Drain()

	d.UnknownChunks = append(d.UnknownChunks, RawChunk{
		ID:    chunk.ID,
		Size:  uint32(len(data)),
		Data:  data,
		Order: d.unknownChunkOrder,
	})
}

func bytesPerSample(bitDepth int) int {
	if bitDepth == 0 {
		return 0
	}

	return (bitDepth-1)/8 + 1
}
