package wav

// RawChunk records an unrecognized RIFF/WAV chunk so callers can report on
// chunks the decoder skipped.
type RawChunk struct {
	ID [4]byte
	// Size mirrors len(Data) for captured chunks.
	Size uint32
	Data []byte
	// Order is the chunk order index encountered during decode.
	Order int
}

// IDString returns the chunk ID as text.
func (c RawChunk) IDString() string {
	return string(c.ID[:])
}
