package wav

import (
	"encoding/binary"
	"fmt"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatALaw       = 6
	wavFormatMuLaw      = 7
	wavFormatExtensible = 0xFFFE
)

// FmtChunk stores the parsed WAV fmt chunk, including extensible metadata.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraData      []byte
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
	ExtraData          []byte
}

func (f *FmtChunk) Clone() *FmtChunk {
	if f == nil {
		return nil
	}

	out := *f

	out.ExtraData = append([]byte(nil), f.ExtraData...)
	if f.Extensible != nil {
		ext := *f.Extensible
		ext.ExtraData = append([]byte(nil), f.Extensible.ExtraData...)
		out.Extensible = &ext
	}

	return &out
}

func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// FormatName returns a human readable name for the effective format tag.
func (f *FmtChunk) FormatName() string {
	switch f.EffectiveFormatTag() {
	case wavFormatPCM:
		return "PCM"
	case wavFormatIEEEFloat:
		return "IEEE float"
	case wavFormatALaw:
		return "A-law"
	case wavFormatMuLaw:
		return "mu-law"
	default:
		return fmt.Sprintf("format tag %d", f.EffectiveFormatTag())
	}
}
