package wav

// Metadata holds the non-audio chunks parsed out of a WAV file: LIST/INFO
// string entries, cue points with their adtl companions, sampler loops and
// the broadcast extension.
type Metadata struct {
	Artist       string
	Title        string
	Comments     string
	Copyright    string
	CreationDate string
	Engineer     string
	Technician   string
	Genre        string
	Keywords     string
	Medium       string
	Product      string
	Subject      string
	Software     string
	Source       string
	Location     string
	TrackNbr     string

	CuePoints  []*CuePoint
	CueLabels  []*CueLabel
	CueNotes   []*CueLabel
	CueRegions []*CueRegion

	SamplerInfo        *SamplerInfo
	BroadcastExtension *BroadcastExtension
}

// CuePoint is an entry of the cue chunk. SampleOffset is the marker position
// within the data chunk's sample stream.
type CuePoint struct {
	ID           uint32
	Position     uint32
	DataChunkID  [4]byte
	ChunkStart   uint32
	BlockStart   uint32
	SampleOffset uint32
}

// CueLabel is a labl or note entry from a LIST/adtl chunk, keyed by cue ID.
type CueLabel struct {
	CuePointID uint32
	Text       string
}

// CueRegion is an ltxt entry from a LIST/adtl chunk. SampleLength turns the
// referenced cue point into a range.
type CueRegion struct {
	CuePointID   uint32
	SampleLength uint32
	PurposeID    [4]byte
	Country      uint16
	Language     uint16
	Dialect      uint16
	CodePage     uint16
	Text         string
}

// SamplerInfo is the parsed smpl chunk.
type SamplerInfo struct {
	Manufacturer      [4]byte
	Product           [4]byte
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	Loops             []*SampleLoop
}

// SampleLoop is a loop entry of the smpl chunk.
type SampleLoop struct {
	CuePointID [4]byte
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

// BroadcastExtension is the parsed bext chunk. TimeReference is the first
// sample's offset since midnight, used by editors for timeline placement.
type BroadcastExtension struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	TimeReference       uint64
	Version             uint16
	UMID                [64]byte
	Reserved            []byte
	CodingHistory       string
}
