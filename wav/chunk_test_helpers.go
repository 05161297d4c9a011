package wav

import (
	"bytes"
	"encoding/binary"
)

type testChunk struct {
	id   string
	data []byte
}

// buildWavFile assembles a synthetic RIFF/WAVE byte stream from the passed
// chunks, fixing up the container size and word alignment.
func buildWavFile(chunks ...testChunk) []byte {
	body := &bytes.Buffer{}
	body.WriteString("WAVE")

	for _, ch := range chunks {
		body.WriteString(ch.id)
		binary.Write(body, binary.LittleEndian, uint32(len(ch.data)))
		body.Write(ch.data)

		if len(ch.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// testFmtChunk builds a 16-byte PCM fmt chunk payload.
func testFmtChunk(numChans uint16, sampleRate uint32, bitDepth uint16) testChunk {
	buf := &bytes.Buffer{}
	bytesPerFrame := numChans * bitDepth / 8

	binary.Write(buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(buf, binary.LittleEndian, numChans)
	binary.Write(buf, binary.LittleEndian, sampleRate)
	binary.Write(buf, binary.LittleEndian, sampleRate*uint32(bytesPerFrame))
	binary.Write(buf, binary.LittleEndian, bytesPerFrame)
	binary.Write(buf, binary.LittleEndian, bitDepth)

	return testChunk{id: "fmt ", data: buf.Bytes()}
}

// testCueChunk builds a cue chunk payload from (id, sampleOffset) pairs.
func testCueChunk(points ...[2]uint32) testChunk {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(points)))

	for i, p := range points {
		binary.Write(buf, binary.LittleEndian, p[0])        // cue ID
		binary.Write(buf, binary.LittleEndian, uint32(i))   // play order
		buf.WriteString("data")                             // data chunk ID
		binary.Write(buf, binary.LittleEndian, uint32(0))   // chunk start
		binary.Write(buf, binary.LittleEndian, uint32(0))   // block start
		binary.Write(buf, binary.LittleEndian, p[1])        // sample offset
	}

	return testChunk{id: "cue ", data: buf.Bytes()}
}

type testAdtlEntry struct {
	id     string
	cueID  uint32
	length uint32 // ltxt only
	text   string
}

// testAdtlChunk builds a LIST/adtl chunk from label, note and ltxt entries.
func testAdtlChunk(entries ...testAdtlEntry) testChunk {
	buf := &bytes.Buffer{}
	buf.WriteString("adtl")

	for _, e := range entries {
		sub := &bytes.Buffer{}
		binary.Write(sub, binary.LittleEndian, e.cueID)

		if e.id == "ltxt" {
			binary.Write(sub, binary.LittleEndian, e.length)
			sub.WriteString("rgn ")                            // purpose ID
			binary.Write(sub, binary.LittleEndian, uint16(0))  // country
			binary.Write(sub, binary.LittleEndian, uint16(0))  // language
			binary.Write(sub, binary.LittleEndian, uint16(0))  // dialect
			binary.Write(sub, binary.LittleEndian, uint16(0))  // code page
		}

		if e.text != "" {
			sub.WriteString(e.text)
			sub.WriteByte(0)
		}

		buf.WriteString(e.id)
		binary.Write(buf, binary.LittleEndian, uint32(sub.Len()))
		buf.Write(sub.Bytes())

		if sub.Len()%2 == 1 {
			buf.WriteByte(0)
		}
	}

	return testChunk{id: "LIST", data: buf.Bytes()}
}

// testInfoChunk builds a LIST/INFO chunk from (tag, value) pairs.
func testInfoChunk(entries ...[2]string) testChunk {
	buf := &bytes.Buffer{}
	buf.WriteString("INFO")

	for _, e := range entries {
		value := append([]byte(e[1]), 0)

		buf.WriteString(e[0])
		binary.Write(buf, binary.LittleEndian, uint32(len(value)))
		buf.Write(value)

		if len(value)%2 == 1 {
			buf.WriteByte(0)
		}
	}

	return testChunk{id: "LIST", data: buf.Bytes()}
}

// testDataChunk builds a silent data chunk holding numFrames frames.
func testDataChunk(numFrames, bytesPerFrame int) testChunk {
	return testChunk{id: "data", data: make([]byte, numFrames*bytesPerFrame)}
}
