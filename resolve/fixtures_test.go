package resolve_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixtureMarker struct {
	id     uint32
	pos    uint32
	length uint32
	label  string
}

// writeWavFixture writes a minimal PCM WAV file carrying the passed cue
// markers to dir/name and returns its path.
func writeWavFixture(t *testing.T, dir, name string, sampleRate uint32, numFrames int, markers []fixtureMarker) string {
	t.Helper()

	body := &bytes.Buffer{}
	body.WriteString("WAVE")

	writeChunk := func(id string, data []byte) {
		body.WriteString(id)
		binary.Write(body, binary.LittleEndian, uint32(len(data)))
		body.Write(data)

		if len(data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	fmtData := &bytes.Buffer{}
	binary.Write(fmtData, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(fmtData, binary.LittleEndian, uint16(1))  // mono
	binary.Write(fmtData, binary.LittleEndian, sampleRate)
	binary.Write(fmtData, binary.LittleEndian, sampleRate*2)
	binary.Write(fmtData, binary.LittleEndian, uint16(2))  // block align
	binary.Write(fmtData, binary.LittleEndian, uint16(16)) // bit depth
	writeChunk("fmt ", fmtData.Bytes())

	if len(markers) > 0 {
		cueData := &bytes.Buffer{}
		binary.Write(cueData, binary.LittleEndian, uint32(len(markers)))

		for i, m := range markers {
			binary.Write(cueData, binary.LittleEndian, m.id)
			binary.Write(cueData, binary.LittleEndian, uint32(i))
			cueData.WriteString("data")
			binary.Write(cueData, binary.LittleEndian, uint32(0))
			binary.Write(cueData, binary.LittleEndian, uint32(0))
			binary.Write(cueData, binary.LittleEndian, m.pos)
		}

		writeChunk("cue ", cueData.Bytes())

		adtl := &bytes.Buffer{}
		adtl.WriteString("adtl")

		writeSub := func(id string, data []byte) {
			adtl.WriteString(id)
			binary.Write(adtl, binary.LittleEndian, uint32(len(data)))
			adtl.Write(data)

			if len(data)%2 == 1 {
				adtl.WriteByte(0)
			}
		}

		for _, m := range markers {
			if m.label != "" {
				labl := &bytes.Buffer{}
				binary.Write(labl, binary.LittleEndian, m.id)
				labl.WriteString(m.label)
				labl.WriteByte(0)
				writeSub("labl", labl.Bytes())
			}

			if m.length > 0 {
				ltxt := &bytes.Buffer{}
				binary.Write(ltxt, binary.LittleEndian, m.id)
				binary.Write(ltxt, binary.LittleEndian, m.length)
				ltxt.WriteString("rgn ")
				binary.Write(ltxt, binary.LittleEndian, uint64(0)) // country..code page
				writeSub("ltxt", ltxt.Bytes())
			}
		}

		writeChunk("LIST", adtl.Bytes())
	}

	writeChunk("data", make([]byte, numFrames*2))

	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))

	return path
}

// writeSessionFixture writes a one-track session referencing the passed
// files, one clip per file, and returns its path.
type fixtureClip struct {
	fileID     int
	name       string
	startPoint float64
	inPoint    float64
	outPoint   float64
}

func writeSessionFixture(t *testing.T, dir string, sampleRate int, files map[int]string, clips []fixtureClip) string {
	t.Helper()

	doc := &bytes.Buffer{}
	fmt.Fprintf(doc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<sesx version=\"1.9\">\n")
	fmt.Fprintf(doc, "  <session appBuild=\"12.0\" sampleRate=\"%d\">\n    <files>\n", sampleRate)

	for id, rel := range files {
		fmt.Fprintf(doc, "      <file id=\"%d\" relativePath=\"%s\"/>\n", id, rel)
	}

	doc.WriteString("    </files>\n    <tracks>\n      <audioTrack index=\"1\">\n")

	for i, clip := range clips {
		fmt.Fprintf(doc,
			"        <audioClip id=\"%d\" name=\"%s\" fileID=\"%d\" startPoint=\"%.2f\" sourceInPoint=\"%.2f\" sourceOutPoint=\"%.2f\"/>\n",
			100+i, clip.name, clip.fileID, clip.startPoint, clip.inPoint, clip.outPoint)
	}

	doc.WriteString("      </audioTrack>\n    </tracks>\n  </session>\n</sesx>\n")

	path := filepath.Join(dir, "mix.sesx")
	require.NoError(t, os.WriteFile(path, doc.Bytes(), 0o644))

	return path
}
