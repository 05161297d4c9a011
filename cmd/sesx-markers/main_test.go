package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRequiresSubcommand(t *testing.T) {
	var out bytes.Buffer
	err := run(nil, &out)
	if err == nil {
		t.Fatalf("expected error without a subcommand")
	}

	if !errors.Is(err, errUsage) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunUnknownSubcommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"frobnicate"}, &out)
	if !errors.Is(err, errUsage) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInspectRequiresPath(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"inspect"}, &out)
	if !errors.Is(err, errMissingPath) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInspectPrintsMarkers(t *testing.T) {
	path := writeTestWav(t, t.TempDir(), "take.wav")

	var out bytes.Buffer
	if err := run([]string{"inspect", path}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	checks := []string{
		"48000 Hz",
		"Marker [0]: 12000 \"verse\"",
	}

	for _, c := range checks {
		if !strings.Contains(out.String(), c) {
			t.Fatalf("expected output to contain %q\nfull output:\n%s", c, out.String())
		}
	}
}

func TestExtractWritesDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	writeTestWav(t, dir, "take.wav")
	session := writeTestSession(t, dir)

	var out bytes.Buffer
	if err := run([]string{"extract", "-session", session}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	csvPath := filepath.Join(dir, "mix timeline markers.csv")
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one marker, got:\n%s", data)
	}

	if want := "verse\t60000\t0\t48000 Hz\tCue\t"; lines[1] != want {
		t.Fatalf("unexpected marker row %q, want %q", lines[1], want)
	}
}

func TestExtractRejectsUnknownGrammar(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"extract", "-session", "x.sesx", "-timecode", "smpte"}, &out)
	if err == nil || !strings.Contains(err.Error(), "grammar") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := defaultOutputPath(filepath.Join("proj", "mix.sesx"))
	want := filepath.Join("proj", "mix timeline markers.csv")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// writeTestWav writes a mono 48k wav with one labeled cue at sample 12000.
func writeTestWav(t *testing.T, dir, name string) string {
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
	for _, v := range []uint16{1, 1} {
		binary.Write(fmtData, binary.LittleEndian, v)
	}
	binary.Write(fmtData, binary.LittleEndian, uint32(48000))
	binary.Write(fmtData, binary.LittleEndian, uint32(96000))
	for _, v := range []uint16{2, 16} {
		binary.Write(fmtData, binary.LittleEndian, v)
	}
	writeChunk("fmt ", fmtData.Bytes())

	cue := &bytes.Buffer{}
	binary.Write(cue, binary.LittleEndian, uint32(1))
	binary.Write(cue, binary.LittleEndian, uint32(7)) // cue ID
	binary.Write(cue, binary.LittleEndian, uint32(0))
	cue.WriteString("data")
	binary.Write(cue, binary.LittleEndian, uint32(0))
	binary.Write(cue, binary.LittleEndian, uint32(0))
	binary.Write(cue, binary.LittleEndian, uint32(12000))
	writeChunk("cue ", cue.Bytes())

	adtl := &bytes.Buffer{}
	adtl.WriteString("adtl")
	adtl.WriteString("labl")
	binary.Write(adtl, binary.LittleEndian, uint32(4+6))
	binary.Write(adtl, binary.LittleEndian, uint32(7))
	adtl.WriteString("verse")
	adtl.WriteByte(0)
	writeChunk("LIST", adtl.Bytes())

	writeChunk("data", make([]byte, 96000*2))

	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// writeTestSession writes a session with one clip of take.wav placed at
// sample 48000 on the timeline.
func writeTestSession(t *testing.T, dir string) string {
	t.Helper()

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<sesx version="1.9">
  <session sampleRate="48000">
    <files>
      <file id="1" relativePath="take.wav"/>
    </files>
    <tracks>
      <audioTrack index="1">
        <audioClip id="100" name="take" fileID="1" startPoint="48000" sourceInPoint="0" sourceOutPoint="96000"/>
      </audioTrack>
    </tracks>
  </session>
</sesx>
`

	path := filepath.Join(dir, "mix.sesx")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}
