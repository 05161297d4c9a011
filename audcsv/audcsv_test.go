package audcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegtrasher/audition-markers-extractor/audcsv"
	"github.com/olegtrasher/audition-markers-extractor/resolve"
	"github.com/olegtrasher/audition-markers-extractor/timecode"
)

func testReport() *resolve.Report {
	return &resolve.Report{
		SessionPath: "/sessions/mix.sesx",
		SampleRate:  48000,
		Markers: []resolve.ResolvedMarker{
			{
				Position:   48000,
				Label:      "verse",
				SourcePath: "/sessions/vocals.wav",
				ClipName:   "vocals",
			},
			{
				Position:   96000,
				End:        96000 + 72000,
				IsRange:    true,
				Label:      "chorus",
				SourcePath: "/sessions/vocals.wav",
				ClipName:   "vocals",
			},
		},
	}
}

func TestWriteMarkersGrid(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, audcsv.Write(buf, testReport(), timecode.Audition))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Name\tStart\tDuration\tTime Format\tType\tDescription", lines[0])
	assert.Equal(t, "verse\t48000\t0\t48000 Hz\tCue\t", lines[1])
	assert.Equal(t, "chorus\t96000\t72000\t48000 Hz\tCue\tRange: 00:01.500", lines[2])
}

func TestWriteEmptyReportHeaderOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	report := &resolve.Report{SampleRate: 48000}

	require.NoError(t, audcsv.Write(buf, report, timecode.Audition))
	assert.Equal(t, "Name\tStart\tDuration\tTime Format\tType\tDescription\n", buf.String())
}

func TestWriteReportProvenance(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, audcsv.WriteReport(buf, testReport(), timecode.Decimal))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Position,Timecode,End,Label,Source,Clip", lines[0])
	assert.Equal(t, "48000,00:00:01.000,,verse,/sessions/vocals.wav,vocals", lines[1])
	assert.Equal(t, "96000,00:00:02.000,168000,chorus,/sessions/vocals.wav,vocals", lines[2])
}
