// Package audcsv serializes resolved markers to CSV.
//
// Two layouts are supported: the tab separated grid Adobe Audition imports
// through its Markers panel, and a plain report layout carrying timecodes
// and source file provenance.
package audcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/olegtrasher/audition-markers-extractor/resolve"
	"github.com/olegtrasher/audition-markers-extractor/timecode"
)

// MarkerRow is one line of the Audition markers grid. Start and Duration
// are sample counts in the session rate; Audition derives the displayed
// time from the Time Format column.
type MarkerRow struct {
	Name        string `csv:"Name"`
	Start       int64  `csv:"Start"`
	Duration    int64  `csv:"Duration"`
	TimeFormat  string `csv:"Time Format"`
	Type        string `csv:"Type"`
	Description string `csv:"Description"`
}

// MarkerRows converts a resolved report to Audition marker grid rows.
// Range markers carry their length both as a sample count and, for the
// markers panel display, as a timecode in the description.
func MarkerRows(report *resolve.Report, grammar timecode.Grammar) []MarkerRow {
	rows := make([]MarkerRow, 0, len(report.Markers))

	for _, m := range report.Markers {
		row := MarkerRow{
			Name:       m.Label,
			Start:      m.Position,
			Duration:   m.Length(),
			TimeFormat: fmt.Sprintf("%d Hz", report.SampleRate),
			Type:       "Cue",
		}

		if m.IsRange {
			row.Description = "Range: " + grammar.Format(m.Length(), report.SampleRate)
		}

		rows = append(rows, row)
	}

	return rows
}

// Write renders the report as an Audition markers panel import file.
func Write(w io.Writer, report *resolve.Report, grammar timecode.Grammar) error {
	rows := MarkerRows(report, grammar)

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = '\t'

		return gocsv.NewSafeCSVWriter(writer)
	})

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write markers csv: %w", err)
	}

	return nil
}

// WriteFile writes the Audition markers import file at path.
func WriteFile(path string, report *resolve.Report, grammar timecode.Grammar) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(file, report, grammar); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// ReportRow is one line of the provenance report layout.
type ReportRow struct {
	Position int64  `csv:"Position"`
	Timecode string `csv:"Timecode"`
	// End is empty for point markers.
	End    string `csv:"End"`
	Label  string `csv:"Label"`
	Source string `csv:"Source"`
	Clip   string `csv:"Clip"`
}

// WriteReport renders the report as a comma separated provenance listing:
// absolute sample position, its timecode, the range end when present, the
// label and the source file and clip the marker came from.
func WriteReport(w io.Writer, report *resolve.Report, grammar timecode.Grammar) error {
	rows := make([]ReportRow, 0, len(report.Markers))

	for _, m := range report.Markers {
		row := ReportRow{
			Position: m.Position,
			Timecode: grammar.Format(m.Position, report.SampleRate),
			Label:    m.Label,
			Source:   m.SourcePath,
			Clip:     m.ClipName,
		}

		if m.IsRange {
			row.End = fmt.Sprintf("%d", m.End)
		}

		rows = append(rows, row)
	}

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		return gocsv.NewSafeCSVWriter(csv.NewWriter(out))
	})

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write report csv: %w", err)
	}

	return nil
}
