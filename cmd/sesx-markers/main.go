// This tool reads an Adobe Audition session, collects the cue markers
// embedded in the session's source files and writes them, placed on the
// session timeline, as a markers CSV Audition can import back.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/olegtrasher/audition-markers-extractor/audcsv"
	"github.com/olegtrasher/audition-markers-extractor/resolve"
	"github.com/olegtrasher/audition-markers-extractor/timecode"
	"github.com/olegtrasher/audition-markers-extractor/wav"
)

const usageMessage = `Usage:
  sesx-markers extract -session <file.sesx> [-o <out.csv>] [-parallel n] [-timecode audition|decimal] [-report] [-v]
  sesx-markers inspect <file.wav>`

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errUsage) {
		fmt.Println(usageMessage)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

var errUsage = errors.New("missing or unknown subcommand")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:], out)
	case "inspect":
		return runInspect(args[1:], out)
	default:
		return fmt.Errorf("%w: %q", errUsage, args[0])
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func runExtract(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("extract", flag.ContinueOnError)

	session := flagSet.String("session", "", "path of the session file to read")
	output := flagSet.String("o", "", "path of the CSV to write; defaults to '<session> timeline markers.csv' next to the session")
	parallel := flagSet.Int("parallel", 0, "number of source files read concurrently")
	grammarName := flagSet.String("timecode", "audition", "timecode grammar, audition or decimal")
	report := flagSet.Bool("report", false, "write the provenance report layout instead of the Audition import grid")
	verbose := flagSet.Bool("v", false, "log per clip progress")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *session == "" {
		return errors.New("the -session flag is required")
	}

	grammar, err := grammarByName(*grammarName)
	if err != nil {
		return err
	}

	log := newLogger(*verbose)

	result, err := resolve.ExtractSession(*session, resolve.Options{
		Parallel: *parallel,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = defaultOutputPath(*session)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer file.Close()

	if *report {
		err = audcsv.WriteReport(file, result, grammar)
	} else {
		err = audcsv.Write(file, result, grammar)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d markers written to %s\n", len(result.Markers), path)

	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "%d warnings, see log\n", len(result.Warnings))
	}

	return file.Close()
}

func grammarByName(name string) (timecode.Grammar, error) {
	switch name {
	case "audition":
		return timecode.Audition, nil
	case "decimal":
		return timecode.Decimal, nil
	default:
		return timecode.Grammar{}, fmt.Errorf("unknown timecode grammar %q", name)
	}
}

// defaultOutputPath mirrors the naming Audition users expect from the
// markers panel import flow.
func defaultOutputPath(session string) string {
	base := strings.TrimSuffix(filepath.Base(session), filepath.Ext(session))

	return filepath.Join(filepath.Dir(session), base+" timeline markers.csv")
}

var errMissingPath = errors.New("missing path argument")

func runInspect(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	dec.ReadMetadata()

	if err := dec.Err(); err != nil {
		return err
	}

	info := dec.Info()
	fmt.Fprintf(out, "Format: %s, %d Hz, %d channels, %d bit\n",
		dec.FmtChunk.FormatName(), info.SampleRate, info.NumChannels, info.BitDepth)
	fmt.Fprintf(out, "Samples: %d\n", info.TotalSamples)

	if dec.Metadata == nil {
		fmt.Fprintln(out, "No metadata present")
		return nil
	}

	printInfoStrings(out, dec.Metadata)

	if bext := dec.Metadata.BroadcastExtension; bext != nil {
		fmt.Fprintf(out, "Broadcast: %s (%s %s), time reference %d\n",
			bext.Originator, bext.OriginationDate, bext.OriginationTime, bext.TimeReference)
	}

	if smpl := dec.Metadata.SamplerInfo; smpl != nil {
		for i, l := range smpl.Loops {
			fmt.Fprintf(out, "Loop [%d]: %d..%d type %d\n", i, l.Start, l.End, l.Type)
		}
	}

	for i, m := range dec.Markers() {
		if m.IsRange() {
			fmt.Fprintf(out, "Marker [%d]: %d..%d %q\n", i, m.Position, m.End(), m.Label)
			continue
		}

		fmt.Fprintf(out, "Marker [%d]: %d %q\n", i, m.Position, m.Label)
	}

	for _, c := range dec.UnknownChunks {
		fmt.Fprintf(out, "Unknown chunk: %s (%d bytes)\n", c.IDString(), c.Size)
	}

	return nil
}

func printInfoStrings(out io.Writer, meta *wav.Metadata) {
	entries := []struct {
		name  string
		value string
	}{
		{"Artist", meta.Artist},
		{"Title", meta.Title},
		{"Comments", meta.Comments},
		{"Copyright", meta.Copyright},
		{"CreationDate", meta.CreationDate},
		{"Engineer", meta.Engineer},
		{"Software", meta.Software},
		{"Genre", meta.Genre},
	}

	for _, e := range entries {
		if e.value == "" {
			continue
		}

		fmt.Fprintf(out, "%s: %s\n", e.name, e.value)
	}
}
