package resolve

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/olegtrasher/audition-markers-extractor/sesx"
)

// Warning kinds, mirroring the failure taxonomy: bad containers, broken
// clip references, unreadable files and source/project rate mismatches.
const (
	WarnFormat       = "format"
	WarnReference    = "reference"
	WarnIO           = "io"
	WarnRateMismatch = "rate-mismatch"
)

// Warning is a non-fatal problem encountered during a run.
type Warning struct {
	Kind string
	Path string
	Clip string
	Err  error
}

func loadWarning(path string, err error) Warning {
	kind := WarnFormat
	if errors.Is(err, ErrIO) {
		kind = WarnIO
	}

	return Warning{Kind: kind, Path: path, Err: err}
}

// Options configures a pipeline run.
type Options struct {
	// Parallel bounds concurrent source reads; 0 picks the default.
	Parallel int
	Logger   zerolog.Logger
}

// Run resolves every marker of the parsed project onto its timeline.
//
// The run always completes: unreadable or malformed sources, clips with
// broken file references and rate mismatches are collected as warnings
// and logged, never escalated.
func Run(project *sesx.Project, cache *SourceCache, opts Options) *Report {
	log := opts.Logger

	report := &Report{
		SessionPath: project.Path,
		SampleRate:  project.SampleRate,
	}

	for _, skipped := range project.Skipped {
		log.Warn().
			Str("clip", skipped.Name).
			Str("fileID", skipped.FileID).
			Err(skipped.Err).
			Msg("skipping clip")

		report.Warnings = append(report.Warnings, Warning{
			Kind: WarnReference,
			Clip: skipped.Name,
			Err:  skipped.Err,
		})
	}

	warnings := cache.Preload(project.SourcePaths(), opts.Parallel)
	for _, w := range warnings {
		log.Warn().Str("path", w.Path).Err(w.Err).Msg("skipping source file")
	}

	report.Warnings = append(report.Warnings, warnings...)

	rateWarned := make(map[string]bool)
	markerWarned := make(map[string]bool)
	perClip := make([][]ResolvedMarker, 0, len(project.Clips))

	for _, clip := range project.Clips {
		src, err := cache.Load(clip.SourcePath)
		if err != nil {
			// already reported by the preload pass
			continue
		}

		if !src.MarkerSupport && !markerWarned[src.Path] {
			markerWarned[src.Path] = true

			log.Warn().
				Str("path", src.Path).
				Msg("source format carries no readable markers")
		}

		if src.SampleRate != project.SampleRate && !rateWarned[src.Path] {
			rateWarned[src.Path] = true

			log.Warn().
				Str("path", src.Path).
				Int("sourceRate", src.SampleRate).
				Int("projectRate", project.SampleRate).
				Msg("sample rate mismatch, rescaling marker positions")

			report.Warnings = append(report.Warnings, Warning{
				Kind: WarnRateMismatch,
				Path: src.Path,
			})
		}

		resolved := ResolveClip(project.SampleRate, clip, src)

		log.Debug().
			Str("clip", clip.Name).
			Int("markers", len(resolved)).
			Msg("resolved clip")

		perClip = append(perClip, resolved)
	}

	report.Markers = Assemble(perClip...)

	return report
}

// ExtractSession parses the session at path and resolves its markers.
// Only an unreadable or malformed session file is fatal.
func ExtractSession(path string, opts Options) (*Report, error) {
	project, err := sesx.ParseFile(path)
	if err != nil {
		return nil, err
	}

	return Run(project, NewSourceCache(), opts), nil
}
