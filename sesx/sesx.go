// Package sesx parses Adobe Audition session files (.sesx), an XML document
// describing tracks, clip placements and the media files they reference.
//
// Only the fields needed to place markers on the session timeline are
// consumed: the session sample rate, the file reference table and, per
// audio clip, the referenced file ID, the timeline start point and the
// source in/out points. Clip point attributes are decimal sample values in
// the session's sample rate.
package sesx

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ansel1/merry/v2"
)

var (
	// ErrFormat indicates the document is not a well-formed session file.
	ErrFormat = merry.Sentinel("not a valid sesx session")
	// ErrReference indicates a clip references a file ID with no entry in
	// the session's file table.
	ErrReference = merry.Sentinel("unknown file reference")
)

// Project is the parsed session: its master sample rate, the file reference
// table and the clip placements in document order.
type Project struct {
	Path       string
	SampleRate int
	// Files maps file IDs to resolved file system paths.
	Files map[string]string
	Clips []Clip
	// Skipped lists clips dropped during parsing, with the reason.
	Skipped []SkippedClip
}

// Clip is one placement of a source file on the session timeline. All
// sample values are in the session's sample rate.
type Clip struct {
	Name string
	// SourcePath is the resolved path of the referenced media file.
	SourcePath string
	// TimelineOffset is the sample position of the clip start on the
	// session timeline.
	TimelineOffset int64
	// SourceInStart is the offset into the source where the clip's used
	// material begins. Non-zero when the clip trims the source head.
	SourceInStart int64
	// Duration is the length of source material used by the clip.
	Duration int64
}

// SourceInEnd returns the exclusive end of the clip's used source range.
func (c Clip) SourceInEnd() int64 {
	return c.SourceInStart + c.Duration
}

// SkippedClip records a clip placement the parser could not use.
type SkippedClip struct {
	Name   string
	FileID string
	Err    error
}

type sessionDoc struct {
	XMLName xml.Name   `xml:"sesx"`
	Session sessionElt `xml:"session"`
}

type sessionElt struct {
	SampleRate int        `xml:"sampleRate,attr"`
	Files      []fileElt  `xml:"files>file"`
	Tracks     []trackElt `xml:"tracks>audioTrack"`
}

type fileElt struct {
	ID           string `xml:"id,attr"`
	AbsolutePath string `xml:"absolutePath,attr"`
	RelativePath string `xml:"relativePath,attr"`
}

type trackElt struct {
	Clips []clipElt `xml:"audioClip"`
}

type clipElt struct {
	Name           string  `xml:"name,attr"`
	FileID         string  `xml:"fileID,attr"`
	StartPoint     float64 `xml:"startPoint,attr"`
	SourceInPoint  float64 `xml:"sourceInPoint,attr"`
	SourceOutPoint float64 `xml:"sourceOutPoint,attr"`
}

// ParseFile reads and parses the session at path. A clip referencing an
// unknown file ID or using a non-positive source range is skipped and
// recorded in Project.Skipped; only a malformed document fails the parse.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	project, err := Parse(data)
	if err != nil {
		return nil, merry.Wrap(err, merry.WithValue("path", path))
	}

	project.Path = path
	resolvePaths(project, filepath.Dir(path))

	return project, nil
}

// Parse parses a session document. Relative file paths stay relative until
// resolved against the session directory by ParseFile.
func Parse(data []byte) (*Project, error) {
	var doc sessionDoc

	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, merry.Wrap(ErrFormat, merry.WithCause(err))
	}

	if doc.Session.SampleRate <= 0 {
		return nil, merry.Wrap(ErrFormat, merry.WithMessage("session element missing a sample rate"))
	}

	project := &Project{
		SampleRate: doc.Session.SampleRate,
		Files:      make(map[string]string, len(doc.Session.Files)),
	}

	for _, file := range doc.Session.Files {
		path := file.AbsolutePath
		if path == "" {
			path = file.RelativePath
		}

		if file.ID == "" || path == "" {
			continue
		}

		project.Files[file.ID] = path
	}

	for _, track := range doc.Session.Tracks {
		for _, clip := range track.Clips {
			appendClip(project, clip)
		}
	}

	return project, nil
}

func appendClip(project *Project, elt clipElt) {
	sourcePath, ok := project.Files[elt.FileID]
	if !ok {
		project.Skipped = append(project.Skipped, SkippedClip{
			Name:   elt.Name,
			FileID: elt.FileID,
			Err:    merry.Wrap(ErrReference, merry.WithValue("fileID", elt.FileID)),
		})

		return
	}

	clip := Clip{
		Name:           elt.Name,
		SourcePath:     sourcePath,
		TimelineOffset: roundSamples(elt.StartPoint),
		SourceInStart:  roundSamples(elt.SourceInPoint),
		Duration:       roundSamples(elt.SourceOutPoint) - roundSamples(elt.SourceInPoint),
	}

	if clip.SourceInStart < 0 || clip.Duration <= 0 {
		project.Skipped = append(project.Skipped, SkippedClip{
			Name:   elt.Name,
			FileID: elt.FileID,
			Err:    merry.Wrap(ErrFormat, merry.WithMessage("clip has an empty source range")),
		})

		return
	}

	project.Clips = append(project.Clips, clip)
}

// SourcePaths returns the distinct source paths referenced by the parsed
// clips, in first-use order.
func (p *Project) SourcePaths() []string {
	seen := make(map[string]bool, len(p.Clips))
	paths := make([]string, 0, len(p.Clips))

	for _, clip := range p.Clips {
		if seen[clip.SourcePath] {
			continue
		}

		seen[clip.SourcePath] = true
		paths = append(paths, clip.SourcePath)
	}

	return paths
}

func resolvePaths(project *Project, baseDir string) {
	for id, path := range project.Files {
		project.Files[id] = resolvePath(baseDir, path)
	}

	for i := range project.Clips {
		project.Clips[i].SourcePath = resolvePath(baseDir, project.Clips[i].SourcePath)
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Clean(filepath.Join(baseDir, path))
}

// roundSamples converts a fractional sample attribute to a whole sample
// count, rounding half to even so repeated conversions don't drift.
func roundSamples(v float64) int64 {
	return int64(math.RoundToEven(v))
}
