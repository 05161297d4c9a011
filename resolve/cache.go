package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gocache "github.com/Code-Hex/go-generics-cache"
	"github.com/ansel1/merry/v2"
	"github.com/go-audio/aiff"

	"github.com/olegtrasher/audition-markers-extractor/wav"
)

var (
	// ErrFormat indicates a source file that is not a readable container.
	ErrFormat = merry.Sentinel("unreadable source format")
	// ErrIO indicates a source file that is missing or unreadable.
	ErrIO = merry.Sentinel("source file unreadable")
)

// Source is a loaded media file: its stream shape plus embedded markers.
type Source struct {
	Path       string
	SampleRate int
	// TotalSamples is the source length, zero when unknown.
	TotalSamples int64
	Markers      []wav.Marker
	// MarkerSupport is false for formats whose markers aren't read
	// (AIFF sources contribute their sample rate only).
	MarkerSupport bool
}

// SourceCache loads media files at most once per run, keyed by cleaned
// path. Failed loads are cached too, so a source shared by many clips is
// probed a single time. Safe for concurrent use.
type SourceCache struct {
	entries *gocache.Cache[string, *cacheEntry]
}

type cacheEntry struct {
	src *Source
	err error
}

// NewSourceCache returns an empty cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{entries: gocache.New[string, *cacheEntry]()}
}

// Load returns the source at path, reading it on first use.
func (c *SourceCache) Load(path string) (*Source, error) {
	key := filepath.Clean(path)

	if entry, ok := c.entries.Get(key); ok {
		return entry.src, entry.err
	}

	src, err := loadSource(key)
	c.entries.Set(key, &cacheEntry{src: src, err: err})

	return src, err
}

func loadSource(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, merry.Wrap(ErrIO, merry.WithCause(err), merry.WithValue("path", path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".bwf":
		return loadWav(path)
	case ".aif", ".aiff":
		return loadAiff(path)
	default:
		return nil, merry.Wrap(ErrFormat,
			merry.WithMessagef("unsupported source type %s", filepath.Ext(path)),
			merry.WithValue("path", path))
	}
}

func loadWav(path string) (*Source, error) {
	info, markers, err := wav.ReadMarkers(path)
	if err != nil {
		return nil, merry.Wrap(ErrFormat, merry.WithCause(err), merry.WithValue("path", path))
	}

	return &Source{
		Path:          path,
		SampleRate:    int(info.SampleRate),
		TotalSamples:  info.TotalSamples,
		Markers:       markers,
		MarkerSupport: true,
	}, nil
}

// loadAiff reads the stream shape of an AIFF source. Markers embedded in
// AIFF MARK chunks are not extracted; the source still participates in
// rate conversion for clips that reference it.
func loadAiff(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, merry.Wrap(ErrIO, merry.WithCause(err), merry.WithValue("path", path))
	}
	defer file.Close()

	d := aiff.NewDecoder(file)
	d.ReadInfo()

	if err := d.Err(); err != nil {
		return nil, merry.Wrap(ErrFormat,
			merry.WithCause(fmt.Errorf("failed to read aiff info: %w", err)),
			merry.WithValue("path", path))
	}

	if d.SampleRate <= 0 {
		return nil, merry.Wrap(ErrFormat,
			merry.WithMessage("aiff file missing a sample rate"),
			merry.WithValue("path", path))
	}

	return &Source{
		Path:         path,
		SampleRate:   d.SampleRate,
		TotalSamples: int64(d.NumSampleFrames),
	}, nil
}
