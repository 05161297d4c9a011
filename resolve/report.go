package resolve

import (
	"sort"

	"github.com/samber/lo"
)

// Report is the assembled run output: every resolved marker across all
// clips, ordered by absolute timeline position.
type Report struct {
	SessionPath string
	// SampleRate is the project rate all positions are expressed in.
	SampleRate int
	Markers    []ResolvedMarker
	Warnings   []Warning
}

// Assemble concatenates per-clip marker slices in document order and sorts
// them by absolute position. The sort is stable: markers resolving to the
// same position keep their document order, and nothing is deduplicated.
func Assemble(perClip ...[]ResolvedMarker) []ResolvedMarker {
	markers := lo.Flatten(perClip)

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Position < markers[j].Position
	})

	return markers
}
