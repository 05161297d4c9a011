// Package wav reads marker metadata out of RIFF/WAVE containers.
//
// The decoder walks the chunk structure without touching audio samples. It
// parses the fmt header, cue points with their LIST/adtl companions
// (labl/note/ltxt), LIST/INFO string entries, smpl sampler loops and the
// bext broadcast extension. Unknown chunks are recorded, never fatal, and a
// chunk that claims more bytes than the file holds truncates the scan
// instead of failing it.
//
// ReadMarkers is the convenience entry point: it returns the stream shape
// of a file together with its embedded markers, where a cue point merged
// with an ltxt region length becomes a range marker.
package wav
