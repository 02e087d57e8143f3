// Package metadata loads and serves commercial-break sidecar files produced
// by the offline detection tool.
package metadata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/CinkadeusBG/LCARSTV/filesystem"
)

// Break is a time window within one media item to be replaced by commercial
// content. Timestamps are seconds relative to the item start. Break lists are
// immutable once loaded: ascending and non-overlapping after normalization.
type Break struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the window length in seconds.
func (b Break) Duration() float64 {
	return b.End - b.Start
}

// Contains reports whether pos falls inside the window.
func (b Break) Contains(pos float64) bool {
	return pos >= b.Start && pos < b.End
}

// File is the sidecar wire format: {"version":1,"breaks":[{"start","end"},...]}.
type File struct {
	Version int     `json:"version"`
	Breaks  []Break `json:"breaks"`
}

// SupportedVersion is the sidecar format version this build understands.
const SupportedVersion = 1

// ParseError indicates a sidecar file exists but cannot be used. Callers
// treat the item as having zero breaks and log once.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("break metadata %q: %s", e.Path, e.Reason)
}

// SidecarPath maps a media file to its break metadata sidecar: same basename,
// .json extension.
func SidecarPath(mediaPath string) string {
	if idx := strings.LastIndexByte(mediaPath, '.'); idx > strings.LastIndexAny(mediaPath, `/\`) {
		return mediaPath[:idx] + ".json"
	}
	return mediaPath + ".json"
}

// Load reads and validates the break list for a media file. A missing sidecar
// is not an error: the item simply has no breaks. A malformed sidecar returns
// a ParseError so the caller can degrade to zero breaks explicitly.
func Load(mediaPath string) ([]Break, error) {
	path := SidecarPath(mediaPath)

	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		return nil, nil
	}

	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error()}
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid JSON: " + err.Error()}
	}
	if file.Version != SupportedVersion {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unsupported version %d", file.Version)}
	}
	for _, b := range file.Breaks {
		if b.End <= b.Start || b.Start < 0 {
			return nil, &ParseError{Path: path, Reason: fmt.Sprintf("invalid window [%.3f, %.3f]", b.Start, b.End)}
		}
	}

	return Normalize(file.Breaks), nil
}

// Normalize sorts windows ascending and merges overlapping ones, so
// downstream break math can assume ordered, disjoint windows.
func Normalize(breaks []Break) []Break {
	if len(breaks) == 0 {
		return nil
	}

	sorted := make([]Break, len(breaks))
	copy(sorted, breaks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := sorted[:1]
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if b.Start <= last.End {
			if b.End > last.End {
				last.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// NearWindow finds the first unhandled break the position is near: either
// already inside the window or within lookahead seconds of its start. This is
// the cheap gate; callers only evaluate precise boundaries when it reports true.
func NearWindow(breaks []Break, pos, lookahead float64, handled []float64) (Break, bool) {
	for _, b := range breaks {
		if isHandled(handled, b.Start) {
			continue
		}
		if pos < b.End && b.Start-pos <= lookahead {
			return b, true
		}
	}
	return Break{}, false
}

// handledEpsilon tolerates float drift between a persisted marker and the
// break start it was recorded from.
const handledEpsilon = 0.001

func isHandled(handled []float64, start float64) bool {
	for _, h := range handled {
		if start-h < handledEpsilon && h-start < handledEpsilon {
			return true
		}
	}
	return false
}
