package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Reader is the interface for reading subtitle tracks
type Reader interface {
	Read() (*Track, error)
}

// Writer is the interface for writing subtitle tracks
type Writer interface {
	Write(path string, track *Track) error
}

// Cue represents a single subtitle entry
type Cue struct {
	Start time.Duration // start time
	End   time.Duration // end time
	Lines []string      // text lines, possibly empty after cleaning
}

// Track represents one language's ordered cue sequence.
// Cue identity within a track is its position; there is no persistent cue ID.
type Track struct {
	Cues          []Cue
	Language      language.Tag
	Path          string
	SkippedBlocks int // cue blocks dropped because of malformed timestamp lines
}
