// Package syncer re-stamps a target track's cue timings from a reference
// track on a positional basis: cue N of the target takes the timestamps of
// cue N of the reference. There is no heuristic re-alignment by timestamp
// proximity or content similarity; without semantic or audio information a
// guessed mapping cannot be verified, so unequal cue counts are an error the
// caller has to resolve.
package syncer

import (
	"fmt"

	"github.com/jwpark-data/subsync/internal/subtitle"
)

// CountMismatchError reports that the reference and target tracks cannot be
// aligned positionally because their cue counts differ.
type CountMismatchError struct {
	ReferencePath  string
	TargetPath     string
	ReferenceCount int
	TargetCount    int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("cue count mismatch: reference %s has %d cues, target %s has %d cues",
		e.ReferencePath, e.ReferenceCount, e.TargetPath, e.TargetCount)
}

// Align returns a new track whose cues carry the target's text and the
// reference's timestamps, index for index. Neither input track is mutated.
func Align(reference, target *subtitle.Track) (*subtitle.Track, error) {
	if len(reference.Cues) != len(target.Cues) {
		return nil, &CountMismatchError{
			ReferencePath:  reference.Path,
			TargetPath:     target.Path,
			ReferenceCount: len(reference.Cues),
			TargetCount:    len(target.Cues),
		}
	}

	out := &subtitle.Track{
		Cues:          make([]subtitle.Cue, len(target.Cues)),
		Language:      target.Language,
		Path:          target.Path,
		SkippedBlocks: target.SkippedBlocks,
	}

	for i, cue := range target.Cues {
		out.Cues[i] = subtitle.Cue{
			Start: reference.Cues[i].Start,
			End:   reference.Cues[i].End,
			Lines: cue.Lines,
		}
	}

	return out, nil
}
