package syncer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwpark-data/subsync/internal/subtitle"
)

func makeTrack(path string, count int, offset time.Duration) *subtitle.Track {
	track := &subtitle.Track{Path: path}
	for i := 0; i < count; i++ {
		start := offset + time.Duration(i)*2*time.Second
		track.Cues = append(track.Cues, subtitle.Cue{
			Start: start,
			End:   start + time.Second,
			Lines: []string{fmt.Sprintf("%s cue %d", path, i)},
		})
	}
	return track
}

func TestAlignRestampsPositionally(t *testing.T) {
	reference := makeTrack("a_en.vtt", 5, 0)
	target := makeTrack("a_kr.vtt", 5, 700*time.Millisecond)

	aligned, err := Align(reference, target)
	require.NoError(t, err)
	require.Len(t, aligned.Cues, len(reference.Cues))

	for i := range aligned.Cues {
		assert.Equal(t, reference.Cues[i].Start, aligned.Cues[i].Start, "cue %d start", i)
		assert.Equal(t, reference.Cues[i].End, aligned.Cues[i].End, "cue %d end", i)
		assert.Equal(t, target.Cues[i].Lines, aligned.Cues[i].Lines, "cue %d text", i)
	}
}

func TestAlignCountMismatch(t *testing.T) {
	reference := makeTrack("a_en.vtt", 10, 0)
	target := makeTrack("a_kr.vtt", 9, 0)

	aligned, err := Align(reference, target)
	assert.Nil(t, aligned)

	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 10, mismatch.ReferenceCount)
	assert.Equal(t, 9, mismatch.TargetCount)
	assert.Equal(t, "a_en.vtt", mismatch.ReferencePath)
	assert.Equal(t, "a_kr.vtt", mismatch.TargetPath)
}

func TestAlignDoesNotMutateInputs(t *testing.T) {
	reference := makeTrack("a_en.vtt", 3, 0)
	target := makeTrack("a_kr.vtt", 3, time.Second)

	refStart := reference.Cues[1].Start
	targetStart := target.Cues[1].Start

	_, err := Align(reference, target)
	require.NoError(t, err)

	assert.Equal(t, refStart, reference.Cues[1].Start)
	assert.Equal(t, targetStart, target.Cues[1].Start)
}

func TestAlignEmptyTextCueGetsTimestamp(t *testing.T) {
	reference := makeTrack("a_en.vtt", 2, 0)
	target := &subtitle.Track{
		Path: "a_kr.vtt",
		Cues: []subtitle.Cue{
			{Start: 5 * time.Second, End: 6 * time.Second}, // emptied by cleaning
			{Start: 7 * time.Second, End: 8 * time.Second, Lines: []string{"대사"}},
		},
	}

	aligned, err := Align(reference, target)
	require.NoError(t, err)
	require.Len(t, aligned.Cues, 2)
	assert.Empty(t, aligned.Cues[0].Lines)
	assert.Equal(t, reference.Cues[0].Start, aligned.Cues[0].Start)
	assert.Equal(t, reference.Cues[0].End, aligned.Cues[0].End)
}
