package cleaner

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwpark-data/subsync/internal/subtitle"
)

func testRules() Rules {
	return Rules{
		BracketPairs: []Delimiter{
			{Open: "[", Close: "]"},
			{Open: "(", Close: ")"},
		},
		NoiseCharacters:  "!♪",
		MetadataKeywords: []string{"배급:", "Presented by"},
		TypoMap:          map[string]string{"됬다": "됐다"},
	}
}

func TestCleanLinesRemovesBracketsAndNoise(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	got := c.CleanLines([]string{"안녕 [laughs] (music) 하세요!!"})
	assert.Equal(t, []string{"안녕 하세요"}, got)
}

func TestCleanLinesCorrectsTypos(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	got := c.CleanLines([]string{"끝이 됬다"})
	assert.Equal(t, []string{"끝이 됐다"}, got)
}

func TestCleanLinesLongestTypoWins(t *testing.T) {
	rules := testRules()
	rules.TypoMap = map[string]string{
		"필요고":    "필요도",
		"필요고 없지": "필요도 없지",
	}
	c, err := New(rules)
	require.NoError(t, err)

	got := c.CleanLines([]string{"그럴 필요고 없지"})
	assert.Equal(t, []string{"그럴 필요도 없지"}, got)
}

func TestCleanLinesDropsMetadataLines(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	got := c.CleanLines([]string{"배급: CJ엔터테인먼트", "진짜 대사"})
	assert.Equal(t, []string{"진짜 대사"}, got)
}

func TestCleanLinesEmptyResult(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	got := c.CleanLines([]string{"[intro music]"})
	assert.Empty(t, got)
}

func TestCleanLinesIdempotent(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	lines := []string{"안녕 [laughs] 하세요!!", "끝이 됬다 (sighs)", "[music]"}
	once := c.CleanLines(lines)
	twice := c.CleanLines(once)
	assert.Equal(t, once, twice)
}

func TestCleanTrackPreservesCuesAndTimestamps(t *testing.T) {
	c, err := New(testRules())
	require.NoError(t, err)

	track := &subtitle.Track{
		Cues: []subtitle.Cue{
			{Start: time.Second, End: 2 * time.Second, Lines: []string{"[intro music]"}},
			{Start: 3 * time.Second, End: 4 * time.Second, Lines: []string{"대사 (웃음)"}},
		},
		SkippedBlocks: 2,
	}

	cleaned := c.CleanTrack(track)

	require.Len(t, cleaned.Cues, 2)
	// emptied cue keeps its slot and its timestamps
	assert.Empty(t, cleaned.Cues[0].Lines)
	assert.Equal(t, time.Second, cleaned.Cues[0].Start)
	assert.Equal(t, 2*time.Second, cleaned.Cues[0].End)
	assert.Equal(t, []string{"대사"}, cleaned.Cues[1].Lines)
	assert.Equal(t, 2, cleaned.SkippedBlocks)

	// source track untouched
	assert.Equal(t, []string{"[intro music]"}, track.Cues[0].Lines)
}

func TestDefaultRulesCompile(t *testing.T) {
	_, err := New(DefaultRules())
	require.NoError(t, err)
}

func TestLoadRules(t *testing.T) {
	path := t.TempDir() + "/rules.toml"
	content := `
noise_characters = "!"
metadata_keywords = ["배급:"]

[[bracket_pairs]]
open = "["
close = "]"

[typo_map]
"됬다" = "됐다"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "!", rules.NoiseCharacters)
	assert.Equal(t, []Delimiter{{Open: "[", Close: "]"}}, rules.BracketPairs)
	assert.Equal(t, "됐다", rules.TypoMap["됬다"])
}

func TestLoadRulesRejectsHalfPair(t *testing.T) {
	path := t.TempDir() + "/rules.toml"
	content := `
[[bracket_pairs]]
open = "["
close = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}
