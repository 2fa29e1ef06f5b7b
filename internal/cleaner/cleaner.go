package cleaner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jwpark-data/subsync/internal/subtitle"
)

var reSpaces = regexp.MustCompile(`\s{2,}`)

// Cleaner strips annotation noise and corrects known typos in cue text.
// It never touches timestamps, and it never drops a cue: a cue emptied by
// cleaning stays in place so positional alignment with the paired track holds.
type Cleaner struct {
	rules      Rules
	bracketRes []*regexp.Regexp
	typoOrder  []string
}

// New builds a Cleaner from the given rules
func New(rules Rules) (*Cleaner, error) {
	bracketRes := make([]*regexp.Regexp, 0, len(rules.BracketPairs))
	for _, pair := range rules.BracketPairs {
		// Quote delimiter literals to avoid regex meta interpretation, and use
		// a negated character class against the close delimiter so removal
		// never crosses a cue line's second annotation.
		open := regexp.QuoteMeta(pair.Open)
		clos := regexp.QuoteMeta(pair.Close)
		re, err := regexp.Compile(fmt.Sprintf(`%s[^%s]*%s`, open, clos, clos))
		if err != nil {
			return nil, fmt.Errorf("invalid bracket pair %s%s: %w", pair.Open, pair.Close, err)
		}
		bracketRes = append(bracketRes, re)
	}

	// longest wrong form first so overlapping typos replace whole matches
	typoOrder := make([]string, 0, len(rules.TypoMap))
	for typo := range rules.TypoMap {
		typoOrder = append(typoOrder, typo)
	}
	sort.Slice(typoOrder, func(i, j int) bool {
		if len(typoOrder[i]) != len(typoOrder[j]) {
			return len(typoOrder[i]) > len(typoOrder[j])
		}
		return typoOrder[i] < typoOrder[j]
	})

	return &Cleaner{
		rules:      rules,
		bracketRes: bracketRes,
		typoOrder:  typoOrder,
	}, nil
}

// CleanTrack returns a copy of the track with every cue's text cleaned.
// Timestamps, ordering and cue count are preserved.
func (c *Cleaner) CleanTrack(track *subtitle.Track) *subtitle.Track {
	out := &subtitle.Track{
		Cues:          make([]subtitle.Cue, len(track.Cues)),
		Language:      track.Language,
		Path:          track.Path,
		SkippedBlocks: track.SkippedBlocks,
	}

	for i, cue := range track.Cues {
		out.Cues[i] = subtitle.Cue{
			Start: cue.Start,
			End:   cue.End,
			Lines: c.CleanLines(cue.Lines),
		}
	}

	return out
}

// CleanLines cleans one cue's text lines. Lines emptied by cleaning are
// dropped from the slice; the result may be empty.
func (c *Cleaner) CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if c.isMetadataLine(line) {
			continue
		}

		text := line
		for _, re := range c.bracketRes {
			text = re.ReplaceAllString(text, "")
		}

		text = c.stripNoise(text)

		for _, typo := range c.typoOrder {
			text = strings.ReplaceAll(text, typo, c.rules.TypoMap[typo])
		}

		text = strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
		if text != "" {
			out = append(out, text)
		}
	}

	return out
}

func (c *Cleaner) isMetadataLine(line string) bool {
	for _, keyword := range c.rules.MetadataKeywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

func (c *Cleaner) stripNoise(text string) string {
	if c.rules.NoiseCharacters == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(c.rules.NoiseCharacters, r) {
			return -1
		}
		return r
	}, text)
}
