package cleaner

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Delimiter is one bracket pair whose enclosed content is stripped
type Delimiter struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// Rules holds the cleaning configuration. Rules are data supplied by the
// caller, not behavior baked into the pipeline, so per-language typo lists
// and noise sets can be audited and extended without touching parsing or
// serialization code.
type Rules struct {
	// BracketPairs lists delimiter pairs whose content is annotation noise,
	// e.g. "[laughs]", "(music)". One nesting level only.
	BracketPairs []Delimiter `toml:"bracket_pairs"`

	// NoiseCharacters are individual characters stripped from cue text.
	// Normal sentence punctuation does not belong here.
	NoiseCharacters string `toml:"noise_characters"`

	// MetadataKeywords mark non-dialogue credit lines; a text line containing
	// any of them is dropped entirely.
	MetadataKeywords []string `toml:"metadata_keywords"`

	// TypoMap maps known transcription typos to their corrections.
	// Longer wrong forms are applied before shorter ones so overlapping
	// patterns never produce partial replacements.
	TypoMap map[string]string `toml:"typo_map"`
}

// DefaultRules returns the rule set used for the English/Korean drama corpus
func DefaultRules() Rules {
	return Rules{
		BracketPairs: []Delimiter{
			{Open: "[", Close: "]"},
			{Open: "(", Close: ")"},
		},
		NoiseCharacters: "♪♫♬※●○◆★☆►▶*#@^~|=+_",
		MetadataKeywords: []string{
			"배급:",
			"제공:",
			"감독:",
			"제작:",
			"Presented by",
			"Director:",
			"Production:",
			"WEBVTT",
		},
		TypoMap: map[string]string{
			"필요고 없지": "필요도 없지",
			"됬":      "됐",
		},
	}
}

// LoadRules reads a rule set from a TOML file
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rules Rules
	if err := toml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	for _, pair := range rules.BracketPairs {
		if pair.Open == "" || pair.Close == "" {
			return Rules{}, fmt.Errorf("rules file %s: bracket pair needs both open and close", path)
		}
	}

	return rules, nil
}
