package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Pair is one discovered dual-language subtitle pair. ReferencePath is the
// track whose timings win; TargetPath is the track that gets re-stamped.
type Pair struct {
	Base          string
	Variant       string // optional numeric part tail, e.g. "_1"
	ReferencePath string
	TargetPath    string
}

// Key identifies a pair inside one input directory
func (p Pair) Key() string {
	return p.Base + p.Variant
}

// Scanner discovers subtitle pairs in an input directory by filename
// convention: <base><languageSuffix>[_<part>].vtt
type Scanner struct {
	dir             string
	referenceSuffix string
	targetSuffix    string
}

func NewScanner(dir, referenceSuffix, targetSuffix string) *Scanner {
	return &Scanner{
		dir:             dir,
		referenceSuffix: referenceSuffix,
		targetSuffix:    targetSuffix,
	}
}

var variantPattern = regexp.MustCompile(`^_\d+$`)

// Scan lists all complete pairs in the directory, ordered by key.
// Files with only one language present are ignored; pairing never guesses.
func (s *Scanner) Scan(ctx context.Context) ([]Pair, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, fmt.Errorf("input directory %s: %w", s.dir, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", s.dir, err)
	}

	references := make(map[string]Pair)
	targets := make(map[string]string)

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".vtt") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))

		if base, variant, ok := splitStem(stem, s.referenceSuffix); ok {
			references[base+variant] = Pair{
				Base:          base,
				Variant:       variant,
				ReferencePath: filepath.Join(s.dir, name),
			}
			continue
		}
		if base, variant, ok := splitStem(stem, s.targetSuffix); ok {
			targets[base+variant] = filepath.Join(s.dir, name)
		}
	}

	pairs := make([]Pair, 0, len(references))
	for key, pair := range references {
		targetPath, ok := targets[key]
		if !ok {
			continue
		}
		pair.TargetPath = targetPath
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key() < pairs[j].Key()
	})

	return pairs, nil
}

// Find returns the pairs sharing the given base name, across variants
func (s *Scanner) Find(ctx context.Context, base string) ([]Pair, error) {
	all, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	ret := make([]Pair, 0, 1)
	for _, pair := range all {
		if pair.Base == base {
			ret = append(ret, pair)
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no subtitle pair named %q in %s", base, s.dir)
	}
	return ret, nil
}

// splitStem splits "<base><suffix>[_<part>]" and reports whether the stem
// carries the given language suffix
func splitStem(stem, suffix string) (base, variant string, ok bool) {
	idx := strings.LastIndex(stem, suffix)
	if idx < 0 {
		return "", "", false
	}
	rest := stem[idx+len(suffix):]
	if rest != "" && !variantPattern.MatchString(rest) {
		return "", "", false
	}
	return stem[:idx], rest, true
}
