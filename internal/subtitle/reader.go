package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DefaultReader is the default subtitle track reader
type DefaultReader struct {
	path string
}

// NewReader creates a new subtitle track reader
func NewReader(
	path string,
) Reader {
	return &DefaultReader{
		path: path,
	}
}

// Read reads a VTT subtitle file from disk
func (r *DefaultReader) Read() (*Track, error) {
	if !strings.HasSuffix(strings.ToLower(r.path), ".vtt") {
		return nil, fmt.Errorf("only VTT format subtitle files are supported: %s", r.path)
	}

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file does not exist: %s", r.path)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	return ParseVTT(data, r.path)
}

// vttTimingPattern is the fixed cue timing line format.
// Lines that contain "-->" but do not match it cause their block to be skipped.
var vttTimingPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3}) --> (\d{2}):(\d{2}):(\d{2})\.(\d{3})$`)

// ParseVTT parses raw VTT text into an ordered cue sequence.
// Header lines before the first cue block are discarded, numeric cue index
// lines are discarded, and blocks with malformed timing lines are skipped
// and counted rather than failing the parse.
func ParseVTT(data []byte, path string) (*Track, error) {
	track := &Track{Path: path}

	scanner := bufio.NewScanner(bytes.NewReader(data))

	var currentCue Cue
	var textLines []string
	state := "header" // possible values: "header", "index", "text", "skip"

	flush := func() {
		currentCue.Lines = textLines
		track.Cues = append(track.Cues, currentCue)
		currentCue = Cue{}
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.Contains(line, "-->") {
			if state == "text" {
				flush()
			}
			start, end, err := parseVTTTime(line)
			if err != nil {
				// malformed timing line, drop this block and keep going
				track.SkippedBlocks++
				state = "skip"
				continue
			}
			currentCue.Start = start
			currentCue.End = end
			textLines = []string{}
			state = "text"
			continue
		}

		switch state {
		case "header", "skip":
			if line == "" {
				if state == "skip" {
					state = "index"
				}
				continue
			}
			// everything before the first cue block is file-level metadata

		case "index":
			if line == "" {
				continue
			}
			// a bare numeric line between blocks is an original cue index
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}

		case "text":
			if line == "" {
				flush()
				state = "index"
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// handle last cue block
	if state == "text" {
		flush()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan subtitle text: %w", err)
	}

	track.Language = detectLanguage(track.Cues)

	return track, nil
}

// parseVTTTime parses a VTT timing line into start and end offsets
func parseVTTTime(timeString string) (time.Duration, time.Duration, error) {
	matches := vttTimingPattern.FindStringSubmatch(timeString)

	if len(matches) != 9 {
		return 0, 0, fmt.Errorf("invalid time format: %s", timeString)
	}

	parseTime := func(hours, minutes, seconds, milliseconds string) time.Duration {
		h, _ := strconv.Atoi(hours)
		m, _ := strconv.Atoi(minutes)
		s, _ := strconv.Atoi(seconds)
		ms, _ := strconv.Atoi(milliseconds)

		return time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second +
			time.Duration(ms)*time.Millisecond
	}

	startTime := parseTime(matches[1], matches[2], matches[3], matches[4])
	endTime := parseTime(matches[5], matches[6], matches[7], matches[8])

	return startTime, endTime, nil
}

// detectLanguage simple language detection based on cue text content
func detectLanguage(cues []Cue) language.Tag {
	if len(cues) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)

	for _, cue := range cues {
		text := strings.Join(cue.Lines, "\n")
		if text == "" {
			continue
		}
		lang := whatlanggo.DetectLang(text).Iso6391()
		langMap[lang]++
	}

	// Get top language
	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	if topLang == "" {
		return language.Und
	}

	return language.All.Make(topLang)
}
