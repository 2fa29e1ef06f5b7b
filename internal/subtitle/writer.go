package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"time"
)

// DefaultWriter is the default subtitle track writer
type DefaultWriter struct{}

// NewWriter creates a new subtitle track writer
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write renders the track and writes it to the specified path
func (w *DefaultWriter) Write(path string, track *Track) error {
	if track == nil {
		return fmt.Errorf("track data is empty")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	if _, err := writer.Write(FormatVTT(track)); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// FormatVTT renders a track to VTT text. Cue indexes are regenerated from 1,
// never reused from the input. Output is byte-identical for identical tracks.
func FormatVTT(track *Track) []byte {
	var buf bytes.Buffer

	buf.WriteString("WEBVTT\n\n")

	for i, cue := range track.Cues {
		// write index
		fmt.Fprintf(&buf, "%d\n", i+1)

		// write time
		fmt.Fprintf(&buf, "%s --> %s\n", formatDuration(cue.Start), formatDuration(cue.End))

		// write text; an empty cue still keeps its block so positions survive
		for _, line := range cue.Lines {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// formatDuration formats time.Duration to VTT time format
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)
}
