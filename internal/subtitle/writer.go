package subtitle

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// formats one SRT block: index, timecode line, text and a blank line
func Render(index int, c Caption) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
		index,
		FormatTimecode(c.Start),
		FormatTimecode(c.End),
		c.Text)
}

// renders captions numbered from 1, with trailing whitespace trimmed
func RenderAll(captions iter.Seq[Caption]) string {
	var sb strings.Builder
	index := 1
	for c := range captions {
		sb.WriteString(Render(index, c))
		index++
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

// SubRip format
type SRTWriter struct{}

// writes rendered SRT text to path through a temp file in the same
// directory, so readers never see a partial file
func (w *SRTWriter) Write(text string, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmpPath := filepath.Join(
		filepath.Dir(path),
		"."+filepath.Base(path)+"."+uuid.NewString()+".tmp",
	)
	if err := os.WriteFile(tmpPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write SRT file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move SRT file into place: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
