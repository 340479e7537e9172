package subtitle

import (
	"strings"
	"time"
)

// represents single timed caption
type Caption struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// caption text split into its lines
func (c Caption) Lines() []string {
	return strings.Split(c.Text, "\n")
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
)

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	default:
		return ".srt"
	}
}
