package subtitle

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timecodeRegex = regexp.MustCompile(
	`^(\d+):(\d+):(\d+),(\d+)\s*-->\s*(\d+):(\d+):(\d+),(\d+)`,
)

// reports whether line is a timecode line and returns its window.
// Lines that contain "-->" but do not match, or whose offsets overflow a
// time.Duration, are not timecodes.
func parseTimecodeLine(line string) (time.Duration, time.Duration, bool) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "\ufeff")
	if !strings.Contains(line, "-->") {
		return 0, 0, false
	}

	matches := timecodeRegex.FindStringSubmatch(line)
	if len(matches) != 9 {
		return 0, 0, false
	}

	parts := make([]int, 8)
	for i, m := range matches[1:] {
		n, err := strconv.Atoi(m)
		if err != nil {
			// overflowing digit runs
			return 0, 0, false
		}
		parts[i] = n
	}

	if !timecodeFits(parts[0], parts[1], parts[2], parts[3]) ||
		!timecodeFits(parts[4], parts[5], parts[6], parts[7]) {
		return 0, 0, false
	}

	start := ParseTimecode(parts[0], parts[1], parts[2], parts[3])
	end := ParseTimecode(parts[4], parts[5], parts[6], parts[7])
	return start, end, true
}

func isIndexLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Parse returns the captions of an SRT document in source order.
//
// Blank lines are ignored. Every timecode line opens a cue whose body is
// every following line up to the next timecode line or end of input; the
// index number sitting right before the next timecode is not part of the
// body. Lines before the first timecode are skipped and malformed timecode
// lines are kept as body text. The sequence is lazy and single-pass.
func Parse(text string) iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		var (
			open  bool
			start time.Duration
			end   time.Duration
			body  []string
		)

		emit := func(atEOF bool) bool {
			if !atEOF && len(body) > 0 && isIndexLine(body[len(body)-1]) {
				body = body[:len(body)-1]
			}
			c := Caption{
				Start: start,
				End:   end,
				Text:  strings.TrimSpace(strings.Join(body, "\n")),
			}
			body = body[:0]
			return yield(c)
		}

		for line := range strings.Lines(text) {
			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) == "" {
				continue
			}

			if s, e, ok := parseTimecodeLine(line); ok {
				if open && !emit(false) {
					return
				}
				open = true
				start, end = s, e
				continue
			}

			if open {
				body = append(body, line)
			}
		}

		if open {
			emit(true)
		}
	}
}

// collects a parsed document into a slice
func ParseAll(text string) []Caption {
	var captions []Caption
	for c := range Parse(text) {
		captions = append(captions, c)
	}
	return captions
}
