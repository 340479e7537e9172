package subtitle

import (
	"iter"
	"strings"
	"time"
	"unicode/utf8"
)

// tuning for the dedupe engine
type DedupeOptions struct {
	// a caption whose reverse duration (start - end) is below this and whose
	// text is already shown by the pending caption only extends it
	FlickerThreshold time.Duration
	// minimum distance kept between consecutive captions, at least 1ms
	Gap time.Duration
	// captions with at most this many words that do not continue the
	// pending caption but start before it ends are appended to it;
	// 0 disables appending
	AppendMaxWords int
}

func DefaultDedupeOptions() DedupeOptions {
	return DedupeOptions{
		FlickerThreshold: 150 * time.Millisecond,
		Gap:              time.Millisecond,
		AppendMaxWords:   2,
	}
}

// counters describing what the engine did to a caption stream
type Stats struct {
	Parsed   int `json:"parsed"`
	Emitted  int `json:"emitted"`
	Empty    int `json:"empty"`
	Flickers int `json:"flickers"`
	Fused    int `json:"fused"`
	Appended int `json:"appended"`
	Clamped  int `json:"clamped"`
	Folded   int `json:"folded"`
	Swapped  int `json:"swapped"`
}

// Deduper collapses auto-caption artifacts in a caption stream.
//
// It owns at most one pending caption. Each pushed caption is either folded
// into the pending one or replaces it, in which case the old pending caption
// is returned for emission with its end clamped so it never overlaps the
// next one. A Deduper is not safe for concurrent use and must not be shared
// between streams.
type Deduper struct {
	opts       DedupeOptions
	pending    Caption
	hasPending bool
	stats      Stats
}

func NewDeduper(opts DedupeOptions) *Deduper {
	return &Deduper{opts: opts}
}

func (d *Deduper) Stats() Stats {
	return d.stats
}

// Push feeds the next caption and returns the caption that became final,
// if any.
func (d *Deduper) Push(cur Caption) (Caption, bool) {
	d.stats.Parsed++

	cur.Text = trimBlankLines(cur.Text)
	if cur.Text == "" {
		d.stats.Empty++
		return Caption{}, false
	}

	if !d.hasPending {
		d.fixOrder(&cur)
		d.pending = cur
		d.hasPending = true
		return Caption{}, false
	}

	prev := d.pending

	// gate uses the raw window, before order correction
	if cur.Start-cur.End < d.opts.FlickerThreshold &&
		strings.Contains(prev.Text, cur.Text) {
		prev.End = max(prev.End, cur.Start, cur.End)
		d.stats.Flickers++
		d.pending = prev
		return Caption{}, false
	}

	d.fixOrder(&cur)

	prevLines := prev.Lines()
	curLines := cur.Lines()
	lastLine := prevLines[len(prevLines)-1]

	switch {
	case curLines[0] == lastLine:
		if len(prevLines) == 1 && isLeadWord(lastLine) {
			// lone lead-in word: glue it to the new caption instead of
			// emitting it on its own
			rest := curLines[1:]
			if len(rest) == 0 {
				cur.Text = lastLine
			} else {
				rest[0] = strings.TrimSpace(lastLine) + " " + rest[0]
				cur.Text = strings.Join(rest, "\n")
			}
			cur.Start = prev.Start
			cur.End = max(cur.End, prev.End)
			d.stats.Fused++
			d.pending = cur
			return Caption{}, false
		}

		cur.Text = trimBlankLines(strings.Join(curLines[1:], "\n"))
		if cur.Text == "" {
			prev.End = max(prev.End, cur.End)
			d.stats.Flickers++
			d.pending = prev
			return Caption{}, false
		}
		d.stats.Fused++

	case d.opts.AppendMaxWords > 0 &&
		cur.Start <= prev.End &&
		len(strings.Fields(cur.Text)) <= d.opts.AppendMaxWords:
		prev.Text = appendWords(prev.Text, cur.Text)
		prev.End = max(prev.End, cur.End)
		d.stats.Appended++
		d.pending = prev
		return Caption{}, false
	}

	if cur.Start <= prev.End {
		clamped := cur.Start - d.gap()
		if clamped <= prev.Start {
			// prev would be left without a window
			cur.Text = prev.Text + "\n" + cur.Text
			cur.Start = prev.Start
			cur.End = max(cur.End, prev.End)
			d.stats.Folded++
			d.pending = cur
			return Caption{}, false
		}
		prev.End = clamped
		d.stats.Clamped++
	}

	d.pending = cur
	d.stats.Emitted++
	return prev, true
}

// Flush returns the pending caption once the input is exhausted.
func (d *Deduper) Flush() (Caption, bool) {
	if !d.hasPending {
		return Caption{}, false
	}
	out := d.pending
	d.pending = Caption{}
	d.hasPending = false
	d.stats.Emitted++
	return out, true
}

// All runs the engine over captions, pulling one caption at a time.
func (d *Deduper) All(captions iter.Seq[Caption]) iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		for c := range captions {
			if out, ok := d.Push(c); ok && !yield(out) {
				return
			}
		}
		if out, ok := d.Flush(); ok {
			yield(out)
		}
	}
}

// Dedupe runs a fresh engine with default options over captions.
func Dedupe(captions iter.Seq[Caption]) iter.Seq[Caption] {
	return NewDeduper(DefaultDedupeOptions()).All(captions)
}

func (d *Deduper) fixOrder(c *Caption) {
	if c.Start > c.End {
		c.Start, c.End = c.End, c.Start
		d.stats.Swapped++
	}
	if c.Start == c.End {
		c.End += d.gap()
	}
}

// emitted captions always end strictly before the next one starts
func (d *Deduper) gap() time.Duration {
	return max(d.opts.Gap, time.Millisecond)
}

// drops blank leading and trailing lines, keeping inner ones
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func isLeadWord(line string) bool {
	word := strings.TrimSpace(line)
	return !strings.ContainsAny(word, " \t") && utf8.RuneCountInString(word) > 2
}

func appendWords(text, tail string) string {
	words := strings.Join(strings.Fields(tail), " ")
	if strings.HasSuffix(text, " ") {
		return text + words
	}
	return text + " " + words
}
