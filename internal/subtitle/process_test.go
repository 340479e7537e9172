package subtitle

import (
	"testing"
)

const noisyAutoCaptions = `1
00:00:00,000 --> 00:00:02,500
so today we are going

2
00:00:02,490 --> 00:00:02,500
so today we are going

3
00:00:02,500 --> 00:00:05,000
so today we are going
to talk about go

4
00:00:04,990 --> 00:00:05,000
to talk about go

5
00:00:05,000 --> 00:00:07,000
to talk about go
and why it is great

6
00:00:07,000 --> 00:00:06,000
inverted window right here

7
00:00:06,500 --> 00:00:06,500

8
00:00:07,000 --> 00:00:09,000
yes
`

const cleanedAutoCaptions = `1
00:00:00,000 --> 00:00:02,499
so today we are going

2
00:00:02,500 --> 00:00:04,999
to talk about go

3
00:00:05,000 --> 00:00:05,999
and why it is great

4
00:00:06,000 --> 00:00:09,000
inverted window right here yes`

func TestProcess(t *testing.T) {
	got := Process(noisyAutoCaptions)
	if got != cleanedAutoCaptions {
		t.Errorf("unexpected output:\n%s\n--- want ---\n%s", got, cleanedAutoCaptions)
	}
}

func TestProcessWithOptionsStats(t *testing.T) {
	_, stats := ProcessWithOptions(noisyAutoCaptions, DefaultDedupeOptions())

	want := Stats{
		Parsed:   8,
		Emitted:  4,
		Empty:    1,
		Flickers: 2,
		Fused:    2,
		Appended: 1,
		Clamped:  3,
		Swapped:  1,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestProcessEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n", "1\n2\n3\n"} {
		if got := Process(input); got != "" {
			t.Errorf("Process(%q) = %q, want empty", input, got)
		}
	}
}

func TestProcessDropsNumberOnlyCue(t *testing.T) {
	input := "00:00:01,000 --> 00:00:02,000\n1984\n00:00:03,000 --> 00:00:04,000\nnext cue"
	want := "1\n00:00:03,000 --> 00:00:04,000\nnext cue"
	if got := Process(input); got != want {
		t.Errorf("unexpected output:\n%s", got)
	}
}
