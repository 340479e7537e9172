package subtitle

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/asticode/go-astisub"
)

func TestRender(t *testing.T) {
	c := Caption{
		Start: ParseTimecode(0, 1, 2, 30),
		End:   ParseTimecode(1, 0, 0, 5),
		Text:  "two\nlines",
	}
	want := "7\n00:01:02,030 --> 01:00:00,005\ntwo\nlines\n\n"
	if got := Render(7, c); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderAll(t *testing.T) {
	captions := []Caption{
		{Start: time.Second, End: 2 * time.Second, Text: "one"},
		{Start: 3 * time.Second, End: 4 * time.Second, Text: "two"},
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\none\n\n" +
		"2\n00:00:03,000 --> 00:00:04,000\ntwo"
	if got := RenderAll(slices.Values(captions)); got != want {
		t.Errorf("RenderAll() = %q, want %q", got, want)
	}

	if got := RenderAll(slices.Values([]Caption(nil))); got != "" {
		t.Errorf("RenderAll(empty) = %q, want empty", got)
	}
}

func TestProcessOutputIsReadableSRT(t *testing.T) {
	out := Process(noisyAutoCaptions)

	subs, err := astisub.ReadFromSRT(strings.NewReader(out + "\n"))
	if err != nil {
		t.Fatalf("output is not readable SRT: %v", err)
	}
	if len(subs.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(subs.Items))
	}
	if subs.Items[0].EndAt != 2499*time.Millisecond {
		t.Errorf("item 0: expected end 2.499s, got %v", subs.Items[0].EndAt)
	}
	if subs.Items[3].StartAt != 6*time.Second {
		t.Errorf("item 3: expected start 6s, got %v", subs.Items[3].StartAt)
	}
	for i := 1; i < len(subs.Items); i++ {
		if subs.Items[i-1].EndAt > subs.Items[i].StartAt {
			t.Errorf("items %d and %d overlap", i-1, i)
		}
	}
}

func TestSRTWriterWrite(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "nested", "out.fixed.srt")

	w := &SRTWriter{}
	if err := w.Write(cleanedAutoCaptions, outPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != cleanedAutoCaptions {
		t.Errorf("written content differs:\n%s", data)
	}

	entries, err := os.ReadDir(filepath.Dir(outPath))
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}
