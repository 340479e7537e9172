package fixer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFixDir(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "fixed")

	writeFile(t, filepath.Join(inDir, "a.srt"), autoCaptions)
	writeFile(t, filepath.Join(inDir, "b.SRT"), autoCaptions)
	writeFile(t, filepath.Join(inDir, "c.srt"), autoCaptions)
	writeFile(t, filepath.Join(inDir, "old.fixed.srt"), "previous output")
	writeFile(t, filepath.Join(inDir, "notes.txt"), "not a subtitle")
	if err := os.Mkdir(filepath.Join(inDir, "sub.srt"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	f := New(DefaultOptions(), nil)
	results, err := f.FixDir(context.Background(), inDir, outDir, 2)
	if err != nil {
		t.Fatalf("FixDir failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	wantNames := []string{"a.fixed.srt", "b.fixed.srt", "c.fixed.srt"}
	for i, name := range wantNames {
		want := filepath.Join(outDir, name)
		if results[i].Output != want {
			t.Errorf("result %d: expected output %q, got %q", i, want, results[i].Output)
		}
		if got := readFile(t, want); got != fixedCaptions {
			t.Errorf("%s: unexpected content:\n%s", name, got)
		}
	}
}

func TestFixDirInPlaceAndRerun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.srt"), autoCaptions)

	f := New(DefaultOptions(), nil)
	if _, err := f.FixDir(context.Background(), dir, "", 1); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	results, err := f.FixDir(context.Background(), dir, "", 1)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("fixed outputs must not be picked up again, got %d results", len(results))
	}
}

func TestFixDirMissing(t *testing.T) {
	f := New(DefaultOptions(), nil)
	_, err := f.FixDir(context.Background(), filepath.Join(t.TempDir(), "nope"), "", 2)
	if err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestFixDirEmpty(t *testing.T) {
	f := New(DefaultOptions(), nil)
	results, err := f.FixDir(context.Background(), t.TempDir(), "", 2)
	if err != nil {
		t.Fatalf("FixDir failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestFixSidecars(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "My Video [abc123].mp4")
	writeFile(t, media, "not really a video")
	writeFile(t, filepath.Join(dir, "My Video [abc123].en.srt"), autoCaptions)
	writeFile(t, filepath.Join(dir, "My Video [abc123].de.srt"), autoCaptions)
	writeFile(t, filepath.Join(dir, "My Video [abc123].de.fixed.srt"), "already done")
	writeFile(t, filepath.Join(dir, "Other Video.en.srt"), autoCaptions)

	f := New(DefaultOptions(), nil)
	results, err := f.FixSidecars(context.Background(), media)
	if err != nil {
		t.Fatalf("FixSidecars failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	// directory order: ".de" before ".en"
	if !results[0].Skipped {
		t.Errorf("expected .de sidecar to be skipped, got %+v", results[0])
	}
	if got := readFile(t, filepath.Join(dir, "My Video [abc123].de.fixed.srt")); got != "already done" {
		t.Errorf("existing output was overwritten: %q", got)
	}

	if results[1].Skipped {
		t.Errorf("expected .en sidecar to be fixed, got %+v", results[1])
	}
	if got := readFile(t, filepath.Join(dir, "My Video [abc123].en.fixed.srt")); got != fixedCaptions {
		t.Errorf("unexpected content:\n%s", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "Other Video.en.fixed.srt")); !os.IsNotExist(err) {
		t.Error("unrelated subtitle should not be fixed")
	}
}
