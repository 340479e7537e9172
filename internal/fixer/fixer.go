package fixer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/srtfix/internal/logging"
	"github.com/mgpai22/srtfix/internal/subtitle"
	"github.com/mgpai22/srtfix/internal/textenc"
)

var ErrNotSRT = errors.New("not an SRT file")

const DefaultSuffix = ".fixed.srt"

type Options struct {
	Dedupe       subtitle.DedupeOptions
	Suffix       string // appended to the source base name, e.g. ".fixed.srt"
	SkipExisting bool   // leave outputs that already exist untouched
}

func DefaultOptions() Options {
	return Options{
		Dedupe: subtitle.DefaultDedupeOptions(),
		Suffix: DefaultSuffix,
	}
}

// outcome of fixing one file
type Result struct {
	Source  string
	Output  string
	Charset string
	Stats   subtitle.Stats
	Skipped bool
	Err     error // set by the batch helpers for files that failed
}

// File/Batch driver around the subtitle core. Every file gets its own
// dedupe engine, so one Fixer may be used from several goroutines.
type Fixer struct {
	opts   Options
	writer *subtitle.SRTWriter
	logger *logging.Logger
}

func New(opts Options, logger *logging.Logger) *Fixer {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fixer{
		opts:   opts,
		writer: &subtitle.SRTWriter{},
		logger: logger,
	}
}

func (f *Fixer) Options() Options {
	return f.opts
}

// cleans an in-memory SRT document
func (f *Fixer) FixText(text string) (string, subtitle.Stats) {
	return subtitle.ProcessWithOptions(text, f.opts.Dedupe)
}

// cleans raw bytes of unknown encoding
func (f *Fixer) FixBytes(data []byte) (string, subtitle.Stats, string, error) {
	text, charset, err := textenc.Decode(data)
	if err != nil {
		return "", subtitle.Stats{}, charset, err
	}
	out, stats := f.FixText(text)
	return out, stats, charset, nil
}

// OutputPath names the fixed file for src: "dir/name.srt" becomes
// "outDir/name<suffix>". An empty outDir keeps the source directory.
func OutputPath(src, outDir, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if outDir == "" {
		outDir = filepath.Dir(src)
	}
	return filepath.Join(outDir, base+suffix)
}

func isSRT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), subtitle.GetExtensionForFormat(subtitle.FormatSRT))
}

// reports whether path is itself an output of this fixer
func (f *Fixer) isOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), strings.ToLower(f.opts.Suffix))
}

// FixFile reads src, cleans it and writes dst. An empty dst means
// OutputPath(src, "", suffix).
func (f *Fixer) FixFile(ctx context.Context, src, dst string) (Result, error) {
	if dst == "" {
		dst = OutputPath(src, "", f.opts.Suffix)
	}
	res := Result{Source: src, Output: dst}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return res, fmt.Errorf("input file not found: %s", src)
		}
		return res, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return res, fmt.Errorf("input is a directory: %s", src)
	}
	if !isSRT(src) {
		return res, fmt.Errorf("%w: %s", ErrNotSRT, src)
	}

	if f.opts.SkipExisting {
		if _, err := os.Stat(dst); err == nil {
			res.Skipped = true
			f.logger.Debugw("Skipping existing output", "output", dst)
			return res, nil
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return res, fmt.Errorf("failed to read input: %w", err)
	}

	out, stats, charset, err := f.FixBytes(data)
	res.Charset = charset
	if err != nil {
		return res, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	res.Stats = stats

	if err := f.writer.Write(out, dst); err != nil {
		return res, err
	}

	f.logger.Debugw("Fixed subtitle file",
		"input", src,
		"output", dst,
		"charset", charset,
		"parsed", stats.Parsed,
		"emitted", stats.Emitted,
	)

	return res, nil
}
