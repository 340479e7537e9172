package fixer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// lists the SRT files of dir that are not outputs of a previous run
func (f *Fixer) sources(dir string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !isSRT(name) || f.isOutput(name) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// FixDir fixes every SRT file in inDir into outDir using up to concurrency
// workers. A failing file does not stop the others; all failures are
// returned joined. Results keep directory order.
func (f *Fixer) FixDir(
	ctx context.Context,
	inDir, outDir string,
	concurrency int,
) ([]Result, error) {
	info, err := os.Stat(inDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input directory does not exist or is not accessible: %s", inDir)
	}

	if outDir == "" {
		outDir = inDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := f.sources(inDir, nil)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []Result{}, nil
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	logger := f.logger.With("run_id", uuid.NewString())
	logger.Infow("Fixing directory",
		"input", inDir,
		"output", outDir,
		"files", len(files),
		"concurrency", concurrency,
	)

	type fileResult struct {
		Index  int
		Result Result
		Error  error
	}

	workChan := make(chan int)
	resultChan := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(files); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				src := files[idx]
				res, err := f.FixFile(ctx, src, OutputPath(src, outDir, f.opts.Suffix))
				resultChan <- fileResult{Index: idx, Result: res, Error: err}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, len(files))
	done := make([]bool, len(files))
	var errs []error
	for r := range resultChan {
		r.Result.Err = r.Error
		results[r.Index] = r.Result
		done[r.Index] = true
		if r.Error != nil {
			logger.Warnw("Failed to fix file",
				"input", r.Result.Source,
				"error", r.Error,
			)
			errs = append(errs, fmt.Errorf("%s: %w", r.Result.Source, r.Error))
			continue
		}
		if r.Result.Skipped {
			logger.Infow("Skipped file", "input", r.Result.Source, "output", r.Result.Output)
			continue
		}
		logger.Infow("Fixed file",
			"input", r.Result.Source,
			"output", r.Result.Output,
			"captions_in", r.Result.Stats.Parsed,
			"captions_out", r.Result.Stats.Emitted,
		)
	}

	if err := ctx.Err(); err != nil {
		for i, ok := range done {
			if !ok {
				results[i] = Result{
					Source: files[i],
					Output: OutputPath(files[i], outDir, f.opts.Suffix),
					Err:    err,
				}
			}
		}
		errs = append(errs, err)
	}

	return results, errors.Join(errs...)
}

// FixSidecars fixes the SRT files sitting next to a downloaded media file
// whose names contain the media base name. Files whose fixed output already
// exists are skipped.
func (f *Fixer) FixSidecars(ctx context.Context, mediaPath string) ([]Result, error) {
	dir := filepath.Dir(mediaPath)
	base := filepath.Base(mediaPath)
	rawName := strings.TrimSuffix(base, filepath.Ext(base))
	if rawName == "" {
		return nil, fmt.Errorf("invalid media path: %s", mediaPath)
	}

	files, err := f.sources(dir, func(name string) bool {
		return strings.Contains(name, rawName)
	})
	if err != nil {
		return nil, err
	}

	var (
		results []Result
		errs    []error
	)
	for _, src := range files {
		dst := OutputPath(src, "", f.opts.Suffix)
		if _, err := os.Stat(dst); err == nil {
			f.logger.Infow("Skipped sidecar, output exists", "input", src, "output", dst)
			results = append(results, Result{Source: src, Output: dst, Skipped: true})
			continue
		}

		res, err := f.FixFile(ctx, src, dst)
		res.Err = err
		results = append(results, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}
		f.logger.Infow("Fixed sidecar", "input", src, "output", dst)
	}

	return results, errors.Join(errs...)
}
