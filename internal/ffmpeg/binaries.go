package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths

	overrideMu sync.Mutex
	override   BinaryPaths
)

// SetPaths pins the binaries to use ahead of the environment and PATH.
// Must be called before the first Ensure.
func SetPaths(paths BinaryPaths) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	override = paths
}

func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		overrideMu.Lock()
		pinned := override
		overrideMu.Unlock()
		ensurePath, ensureErr = resolve(pinned, os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// pinned paths, then SRTFIX_FFMPEG_PATH / SRTFIX_FFPROBE_PATH, then PATH
func resolve(
	pinned BinaryPaths,
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := pinned
	if paths.FFmpeg == "" {
		paths.FFmpeg = getenv("SRTFIX_FFMPEG_PATH")
	}
	if paths.FFprobe == "" {
		paths.FFprobe = getenv("SRTFIX_FFPROBE_PATH")
	}

	if paths.FFmpeg == "" {
		if found, err := lookPath("ffmpeg" + executableSuffix()); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := lookPath("ffprobe" + executableSuffix()); err == nil {
			paths.FFprobe = found
		}
	}

	if paths.FFmpeg == "" || paths.FFprobe == "" {
		return BinaryPaths{}, fmt.Errorf(
			"%w: install ffmpeg or set SRTFIX_FFMPEG_PATH and SRTFIX_FFPROBE_PATH",
			ErrNotFound,
		)
	}
	return paths, nil
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
