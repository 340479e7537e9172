package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/srtfix/internal/ffmpeg"
)

// subtitle stream inside a media container
type Stream struct {
	Index    int    // absolute stream index in the container
	SubIndex int    // position among subtitle streams, as used by -map 0:s:N
	Codec    string // e.g. subrip, mov_text, webvtt, hdmv_pgs_subtitle
	Language string
	Title    string
}

// codecs ffmpeg can turn into SubRip text
var textCodecs = map[string]bool{
	"subrip":   true,
	"srt":      true,
	"mov_text": true,
	"webvtt":   true,
	"ass":      true,
	"ssa":      true,
	"text":     true,
}

func (s Stream) IsText() bool {
	return textCodecs[s.Codec]
}

// defines interface for subtitle track operations
type Processor interface {
	// lists subtitle streams of a media file
	SubtitleStreams(ctx context.Context, mediaPath string) ([]Stream, error)

	// writes the Nth subtitle stream as SRT
	ExtractSubtitle(
		ctx context.Context,
		mediaPath, outputPath string,
		subIndex int,
	) error
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

// JSON output from ffprobe -show_streams
type ffprobeOutput struct {
	Streams []struct {
		Index     int               `json:"index"`
		CodecName string            `json:"codec_name"`
		Tags      map[string]string `json:"tags"`
	} `json:"streams"`
}

func (p *DefaultProcessor) SubtitleStreams(
	ctx context.Context,
	mediaPath string,
) ([]Stream, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		mediaPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseStreams(out.Bytes())
}

func parseStreams(data []byte) ([]Stream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]Stream, 0, len(probe.Streams))
	for i, s := range probe.Streams {
		streams = append(streams, Stream{
			Index:    s.Index,
			SubIndex: i,
			Codec:    s.CodecName,
			Language: s.Tags["language"],
			Title:    s.Tags["title"],
		})
	}
	return streams, nil
}

func subtitleKwArgs(subIndex int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", subIndex),
		"c:s": "srt",
	}
}

// converts the chosen subtitle stream to an SRT file
func (p *DefaultProcessor) ExtractSubtitle(
	ctx context.Context,
	mediaPath, outputPath string,
	subIndex int,
) error {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("media file not found: %s", mediaPath)
	}
	if subIndex < 0 {
		return fmt.Errorf("invalid subtitle stream %d", subIndex)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(mediaPath).
		Output(outputPath, subtitleKwArgs(subIndex)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Silent(true).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}

	return nil
}
