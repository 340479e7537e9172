package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mgpai22/srtfix/internal/subtitle"
	"gopkg.in/yaml.v3"
)

// looked up in the working directory when no path is given
const DefaultPath = "srtfix.yaml"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Dedupe engine
	FlickerThresholdMs int `yaml:"flicker_threshold_ms"`
	OverlapGapMs       int `yaml:"overlap_gap_ms"`
	AppendMaxWords     int `yaml:"append_max_words"`

	// Output
	OutputSuffix string `yaml:"output_suffix"`
	SkipExisting bool   `yaml:"skip_existing"`

	// Batch
	Concurrency int `yaml:"concurrency"`

	// Binaries
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	Server Server `yaml:"server"`

	path string
}

type Server struct {
	Addr         string   `yaml:"addr"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

func Default() *Config {
	opts := subtitle.DefaultDedupeOptions()
	return &Config{
		FlickerThresholdMs: int(opts.FlickerThreshold / time.Millisecond),
		OverlapGapMs:       int(opts.Gap / time.Millisecond),
		AppendMaxWords:     opts.AppendMaxWords,
		OutputSuffix:       ".fixed.srt",
		SkipExisting:       false,
		Concurrency:        4,
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 10 << 20,
			CORSOrigins:  []string{"*"},
		},
	}
}

// Load reads path over the defaults. An empty path falls back to
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document decodes to io.EOF and keeps the defaults
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.path = path
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SRTFIX_FFMPEG_PATH"); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv("SRTFIX_FFPROBE_PATH"); v != "" {
		c.FFprobePath = v
	}
	if v := os.Getenv("SRTFIX_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) Validate() error {
	if c.FlickerThresholdMs < 0 {
		return fmt.Errorf("%w: flicker_threshold_ms must not be negative, got %d", ErrInvalid, c.FlickerThresholdMs)
	}
	if c.OverlapGapMs < 0 {
		return fmt.Errorf("%w: overlap_gap_ms must not be negative, got %d", ErrInvalid, c.OverlapGapMs)
	}
	if c.AppendMaxWords < 0 {
		return fmt.Errorf("%w: append_max_words must not be negative, got %d", ErrInvalid, c.AppendMaxWords)
	}
	if c.OutputSuffix == "" {
		return fmt.Errorf("%w: output_suffix must not be empty", ErrInvalid)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalid, c.Concurrency)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive, got %d", ErrInvalid, c.Server.MaxBodyBytes)
	}
	return nil
}

// path the config was read from, empty when only defaults are in use
func (c *Config) Path() string {
	return c.path
}

func (c *Config) DedupeOptions() subtitle.DedupeOptions {
	return subtitle.DedupeOptions{
		FlickerThreshold: time.Duration(c.FlickerThresholdMs) * time.Millisecond,
		Gap:              time.Duration(c.OverlapGapMs) * time.Millisecond,
		AppendMaxWords:   c.AppendMaxWords,
	}
}
