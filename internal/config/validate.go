package config

import (
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation config: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func (g *GenerationConfig) Validate() error {
	if g.Preset == "" && g.FPS == "" {
		return fmt.Errorf("either fps or preset must be set")
	}

	if _, err := g.ResolveRate(); err != nil {
		return err
	}

	w, h, err := g.ResolveSize()
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("frame dimensions must be positive, got %dx%d", w, h)
	}

	if g.DurationSecs < 0 {
		return fmt.Errorf("duration_secs cannot be negative")
	}

	if g.WindowLen < 3 || g.WindowLen > 8 {
		return fmt.Errorf("window_len must be 3..8, got %d", g.WindowLen)
	}

	if g.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive")
	}

	if g.ToneHz <= 0 {
		return fmt.Errorf("tone_hz must be positive")
	}
	if g.ToneHz*2 > g.SampleRate {
		return fmt.Errorf("tone_hz %d exceeds the Nyquist limit for sample_rate %d", g.ToneHz, g.SampleRate)
	}

	if g.Amplitude < 0 || g.Amplitude > 32767 {
		return fmt.Errorf("amplitude must be 0..32767, got %d", g.Amplitude)
	}

	return nil
}

func (o *OutputConfig) Validate() error {
	if o.WriteAudio && o.AudioFile == "" {
		return fmt.Errorf("audio_file is required when write_audio is enabled")
	}

	if o.WriteFrames {
		if o.FramePattern == "" {
			return fmt.Errorf("frame_pattern is required when write_frames is enabled")
		}
		if !strings.Contains(o.FramePattern, "%") {
			return fmt.Errorf("frame_pattern %q has no frame-number verb", o.FramePattern)
		}
	}

	if o.WriteMetadata && o.MetadataFile == "" {
		return fmt.Errorf("metadata_file is required when write_metadata is enabled")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"panic": true,
		"fatal": true,
		"error": true,
		"warn":  true,
		"info":  true,
		"debug": true,
		"trace": true,
	}

	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s", l.Format)
	}

	if l.Output == "" {
		return fmt.Errorf("log output is required")
	}

	if l.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive")
	}

	if l.MaxBackups < 0 {
		return fmt.Errorf("max_backups cannot be negative")
	}

	if l.MaxAge < 0 {
		return fmt.Errorf("max_age cannot be negative")
	}

	return nil
}
