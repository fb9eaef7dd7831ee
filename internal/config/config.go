package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type GenerationConfig struct {
	// FPS is a rate literal ("25", "23.976", "30000/1001") or a broadcast
	// shortcut ("ntsc", "pal", "film", ...).
	FPS string `mapstructure:"fps"`

	// Preset names a complete format (rate + resolution), e.g.
	// "1080p59.94". When set it overrides FPS and Size.
	Preset string `mapstructure:"preset"`

	// Size is "WIDTHxHEIGHT" or a resolution preset name ("hd-1080").
	Size string `mapstructure:"size"`

	// DurationSecs is the requested sequence length. Zero means one full
	// pattern cycle. The generator snaps it to whole cycles either way.
	DurationSecs int `mapstructure:"duration_secs"`

	WindowLen  int    `mapstructure:"window_len"`
	SampleRate int    `mapstructure:"sample_rate"`
	ToneHz     int    `mapstructure:"tone_hz"`
	Amplitude  int    `mapstructure:"amplitude"`
	FieldBased bool   `mapstructure:"field_based"`
	Title      string `mapstructure:"title"`
}

type OutputConfig struct {
	AudioFile     string `mapstructure:"audio_file"`
	FramePattern  string `mapstructure:"frame_pattern"`  // printf style, one %d verb
	MetadataFile  string `mapstructure:"metadata_file"`
	WriteAudio    bool   `mapstructure:"write_audio"`
	WriteFrames   bool   `mapstructure:"write_frames"`
	WriteMetadata bool   `mapstructure:"write_metadata"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	Output     string `mapstructure:"output"` // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(configPath)

	// Environment variable override
	viper.SetEnvPrefix("SEQGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Generation defaults match the reference sequences: 50 fps, 854x480,
	// 7-bit pattern window, 3 kHz beeps at just under half full scale.
	viper.SetDefault("generation.fps", "50")
	viper.SetDefault("generation.preset", "")
	viper.SetDefault("generation.size", "854x480")
	viper.SetDefault("generation.duration_secs", 0)
	viper.SetDefault("generation.window_len", 7)
	viper.SetDefault("generation.sample_rate", 48000)
	viper.SetDefault("generation.tone_hz", 3000)
	viper.SetDefault("generation.amplitude", 16384)
	viper.SetDefault("generation.field_based", false)
	viper.SetDefault("generation.title", "")

	// Output defaults
	viper.SetDefault("output.audio_file", "build/audio.wav")
	viper.SetDefault("output.frame_pattern", "build/img_%06d.png")
	viper.SetDefault("output.metadata_file", "build/metadata.json")
	viper.SetDefault("output.write_audio", true)
	viper.SetDefault("output.write_frames", true)
	viper.SetDefault("output.write_metadata", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 5)
	viper.SetDefault("logging.max_age", 30)
}
