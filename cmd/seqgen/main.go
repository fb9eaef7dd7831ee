package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/config"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/generator"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/logger"
	"github.com/sohonetlabs/dvbcss-synctiming/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		showVersion bool

		fps        string
		preset     string
		size       string
		duration   int
		windowLen  int
		title      string
		fieldBased bool
		noAudio    bool
		noFrames   bool
		noMetadata bool
	)

	flag.StringVar(&configPath, "config", "configs/default.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.StringVar(&fps, "fps", "", "Frame rate: literal (\"25\", \"23.976\", \"30000/1001\") or shortcut (\"ntsc\", \"pal\")")
	flag.StringVar(&preset, "preset", "", "Format preset (rate + resolution), e.g. \"1080p59.94\"")
	flag.StringVar(&size, "size", "", "Frame size: WIDTHxHEIGHT or a resolution preset, e.g. \"hd-1080\"")
	flag.IntVar(&duration, "duration", -1, "Sequence duration in seconds (0 = one full pattern cycle)")
	flag.IntVar(&windowLen, "window-len", 0, "Pattern window length in bits (3..8)")
	flag.StringVar(&title, "title", "", "Title recorded in the metadata report")
	flag.BoolVar(&fieldBased, "field-based", false, "Render one state per field instead of per frame")
	flag.BoolVar(&noAudio, "no-audio", false, "Skip WAV output")
	flag.BoolVar(&noFrames, "no-frames", false, "Skip frame image output")
	flag.BoolVar(&noMetadata, "no-metadata", false, "Skip metadata report output")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return errors.ExitConfig
	}

	// Command line flags override the file and environment.
	if fps != "" {
		cfg.Generation.FPS = fps
		cfg.Generation.Preset = ""
	}
	if preset != "" {
		cfg.Generation.Preset = preset
	}
	if size != "" {
		cfg.Generation.Size = size
	}
	if duration >= 0 {
		cfg.Generation.DurationSecs = duration
	}
	if windowLen != 0 {
		cfg.Generation.WindowLen = windowLen
	}
	if title != "" {
		cfg.Generation.Title = title
	}
	if fieldBased {
		cfg.Generation.FieldBased = true
	}
	if noAudio {
		cfg.Output.WriteAudio = false
	}
	if noFrames {
		cfg.Output.WriteFrames = false
	}
	if noMetadata {
		cfg.Output.WriteMetadata = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return errors.ExitConfig
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return errors.ExitInternal
	}

	log.WithField("version", version.GetInfo().Short()).Info("Starting seqgen")
	log.WithField("config_path", configPath).Debug("Configuration loaded")

	params, err := buildParams(cfg)
	if err != nil {
		log.WithError(err).Error("Invalid generation parameters")
		return exitCode(err)
	}

	result, err := generator.Generate(params, log)
	if err != nil {
		log.WithError(err).Error("Generation failed")
		return exitCode(err)
	}

	fmt.Println(renderSummary(cfg, params, result))
	return 0
}

// buildParams resolves the config's presets and literals into exact
// generation parameters.
func buildParams(cfg *config.Config) (generator.Params, error) {
	literal, err := cfg.Generation.ResolveRate()
	if err != nil {
		return generator.Params{}, errors.NewInvalidConfigError(err.Error())
	}
	rate, err := generator.ParamsFromRateLiteral(literal)
	if err != nil {
		return generator.Params{}, err
	}

	w, h, err := cfg.Generation.ResolveSize()
	if err != nil {
		return generator.Params{}, errors.NewInvalidConfigError(err.Error())
	}

	p := generator.Params{
		Rate:         rate,
		Width:        w,
		Height:       h,
		DurationSecs: cfg.Generation.DurationSecs,
		WindowLen:    cfg.Generation.WindowLen,
		SampleRateHz: cfg.Generation.SampleRate,
		ToneHz:       cfg.Generation.ToneHz,
		Amplitude:    int16(cfg.Generation.Amplitude),
		FieldBased:   cfg.Generation.FieldBased,
		Title:        cfg.Generation.Title,

		WriteAudio:    cfg.Output.WriteAudio,
		WriteFrames:   cfg.Output.WriteFrames,
		WriteMetadata: cfg.Output.WriteMetadata,
		AudioFile:     cfg.Output.AudioFile,
		FramePattern:  cfg.Output.FramePattern,
		MetadataFile:  cfg.Output.MetadataFile,
	}
	if err := p.Validate(); err != nil {
		return generator.Params{}, err
	}
	return p, nil
}

func exitCode(err error) int {
	if appErr, ok := errors.GetAppError(err); ok {
		return appErr.ExitCode
	}
	return errors.ExitInternal
}

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 2)

	summaryTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	summaryLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Width(14)
)

// renderSummary formats the completed job as a terminal summary box.
func renderSummary(cfg *config.Config, p generator.Params, r *generator.Result) string {
	durF, _ := r.AdjustedDuration.Float64()

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, summaryLabel.Render(label), value)
	}

	rows := []string{
		summaryTitle.Render("Sequence generated"),
		row("Job", r.JobID),
		row("Rate", p.Rate.String()),
		row("Size", fmt.Sprintf("%dx%d", p.Width, p.Height)),
		row("Duration", fmt.Sprintf("%.6gs (%d pattern bits)", durF, p.WindowLen)),
		row("Events", fmt.Sprintf("%d", r.EventCount)),
	}
	if cfg.Output.WriteFrames {
		rows = append(rows, row("Frames", fmt.Sprintf("%d  %s", r.FrameCount, cfg.Output.FramePattern)))
	}
	if cfg.Output.WriteAudio {
		rows = append(rows, row("Audio", fmt.Sprintf("%d samples  %s", r.SampleCount, cfg.Output.AudioFile)))
	}
	if cfg.Output.WriteMetadata {
		rows = append(rows, row("Metadata", cfg.Output.MetadataFile))
	}

	return summaryBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
