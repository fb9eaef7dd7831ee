// Package generator wires the timing, sequence, scheduling and rendering
// stages into a single generation job and drives the output sinks.
package generator

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/events"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/logger"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/render"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/sinks"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/timing"
	"github.com/sohonetlabs/dvbcss-synctiming/pkg/version"
)

// Flashes and beeps are three frame durations wide; wide enough for a
// camera or microphone to catch, narrow enough never to bridge bit slots.
const pulseWidthFrames = 3

// Params describes one generation job.
type Params struct {
	Rate         timing.Rate
	Width        int
	Height       int
	DurationSecs int // 0 means one full pattern cycle
	WindowLen    int
	SampleRateHz int
	ToneHz       int
	Amplitude    int16
	FieldBased   bool
	Title        string

	WriteAudio    bool
	WriteFrames   bool
	WriteMetadata bool
	AudioFile     string
	FramePattern  string
	MetadataFile  string
}

// Result summarises a completed job.
type Result struct {
	JobID            string
	AdjustedDuration *big.Rat
	EventCount       int
	FrameCount       int
	SampleCount      int
}

// Generate runs one job end to end: schedule pulse events, render frame and
// sample states, and persist whatever outputs the job requests. It either
// produces the full stream for the adjusted duration or fails before
// writing anything observable.
func Generate(p Params, logrusLogger *logrus.Logger) (*Result, error) {
	var log logger.Logger
	if logrusLogger == nil {
		log = logger.NewNullLogger()
	} else {
		log = logger.NewLogrusAdapter(logrus.NewEntry(logrusLogger))
	}

	jobID := uuid.New().String()
	log = log.WithField("job_id", jobID)

	baseRate := p.Rate.BaseRate()
	log.WithFields(logger.Fields{
		"rate":       p.Rate.String(),
		"base_rate":  baseRate,
		"window_len": p.WindowLen,
	}).Info("Starting test sequence generation")

	requested := big.NewRat(int64(p.DurationSecs), 1)
	duration, err := events.NearestWholeCycleDuration(p.WindowLen, requested)
	if err != nil {
		return nil, err
	}

	scheduler, err := events.NewScheduler(p.WindowLen, baseRate, duration)
	if err != nil {
		return nil, err
	}
	eventList := scheduler.All()

	times := make([]*big.Rat, len(eventList))
	for i, ev := range eventList {
		times[i] = ev.Time
	}

	durF, _ := duration.Float64()
	log.WithFields(logger.Fields{
		"events":        len(eventList),
		"duration_secs": durF,
	}).Info("Scheduled pulse events")

	pulseWidth := new(big.Rat).Mul(p.Rate.UnitDuration(), big.NewRat(pulseWidthFrames, 1))

	// Field-based sequences render at twice the frame rate: one state per
	// field, two fields per frame.
	videoRate := p.Rate
	if p.FieldBased {
		videoRate = p.Rate.Double()
	}
	frameStates := render.ActiveUnits(times, pulseWidth, videoRate.Rat(), duration)

	result := &Result{
		JobID:            jobID,
		AdjustedDuration: duration,
		EventCount:       len(eventList),
		FrameCount:       len(frameStates),
	}

	var samples []int16
	if p.WriteAudio {
		beep := render.BeepParams{
			SampleRateHz: p.SampleRateHz,
			ToneHz:       p.ToneHz,
			Amplitude:    p.Amplitude,
		}
		samples = beep.Samples(times, pulseWidth, duration)
		result.SampleCount = len(samples)

		log.WithField("samples", len(samples)).Info("Rendered audio")
		if err := sinks.WriteWAVFile(p.AudioFile, samples, p.SampleRateHz); err != nil {
			return nil, err
		}
		log.WithField("path", p.AudioFile).Info("Wrote WAV file")
	}

	if p.WriteFrames {
		writer := sinks.FrameWriter{
			Pattern:    p.FramePattern,
			Width:      p.Width,
			Height:     p.Height,
			GapColor:   sinks.DefaultGapColor,
			FlashColor: sinks.DefaultFlashColor,
		}
		n, err := writer.WriteAll(frameStates)
		if err != nil {
			return nil, err
		}
		log.WithFields(logger.Fields{
			"frames":  n,
			"pattern": p.FramePattern,
		}).Info("Wrote frame images")
	}

	if p.WriteMetadata {
		if err := sinks.WriteMetadataFile(p.MetadataFile, p.metadata(jobID, duration, times, pulseWidth, result)); err != nil {
			return nil, err
		}
		log.WithField("path", p.MetadataFile).Info("Wrote metadata report")
	}

	log.Info("Generation complete")
	return result, nil
}

// metadata assembles the serialized report for a finished job.
func (p Params) metadata(jobID string, duration *big.Rat, times []*big.Rat, pulseWidth *big.Rat, result *Result) sinks.Metadata {
	durF, _ := duration.Float64()
	widthF, _ := pulseWidth.Float64()

	centreTimes := make([]float64, len(times))
	exactTimes := make([]sinks.RationalValue, len(times))
	for i, t := range times {
		centreTimes[i], _ = t.Float64()
		exactTimes[i] = sinks.NewRationalValue(t)
	}

	period := 1<<p.WindowLen - 1

	return sinks.Metadata{
		Size:                [2]int{p.Width, p.Height},
		FPS:                 p.Rate.Float64(),
		DurationSecs:        durF,
		PatternWindowLength: p.WindowLen,
		EventCentreTimes:    centreTimes,
		ApproxBeepDuration:  widthF,
		ApproxFlashDuration: widthF,

		FPSRational:        sinks.NewRationalValue(p.Rate.Rat()),
		FrameDurationExact: sinks.NewRationalValue(p.Rate.UnitDuration()),
		EventTimesExact:    exactTimes,
		BaseRate:           p.Rate.BaseRate(),

		FieldBased:        p.FieldBased,
		SampleRate:        p.SampleRateHz,
		Title:             p.Title,
		PatternRepeatTime: period,
		TotalFrames:       result.FrameCount,
		TotalAudioSamples: result.SampleCount,

		JobID:            jobID,
		TimingPrecision:  "exact_rational",
		GeneratorVersion: version.GetInfo().Short(),
	}
}

// ParamsFromRateLiteral is a convenience for callers holding the rate as a
// literal string; it parses and validates the rate before building Params.
func ParamsFromRateLiteral(literal string) (timing.Rate, error) {
	rate, err := timing.Parse(literal)
	if err != nil {
		return timing.Rate{}, err
	}
	if _, offErr := timing.PulseOffsets(rate.BaseRate(), 0); offErr != nil {
		return timing.Rate{}, offErr
	}
	return rate, nil
}

// Validate rejects parameter combinations the pipeline cannot honour.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return errors.NewInvalidConfigError("frame dimensions must be positive")
	}
	if p.SampleRateHz <= 0 && p.WriteAudio {
		return errors.NewInvalidConfigError("sample rate must be positive")
	}
	if p.DurationSecs < 0 {
		return errors.NewInvalidConfigError("duration cannot be negative")
	}
	return nil
}
