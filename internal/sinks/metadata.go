package sinks

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

// RationalValue is an exact num/den pair with a float convenience field.
// Downstream tools re-derive bit-exact positions from num/den; the decimal
// is for humans and legacy consumers only.
type RationalValue struct {
	Num     int64   `json:"num"`
	Den     int64   `json:"den"`
	Decimal float64 `json:"decimal"`
}

// NewRationalValue converts an exact rational into its JSON form.
func NewRationalValue(r *big.Rat) RationalValue {
	f, _ := r.Float64()
	return RationalValue{
		Num:     r.Num().Int64(),
		Den:     r.Denom().Int64(),
		Decimal: f,
	}
}

// Metadata is the generation report serialized alongside the sequence. The
// flat float fields keep compatibility with existing measurement tooling;
// the rational fields carry the exact values.
type Metadata struct {
	Size                [2]int    `json:"size"`
	FPS                 float64   `json:"fps"`
	DurationSecs        float64   `json:"durationSecs"`
	PatternWindowLength int       `json:"patternWindowLength"`
	EventCentreTimes    []float64 `json:"eventCentreTimes"`
	ApproxBeepDuration  float64   `json:"approxBeepDurationSecs"`
	ApproxFlashDuration float64   `json:"approxFlashDurationSecs"`

	FPSRational        RationalValue   `json:"fps_rational"`
	FrameDurationExact RationalValue   `json:"frame_duration_exact"`
	EventTimesExact    []RationalValue `json:"event_centre_times_exact"`
	BaseRate           int             `json:"base_rate"`

	FieldBased        bool   `json:"field_based"`
	SampleRate        int    `json:"sample_rate"`
	Title             string `json:"title"`
	PatternRepeatTime int    `json:"pattern_repeat_time"`
	TotalFrames       int    `json:"total_frames"`
	TotalAudioSamples int    `json:"total_audio_samples"`

	JobID            string `json:"job_id"`
	TimingPrecision  string `json:"timing_precision"`
	GeneratorVersion string `json:"generator_version"`
}

// WriteMetadataFile writes the report as indented JSON, creating the target
// directory if needed.
func WriteMetadataFile(filename string, m Metadata) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return errors.WrapSinkError(err, "failed to create metadata output directory")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.WrapSinkError(err, "failed to encode metadata")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.WrapSinkError(err, "failed to write metadata file")
	}
	return nil
}
