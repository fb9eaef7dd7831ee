package sinks

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image/png"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWAVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAVHeader(&buf, 48000, 96000))

	data := buf.Bytes()
	require.Len(t, data, 44)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(36+96000), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format tag")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(96000), binary.LittleEndian.Uint32(data[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]), "bits per sample")
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(96000), binary.LittleEndian.Uint32(data[40:44]))
}

func TestWriteWAVEncodesSamplesLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	samples := []int16{0, 16384, -16384, 32767}
	require.NoError(t, WriteWAV(&buf, samples, 8000))

	data := buf.Bytes()
	require.Len(t, data, 44+8)

	for i, want := range samples {
		got := int16(binary.LittleEndian.Uint16(data[44+2*i : 46+2*i]))
		assert.Equal(t, want, got, "sample %d", i)
	}
}

func TestWriteWAVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "audio.wav")

	require.NoError(t, WriteWAVFile(path, []int16{1, 2, 3}, 48000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 44+6)
	assert.Equal(t, "RIFF", string(data[0:4]))
}

func TestFrameWriterWriteAll(t *testing.T) {
	dir := t.TempDir()
	w := FrameWriter{
		Pattern:    filepath.Join(dir, "img_%06d.png"),
		Width:      16,
		Height:     9,
		GapColor:   DefaultGapColor,
		FlashColor: DefaultFlashColor,
	}

	n, err := w.WriteAll([]bool{false, true, false})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := os.Open(filepath.Join(dir, "img_000001.png"))
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 9, img.Bounds().Dy())

	r, g, b, _ := img.At(8, 4).RGBA()
	assert.Equal(t, uint32(0xffff), r, "flash frame must be white")
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	f0, err := os.Open(filepath.Join(dir, "img_000000.png"))
	require.NoError(t, err)
	defer f0.Close()

	gap, err := png.Decode(f0)
	require.NoError(t, err)
	r, g, b, _ = gap.At(0, 0).RGBA()
	assert.Zero(t, r, "gap frame must be black")
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestNewRationalValue(t *testing.T) {
	v := NewRationalValue(big.NewRat(30000, 1001))
	assert.Equal(t, int64(30000), v.Num)
	assert.Equal(t, int64(1001), v.Den)
	assert.InDelta(t, 29.97003, v.Decimal, 1e-5)
}

func TestWriteMetadataFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "metadata.json")

	m := Metadata{
		Size:                [2]int{1920, 1080},
		FPS:                 29.97002997002997,
		DurationSecs:        127,
		PatternWindowLength: 7,
		EventCentreTimes:    []float64{0.11666, 0.31666},
		FPSRational:         NewRationalValue(big.NewRat(30000, 1001)),
		FrameDurationExact:  NewRationalValue(big.NewRat(1001, 30000)),
		EventTimesExact: []RationalValue{
			NewRationalValue(big.NewRat(7, 60)),
			NewRationalValue(big.NewRat(19, 60)),
		},
		BaseRate:          30,
		SampleRate:        48000,
		PatternRepeatTime: 127,
		JobID:             "9d2f0a33-0000-0000-0000-000000000000",
		TimingPrecision:   "exact_rational",
		GeneratorVersion:  "dev",
	}

	require.NoError(t, WriteMetadataFile(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(7), decoded["patternWindowLength"])
	assert.Equal(t, float64(30), decoded["base_rate"])
	assert.Equal(t, "exact_rational", decoded["timing_precision"])

	exact, ok := decoded["event_centre_times_exact"].([]interface{})
	require.True(t, ok)
	require.Len(t, exact, 2)
	first := exact[0].(map[string]interface{})
	assert.Equal(t, float64(7), first["num"])
	assert.Equal(t, float64(60), first["den"])
}
