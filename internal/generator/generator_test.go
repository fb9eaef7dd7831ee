package generator

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/timing"
)

func testParams(t *testing.T, dir string) Params {
	t.Helper()
	rate, err := timing.New(25, 1)
	require.NoError(t, err)

	return Params{
		Rate:         rate,
		Width:        32,
		Height:       18,
		DurationSecs: 7,
		WindowLen:    3,
		SampleRateHz: 8000,
		ToneHz:       1000,
		Amplitude:    16384,

		WriteAudio:    true,
		WriteFrames:   true,
		WriteMetadata: true,
		AudioFile:     filepath.Join(dir, "audio.wav"),
		FramePattern:  filepath.Join(dir, "img_%06d.png"),
		MetadataFile:  filepath.Join(dir, "metadata.json"),
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	p := testParams(t, dir)

	result, err := Generate(p, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.JobID)
	assert.Equal(t, 0, result.AdjustedDuration.Cmp(big.NewRat(7, 1)))

	// Order 3 over one 7-second cycle: bits 1,1,1,0,0,1,0 give 4 one-bits
	// (2 pulses) and 3 zero-bits (1 pulse): 11 events.
	assert.Equal(t, 11, result.EventCount)
	assert.Equal(t, 7*25, result.FrameCount)
	assert.Equal(t, 7*8000, result.SampleCount)

	// Every requested artifact must exist.
	_, err = os.Stat(p.AudioFile)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "img_000000.png"))
	assert.NoError(t, err)
	lastFrame := result.FrameCount - 1
	_, err = os.Stat(filepath.Join(dir, "img_000174.png"))
	assert.NoError(t, err, "frame %d must exist", lastFrame)

	data, err := os.ReadFile(p.MetadataFile)
	require.NoError(t, err)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, float64(3), meta["patternWindowLength"])
	assert.Equal(t, float64(25), meta["base_rate"])
	assert.Equal(t, result.JobID, meta["job_id"])

	exact := meta["event_centre_times_exact"].([]interface{})
	require.Len(t, exact, 11)
	first := exact[0].(map[string]interface{})
	assert.Equal(t, float64(7), first["num"])
	assert.Equal(t, float64(50), first["den"])
}

func TestGenerateDurationSnapsToWholeCycles(t *testing.T) {
	dir := t.TempDir()
	p := testParams(t, dir)
	p.WriteFrames = false
	p.WriteMetadata = false

	// 10 seconds at order 3 rounds to one 7-second cycle.
	p.DurationSecs = 10
	result, err := Generate(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AdjustedDuration.Cmp(big.NewRat(7, 1)))

	// Zero means "one full cycle".
	p.DurationSecs = 0
	result, err = Generate(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AdjustedDuration.Cmp(big.NewRat(7, 1)))
}

func TestGenerateFieldBasedDoublesStates(t *testing.T) {
	dir := t.TempDir()
	p := testParams(t, dir)
	p.WriteAudio = false
	p.WriteMetadata = false
	p.FieldBased = true

	result, err := Generate(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 2*7*25, result.FrameCount)
}

func TestGenerateDeterminism(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	pA := testParams(t, dirA)
	pB := testParams(t, dirB)

	_, err := Generate(pA, nil)
	require.NoError(t, err)
	_, err = Generate(pB, nil)
	require.NoError(t, err)

	wavA, err := os.ReadFile(pA.AudioFile)
	require.NoError(t, err)
	wavB, err := os.ReadFile(pB.AudioFile)
	require.NoError(t, err)
	assert.Equal(t, wavA, wavB, "two runs must produce identical audio")

	frameA, err := os.ReadFile(filepath.Join(dirA, "img_000003.png"))
	require.NoError(t, err)
	frameB, err := os.ReadFile(filepath.Join(dirB, "img_000003.png"))
	require.NoError(t, err)
	assert.Equal(t, frameA, frameB, "two runs must produce identical frames")
}

func TestGenerateUnsupportedOrder(t *testing.T) {
	dir := t.TempDir()
	p := testParams(t, dir)
	p.WindowLen = 9

	_, err := Generate(p, nil)
	require.Error(t, err)
	appErr, ok := errors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeUnsupportedOrder, appErr.Type)
}

func TestParamsFromRateLiteral(t *testing.T) {
	t.Run("accepts supported rates", func(t *testing.T) {
		rate, err := ParamsFromRateLiteral("30000/1001")
		require.NoError(t, err)
		assert.Equal(t, 30, rate.BaseRate())
	})

	t.Run("rejects malformed literals", func(t *testing.T) {
		_, err := ParamsFromRateLiteral("fast")
		require.Error(t, err)
		appErr, _ := errors.GetAppError(err)
		assert.Equal(t, errors.ErrorTypeInvalidRateFormat, appErr.Type)
	})

	t.Run("rejects rates without a timing catalog entry", func(t *testing.T) {
		_, err := ParamsFromRateLiteral("29")
		require.Error(t, err)
		appErr, _ := errors.GetAppError(err)
		assert.Equal(t, errors.ErrorTypeUnsupportedBaseRate, appErr.Type)
	})
}

func TestParamsValidate(t *testing.T) {
	dir := t.TempDir()
	p := testParams(t, dir)
	require.NoError(t, p.Validate())

	bad := p
	bad.Width = 0
	assert.Error(t, bad.Validate())

	bad = p
	bad.DurationSecs = -1
	assert.Error(t, bad.Validate())

	bad = p
	bad.SampleRateHz = 0
	assert.Error(t, bad.Validate())
}
