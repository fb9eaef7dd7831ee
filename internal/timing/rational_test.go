package timing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

func TestParseAcceptedForms(t *testing.T) {
	tests := []struct {
		input   string
		wantNum int64
		wantDen int64
	}{
		{"25", 25, 1},
		{"24", 24, 1},
		{"23.976", 24000, 1001},
		{"29.97", 30000, 1001},
		{"59.94", 60000, 1001},
		{"47.952", 48000, 1001},
		{"119.88", 120000, 1001},
		{"29.970029970", 30000, 1001},
		{"25.0", 25, 1},
		{"30000/1001", 30000, 1001},
		{"24000/1001", 24000, 1001},
		{"50/1", 50, 1},
		{"50/2", 25, 1}, // reduced to lowest terms
		{" 25 ", 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rate, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNum, rate.Num().Int64())
			assert.Equal(t, tt.wantDen, rate.Den().Int64())
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	inputs := []string{"", "abc", "25fps", "1/2/3", "29.98", "12.345"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			appErr, ok := errors.GetAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeInvalidRateFormat, appErr.Type)
		})
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zero numerator", "0/1"},
		{"zero denominator", "25/0"},
		{"zero integer", "0"},
		{"negative integer", "-25"},
		{"below minimum", "1/100"},
		{"at maximum", "500"},
		{"above maximum", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			appErr, ok := errors.GetAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeInvalidRateValue, appErr.Type)
		})
	}
}

func TestNewReducesToLowestTerms(t *testing.T) {
	rate, err := New(60000, 2002)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), rate.Num().Int64())
	assert.Equal(t, int64(1001), rate.Den().Int64())
}

func TestUnitDuration(t *testing.T) {
	rate, err := New(30000, 1001)
	require.NoError(t, err)
	assert.Equal(t, 0, rate.UnitDuration().Cmp(big.NewRat(1001, 30000)))
}

func TestDouble(t *testing.T) {
	rate, err := New(30000, 1001)
	require.NoError(t, err)
	doubled := rate.Double()
	assert.Equal(t, int64(60000), doubled.Num().Int64())
	assert.Equal(t, int64(1001), doubled.Den().Int64())
	// Original is unchanged.
	assert.Equal(t, int64(30000), rate.Num().Int64())
}

func TestAccessorsReturnCopies(t *testing.T) {
	rate, err := New(25, 1)
	require.NoError(t, err)

	rate.Num().SetInt64(99)
	rate.Rat().SetFrac64(1, 7)

	assert.Equal(t, int64(25), rate.Num().Int64())
	assert.Equal(t, 0, rate.Rat().Cmp(big.NewRat(25, 1)))
}

func TestString(t *testing.T) {
	integer, err := New(25, 1)
	require.NoError(t, err)
	assert.Equal(t, "25 fps", integer.String())

	ntsc, err := New(30000, 1001)
	require.NoError(t, err)
	assert.Contains(t, ntsc.String(), "29.970030")
	assert.Contains(t, ntsc.String(), "30000/1001")
}

func TestBaseRateCatalog(t *testing.T) {
	tests := []struct {
		num  int64
		den  int64
		want int
	}{
		{24000, 1001, 24},
		{30000, 1001, 30},
		{48000, 1001, 24},
		{60000, 1001, 30},
		{120000, 1001, 30},
		{48, 1, 24},
		{60, 1, 30},
		{100, 1, 50},
		{120, 1, 30},
		// Fallback: round(num/den)
		{24, 1, 24},
		{25, 1, 25},
		{30, 1, 30},
		{50, 1, 50},
		{65, 2, 33},  // 32.5 rounds up
		{129, 4, 32}, // 32.25 rounds down
	}

	for _, tt := range tests {
		rate, err := New(tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.want, rate.BaseRate(), "base rate for %d/%d", tt.num, tt.den)
	}
}

func TestBaseRateSharedAcrossFamily(t *testing.T) {
	exact, err := New(30, 1)
	require.NoError(t, err)
	ntsc, err := New(30000, 1001)
	require.NoError(t, err)

	assert.Equal(t, exact.BaseRate(), ntsc.BaseRate())
}

func TestPulseOffsets(t *testing.T) {
	t.Run("zero bit has a single pulse", func(t *testing.T) {
		offsets, err := PulseOffsets(30, 0)
		require.NoError(t, err)
		require.Len(t, offsets, 1)
		assert.Equal(t, 0, offsets[0].Cmp(big.NewRat(7, 60)))
	})

	t.Run("one bit has two increasing pulses", func(t *testing.T) {
		offsets, err := PulseOffsets(30, 1)
		require.NoError(t, err)
		require.Len(t, offsets, 2)
		assert.Equal(t, 0, offsets[0].Cmp(big.NewRat(7, 60)))
		assert.Equal(t, 0, offsets[1].Cmp(big.NewRat(19, 60)))
		assert.Equal(t, -1, offsets[0].Cmp(offsets[1]))
	})

	t.Run("offsets fit inside one slot", func(t *testing.T) {
		for _, base := range SupportedBaseRates() {
			offsets, err := PulseOffsets(base, 1)
			require.NoError(t, err)
			for _, o := range offsets {
				assert.Equal(t, 1, o.Sign(), "offset must be positive")
				assert.Equal(t, -1, o.Cmp(SlotDuration()), "offset must fall inside the slot")
			}
		}
	})

	t.Run("unknown base rate is rejected", func(t *testing.T) {
		_, err := PulseOffsets(31, 0)
		require.Error(t, err)
		appErr, ok := errors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeUnsupportedBaseRate, appErr.Type)
	})

	t.Run("returned offsets are copies", func(t *testing.T) {
		offsets, err := PulseOffsets(25, 0)
		require.NoError(t, err)
		offsets[0].SetFrac64(1, 2)

		again, err := PulseOffsets(25, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, again[0].Cmp(big.NewRat(7, 50)))
	})
}

func TestPulseOffsetsIdenticalForFamilyMembers(t *testing.T) {
	// Both 30/1 and 30000/1001 derive base rate 30 and must see the exact
	// same pulse pattern.
	exact, err := New(30, 1)
	require.NoError(t, err)
	ntsc, err := New(30000, 1001)
	require.NoError(t, err)

	for bit := 0; bit <= 1; bit++ {
		a, err := PulseOffsets(exact.BaseRate(), bit)
		require.NoError(t, err)
		b, err := PulseOffsets(ntsc.BaseRate(), bit)
		require.NoError(t, err)

		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, 0, a[i].Cmp(b[i]))
		}
	}
}
