package render

import (
	"math"
	"math/big"
)

// BeepParams controls audio pulse synthesis.
type BeepParams struct {
	SampleRateHz int
	ToneHz       int
	Amplitude    int16
}

// Samples renders the pulse timestamps as 16-bit mono PCM: a sine tone
// wherever a sample falls inside a pulse window, silence elsewhere. Which
// samples sound is decided by exact rational intersection; only the sine
// waveform itself is computed in floating point.
func (p BeepParams) Samples(times []*big.Rat, pulseWidth *big.Rat, durationSecs *big.Rat) []int16 {
	rate := big.NewRat(int64(p.SampleRateHz), 1)
	active := ActiveUnits(times, pulseWidth, rate, durationSecs)

	out := make([]int16, len(active))
	step := 2 * math.Pi * float64(p.ToneHz) / float64(p.SampleRateHz)
	for i, on := range active {
		if on {
			out[i] = int16(float64(p.Amplitude) * math.Sin(step*float64(i)))
		}
	}
	return out
}
