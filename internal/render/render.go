// Package render converts exact pulse timestamps into discrete per-frame
// flash states and per-sample beep states. All interval tests are exact
// rational comparisons; detection tolerances belong to the measurement
// hardware, never to the generator.
package render

import (
	"math/big"
)

var two = big.NewRat(2, 1)

// window is the half-open active interval of one pulse.
type window struct {
	start *big.Rat
	end   *big.Rat
}

// pulseWindows centres a window of the given width on each pulse time.
// Times must be sorted ascending, which the scheduler guarantees.
func pulseWindows(times []*big.Rat, width *big.Rat) []window {
	half := new(big.Rat).Quo(width, two)
	out := make([]window, len(times))
	for i, t := range times {
		out[i] = window{
			start: new(big.Rat).Sub(t, half),
			end:   new(big.Rat).Add(t, half),
		}
	}
	return out
}

// TotalUnits returns the number of output units (frames or samples) covering
// [0, durationSecs) at the given exact rate: floor(duration * rate). A unit
// is included exactly when its start time is below the duration.
func TotalUnits(rate *big.Rat, durationSecs *big.Rat) int {
	if durationSecs.Sign() <= 0 {
		return 0
	}
	total := new(big.Rat).Mul(durationSecs, rate)
	n := new(big.Int).Quo(total.Num(), total.Denom())
	return int(n.Int64())
}

// ActiveUnits reports, for every unit index i in [0, totalUnits), whether
// the unit's exact interval [i/rate, (i+1)/rate) intersects any pulse
// window. A single cursor advances over the sorted windows in step with the
// unit index, so rendering is linear in units plus pulses.
func ActiveUnits(times []*big.Rat, pulseWidth *big.Rat, rate *big.Rat, durationSecs *big.Rat) []bool {
	total := TotalUnits(rate, durationSecs)
	states := make([]bool, total)
	if total == 0 || len(times) == 0 {
		return states
	}

	windows := pulseWindows(times, pulseWidth)
	unitDur := new(big.Rat).Inv(rate)

	cursor := 0
	for i := 0; i < total; i++ {
		unitStart := new(big.Rat).Mul(big.NewRat(int64(i), 1), unitDur)
		unitEnd := new(big.Rat).Mul(big.NewRat(int64(i+1), 1), unitDur)

		for cursor < len(windows) && windows[cursor].end.Cmp(unitStart) <= 0 {
			cursor++
		}
		if cursor < len(windows) && windows[cursor].start.Cmp(unitEnd) < 0 {
			states[i] = true
		}
	}
	return states
}
