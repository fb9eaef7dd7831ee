package timing

import (
	"math/big"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

// SlotDuration is the fixed length of one bit slot in seconds. Every pulse
// offset in the catalog falls strictly inside a slot of this length, which
// is what guarantees the scheduler emits strictly increasing timestamps.
func SlotDuration() *big.Rat {
	return big.NewRat(1, 1)
}

// bitTimings holds the pulse offsets, in exact seconds from the start of a
// bit slot, for the two bit values.
type bitTimings struct {
	zero []*big.Rat // single pulse
	one  []*big.Rat // two pulses, strictly increasing
}

// pulseTimingCatalog defines, per base rate, when the light/sound pulses for
// each bit value occur inside a bit slot. A zero bit is one pulse centred on
// base frame 3.5; a one bit adds a second pulse centred on base frame 9.5.
// The offsets are architecture constants shared by every exact rate that
// maps onto the base rate; they must never be recomputed per exact rate, or
// deployed measurement hardware would need recalibrating.
var pulseTimingCatalog = map[int]bitTimings{
	24: newBitTimings(24),
	25: newBitTimings(25),
	30: newBitTimings(30),
	50: newBitTimings(50),
}

func newBitTimings(baseRate int64) bitTimings {
	// 3.5/base and 9.5/base seconds, kept in integer form.
	first := big.NewRat(7, 2*baseRate)
	second := big.NewRat(19, 2*baseRate)
	return bitTimings{
		zero: []*big.Rat{first},
		one:  []*big.Rat{first, second},
	}
}

// PulseOffsets returns the ordered pulse offsets for the given base rate and
// bit value. The returned slice holds fresh big.Rat values the caller may
// mutate freely. Unknown base rates fail with UnsupportedBaseRate; guessing
// a timing pattern would silently corrupt measurement validity.
func PulseOffsets(baseRate int, bit int) ([]*big.Rat, error) {
	timings, ok := pulseTimingCatalog[baseRate]
	if !ok {
		return nil, errors.NewUnsupportedBaseRateError(baseRate)
	}

	src := timings.zero
	if bit != 0 {
		src = timings.one
	}

	out := make([]*big.Rat, len(src))
	for i, o := range src {
		out[i] = new(big.Rat).Set(o)
	}
	return out, nil
}

// SupportedBaseRates lists the base rates present in the pulse timing
// catalog, for diagnostics.
func SupportedBaseRates() []int {
	rates := make([]int, 0, len(pulseTimingCatalog))
	for r := range pulseTimingCatalog {
		rates = append(rates, r)
	}
	return rates
}
