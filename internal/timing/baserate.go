package timing

import "math/big"

// baseRateCatalog maps exact reduced rates to the nominal integer base rate
// whose pulse timing pattern they share. A measurement device calibrated for
// the base rate then detects every family member without recalibration.
// High rates fold onto the half-rate base so that doubled formats (48, 60,
// 100, 120 fps and their NTSC variants) keep the same pulse positions as
// their parent rate.
var baseRateCatalog = map[rationalKey]int{
	// NTSC 1001-denominator family
	{24000, 1001}:  24,
	{30000, 1001}:  30,
	{48000, 1001}:  24,
	{60000, 1001}:  30,
	{120000, 1001}: 30,

	// Integer look-alikes of the doubled formats
	{48, 1}:  24,
	{60, 1}:  30,
	{100, 1}: 50,
	{120, 1}: 30,
}

// BaseRate derives the nominal integer rate whose canonical pulse timing
// this exact rate reuses. Rates outside the known broadcast families fall
// back to the rounded value of num/den. The function is pure and total over
// all positive rationals.
func (r Rate) BaseRate() int {
	if key, ok := r.key(); ok {
		if base, found := baseRateCatalog[key]; found {
			return base
		}
	}

	// round(num/den) = floor((2*num + den) / (2*den))
	two := big.NewInt(2)
	n := new(big.Int).Mul(two, r.num)
	n.Add(n, r.den)
	d := new(big.Int).Mul(two, r.den)
	n.Quo(n, d)
	return int(n.Int64())
}
