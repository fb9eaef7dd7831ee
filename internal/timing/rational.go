package timing

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

// Frame rate bounds accepted by the generator, in fps. Rates outside this
// range cannot be represented by the pulse timing catalog and are rejected
// at parse time.
var (
	minRate = big.NewRat(1, 10)
	maxRate = big.NewRat(500, 1)
)

// rationalKey identifies an exact reduced rate for catalog lookups.
type rationalKey struct {
	num int64
	den int64
}

// decimalToRational maps broadcast decimal literals to their exact rational
// equivalents. The conversion is table-driven rather than computed, because
// decimal truncation (e.g. 29.97 vs 30000/1001) would otherwise select the
// wrong exact rate.
var decimalToRational = map[string]rationalKey{
	// NTSC family (1001 denominator)
	"23.976":       {24000, 1001},
	"29.97":        {30000, 1001},
	"59.94":        {60000, 1001},
	"47.952":       {48000, 1001},
	"119.88":       {120000, 1001},
	"23.9760":      {24000, 1001},
	"23.976023976": {24000, 1001},
	"29.970":       {30000, 1001},
	"29.970029970": {30000, 1001},
	"59.940":       {60000, 1001},
	"59.940059940": {60000, 1001},

	// Integer rates written as decimals
	"24.0":  {24, 1},
	"25.0":  {25, 1},
	"30.0":  {30, 1},
	"48.0":  {48, 1},
	"50.0":  {50, 1},
	"60.0":  {60, 1},
	"100.0": {100, 1},
	"120.0": {120, 1},
}

// ntscFamily lists the exact rates a free-form decimal literal may resolve
// to by tolerance matching.
var ntscFamily = []rationalKey{
	{24000, 1001},
	{30000, 1001},
	{48000, 1001},
	{60000, 1001},
	{120000, 1001},
}

var rationalLiteral = regexp.MustCompile(`^(\d+)/(\d+)$`)

// Rate is an exact frame (or sample) rate held as a reduced fraction of
// arbitrary-precision integers. The zero value is not valid; construct via
// New or Parse. A Rate is immutable after construction.
type Rate struct {
	num *big.Int
	den *big.Int
}

// New builds a Rate from an integer numerator and denominator, reducing to
// lowest terms. Zero or negative components fail with InvalidRateValue, as
// does a rate outside the supported fps bounds.
func New(num, den int64) (Rate, error) {
	if den == 0 {
		return Rate{}, errors.NewInvalidRateValueError("frame rate denominator must not be zero")
	}
	if num <= 0 || den < 0 {
		return Rate{}, errors.NewInvalidRateValueError(
			fmt.Sprintf("frame rate must be positive, got %d/%d", num, den))
	}

	r := new(big.Rat).SetFrac64(num, den)
	if err := validateBounds(r); err != nil {
		return Rate{}, err
	}

	// big.Rat reduces to lowest terms on construction.
	return Rate{
		num: new(big.Int).Set(r.Num()),
		den: new(big.Int).Set(r.Denom()),
	}, nil
}

// Parse converts a rate literal into an exact Rate. Accepted forms are a
// bare positive integer ("25"), a known broadcast decimal ("23.976"), or an
// explicit rational ("30000/1001"). Decimal literals resolve through the
// broadcast table; unrecognised decimals are rejected rather than rounded.
func Parse(input string) (Rate, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Rate{}, errors.NewInvalidRateFormatError(input)
	}

	if key, ok := decimalToRational[s]; ok {
		return New(key.num, key.den)
	}

	if m := rationalLiteral.FindStringSubmatch(s); m != nil {
		num, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Rate{}, errors.NewInvalidRateFormatError(input)
		}
		den, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return Rate{}, errors.NewInvalidRateFormatError(input)
		}
		return New(num, den)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return New(n, 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Rate{}, errors.NewInvalidRateFormatError(input)
	}
	if f <= 0 {
		return Rate{}, errors.NewInvalidRateValueError(
			fmt.Sprintf("frame rate must be positive, got %s", s))
	}

	// Whole-valued decimals such as "25.00" collapse to the integer rate.
	if n := int64(f + 0.5); abs(f-float64(n)) < 1e-6 {
		return New(n, 1)
	}

	// Free-form decimals may still denote an NTSC family member.
	for _, key := range ntscFamily {
		if abs(f-float64(key.num)/float64(key.den)) < 1e-3 {
			return New(key.num, key.den)
		}
	}

	return Rate{}, errors.NewInvalidRateFormatError(input)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func validateBounds(r *big.Rat) error {
	if r.Cmp(minRate) < 0 || r.Cmp(maxRate) >= 0 {
		f, _ := r.Float64()
		return errors.NewInvalidRateValueError(
			fmt.Sprintf("frame rate %g fps outside supported range [0.1, 500)", f))
	}
	return nil
}

// Num returns a copy of the reduced numerator.
func (r Rate) Num() *big.Int {
	return new(big.Int).Set(r.num)
}

// Den returns a copy of the reduced denominator.
func (r Rate) Den() *big.Int {
	return new(big.Int).Set(r.den)
}

// Rat returns the rate as a fresh big.Rat in units of 1/second.
func (r Rate) Rat() *big.Rat {
	return new(big.Rat).SetFrac(r.num, r.den)
}

// UnitDuration returns the exact duration of one frame (or sample) in
// seconds, i.e. den/num.
func (r Rate) UnitDuration() *big.Rat {
	return new(big.Rat).SetFrac(r.den, r.num)
}

// Double returns the rate with numerator doubled, used for field-based
// output where each frame carries two fields.
func (r Rate) Double() Rate {
	return Rate{
		num: new(big.Int).Mul(r.num, big.NewInt(2)),
		den: new(big.Int).Set(r.den),
	}
}

// Float64 returns the nearest float to the exact rate, for display only.
func (r Rate) Float64() float64 {
	f, _ := r.Rat().Float64()
	return f
}

// String renders the rate for logs and reports.
func (r Rate) String() string {
	if r.den.Cmp(big.NewInt(1)) == 0 {
		return fmt.Sprintf("%s fps", r.num)
	}
	return fmt.Sprintf("%.6f fps (%s/%s)", r.Float64(), r.num, r.den)
}

// key returns the catalog lookup key, or false if the components exceed
// int64 (no catalog entry can match such a rate).
func (r Rate) key() (rationalKey, bool) {
	if !r.num.IsInt64() || !r.den.IsInt64() {
		return rationalKey{}, false
	}
	return rationalKey{r.num.Int64(), r.den.Int64()}, true
}
