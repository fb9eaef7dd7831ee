// Package sequence generates the maximal-length pseudo-random bit sequences
// that the timecode encodes. The tap table and seed are part of the wire
// contract with deployed measurement hardware: identical order must yield a
// byte-for-byte identical sequence and phase across runs and implementations.
package sequence

import (
	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

// Supported sequence orders (register lengths in bits).
const (
	MinOrder = 3
	MaxOrder = 8
)

// tapTable holds the feedback tap positions of a primitive polynomial per
// register length. Positions are 1-based exponents, the register length
// itself included. Changing an entry breaks compatibility with every
// measurement device already in the field.
var tapTable = map[int][]int{
	3: {3, 2},
	4: {4, 3},
	5: {5, 3},
	6: {6, 5},
	7: {7, 6},
	8: {8, 6, 5, 4},
}

// Generator is a Fibonacci linear-feedback shift register emitting one bit
// per Next call. It is seeded with the all-ones state and cycles with period
// exactly 2^order − 1; pulling more bits than the period wraps around.
type Generator struct {
	order int
	taps  []int
	mask  uint16
	state uint16
}

// NewGenerator returns a generator for the given order, or UnsupportedOrder
// if the order has no tap table entry.
func NewGenerator(order int) (*Generator, error) {
	taps, ok := tapTable[order]
	if !ok {
		return nil, errors.NewUnsupportedOrderError(order, MinOrder, MaxOrder)
	}

	mask := uint16(1)<<order - 1
	return &Generator{
		order: order,
		taps:  taps,
		mask:  mask,
		state: mask, // all ones, never the forbidden all-zero state
	}, nil
}

// Order returns the register length in bits.
func (g *Generator) Order() int {
	return g.order
}

// Period returns the sequence period, 2^order − 1.
func (g *Generator) Period() int {
	return int(g.mask)
}

// Next advances the register one step and returns the bit shifted out.
func (g *Generator) Next() int {
	out := int(g.state>>(g.order-1)) & 1

	var feedback uint16
	for _, t := range g.taps {
		feedback ^= (g.state >> (t - 1)) & 1
	}
	g.state = (g.state<<1 | feedback) & g.mask

	return out
}

// Reset rewinds the generator to its seed state, restarting the sequence
// from phase zero.
func (g *Generator) Reset() {
	g.state = g.mask
}

// Bits returns the next n bits as a slice.
func (g *Generator) Bits(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}
