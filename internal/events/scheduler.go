// Package events walks the MLS bit sequence and the pulse timing catalog to
// produce the ordered stream of exact pulse timestamps that the renderers
// and sinks consume.
package events

import (
	"math/big"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/sequence"
	"github.com/sohonetlabs/dvbcss-synctiming/internal/timing"
)

// Event is a single pulse. Time is the pulse centre in exact seconds from
// the start of the sequence. PulseIndex is 0 for the only pulse of a zero
// bit or the first pulse of a one bit, 1 for the second pulse of a one bit.
type Event struct {
	Time       *big.Rat
	Slot       int
	Bit        int
	PulseIndex int
}

// Scheduler lazily enumerates pulse events covering [0, duration). Events
// are produced in strictly increasing time order; the slot duration exceeds
// every catalog offset and offsets increase within a slot, which makes the
// ordering structural rather than checked.
type Scheduler struct {
	gen      *sequence.Generator
	offsets  [2][]*big.Rat
	slot     *big.Rat
	duration *big.Rat

	slotIdx int
	pending []Event
	done    bool
}

// NewScheduler builds a scheduler for the given sequence order and base
// rate. Fails with UnsupportedOrder or UnsupportedBaseRate. A non-positive
// duration yields an empty (not failed) schedule.
func NewScheduler(order, baseRate int, durationSecs *big.Rat) (*Scheduler, error) {
	gen, err := sequence.NewGenerator(order)
	if err != nil {
		return nil, err
	}

	var offsets [2][]*big.Rat
	for bit := 0; bit <= 1; bit++ {
		offsets[bit], err = timing.PulseOffsets(baseRate, bit)
		if err != nil {
			return nil, err
		}
	}

	s := &Scheduler{
		gen:      gen,
		offsets:  offsets,
		slot:     timing.SlotDuration(),
		duration: new(big.Rat).Set(durationSecs),
	}
	if durationSecs.Sign() <= 0 {
		s.done = true
	}
	return s, nil
}

// Next returns the next pulse event, or ok=false once every event inside
// the requested duration has been produced. All arithmetic stays in exact
// rational form; slot start times are computed as slotIndex * slotDuration
// rather than by accumulation, so event N is bit-identical however it is
// reached.
func (s *Scheduler) Next() (Event, bool) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, true
		}

		if s.done {
			return Event{}, false
		}

		slotStart := new(big.Rat).Mul(big.NewRat(int64(s.slotIdx), 1), s.slot)
		bit := s.gen.Next()

		for i, offset := range s.offsets[bit] {
			t := new(big.Rat).Add(slotStart, offset)
			if t.Cmp(s.duration) >= 0 {
				// Timestamps only grow from here; the schedule is finished.
				s.done = true
				break
			}
			s.pending = append(s.pending, Event{
				Time:       t,
				Slot:       s.slotIdx,
				Bit:        bit,
				PulseIndex: i,
			})
		}
		s.slotIdx++
	}
}

// All drains the scheduler into a slice.
func (s *Scheduler) All() []Event {
	var out []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Times drains the scheduler and returns only the pulse centre times.
func (s *Scheduler) Times() []*big.Rat {
	events := s.All()
	out := make([]*big.Rat, len(events))
	for i, ev := range events {
		out[i] = ev.Time
	}
	return out
}

// NearestWholeCycleDuration snaps a requested duration to the nearest whole
// number of MLS cycles (one cycle is 2^order − 1 slots), never less than one
// full cycle. Generating whole cycles keeps the pattern seamless when the
// sequence is looped during playback.
func NearestWholeCycleDuration(order int, requestedSecs *big.Rat) (*big.Rat, error) {
	gen, err := sequence.NewGenerator(order)
	if err != nil {
		return nil, err
	}

	cycle := new(big.Rat).Mul(big.NewRat(int64(gen.Period()), 1), timing.SlotDuration())

	ideal := requestedSecs
	if ideal.Cmp(cycle) < 0 {
		ideal = cycle
	}

	// cycles = round(ideal / cycle), computed as floor((2n + d) / 2d).
	ratio := new(big.Rat).Quo(ideal, cycle)
	two := big.NewInt(2)
	n := new(big.Int).Mul(two, ratio.Num())
	n.Add(n, ratio.Denom())
	d := new(big.Int).Mul(two, ratio.Denom())
	cycles := new(big.Int).Quo(n, d)

	return new(big.Rat).Mul(new(big.Rat).SetInt(cycles), cycle), nil
}
