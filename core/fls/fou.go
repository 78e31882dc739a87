package fls

import (
	"fmt"
	"math"

	"example.com/fanctl/base/floats"
)

// FOU is the footprint of uncertainty of a set: the lower membership bound
// lies LowerDelta below the primary degree, the upper bound UpperDelta above.
type FOU struct {
	LowerDelta float64
	UpperDelta float64
}

// Interval is an interval type-2 membership degree. Lower <= Upper holds for
// every Interval produced from a valid FOU.
type Interval struct {
	Upper float64
	Lower float64
}

func validDelta(d float64) bool {
	return !math.IsNaN(d) && d >= 0 && d <= 1
}

func (f FOU) validate() error {
	if !validDelta(f.LowerDelta) || !validDelta(f.UpperDelta) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidFOU, f.LowerDelta, f.UpperDelta)
	}
	return nil
}

func (f FOU) widen(primary float64, unbounded bool) Interval {
	primary = floats.Clamp(primary, 0, 1)
	if primary == 0 && !unbounded {
		return Interval{}
	}
	return Interval{
		Upper: floats.Clamp(primary+f.UpperDelta, 0, 1),
		Lower: floats.Clamp(primary-f.LowerDelta, 0, 1),
	}
}

// Widener turns primary membership degrees into interval type-2 degrees.
//
// A bounded widener keeps the footprint inside the support of each set: a
// zero primary degree widens to [0, 0]. An unbounded widener applies the
// deltas everywhere, so a set with UpperDelta > 0 fires for every input.
type Widener struct {
	fous      map[string]FOU
	unbounded bool
}

func NewWidener(fous map[string]FOU, unbounded bool) (*Widener, error) {
	w := &Widener{
		fous:      make(map[string]FOU, len(fous)),
		unbounded: unbounded,
	}
	for name, f := range fous {
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("%w for %q", err, name)
		}
		w.fous[name] = f
	}
	return w, nil
}

func (w *Widener) lookup(name string) (FOU, error) {
	f, ok := w.fous[name]
	if !ok {
		return FOU{}, fmt.Errorf("%w: %q", ErrUnknownFOU, name)
	}
	return f, nil
}

// Widen applies the FOU of the named set to primary. Both bounds are clamped
// to [0, 1]; clamping is never an error.
func (w *Widener) Widen(primary float64, name string) (Interval, error) {
	if math.IsNaN(primary) {
		return Interval{}, fmt.Errorf("%w: membership degree NaN for %q", ErrInvalidValue, name)
	}
	f, err := w.lookup(name)
	if err != nil {
		return Interval{}, err
	}
	return f.widen(primary, w.unbounded), nil
}
