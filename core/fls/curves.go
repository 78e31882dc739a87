package fls

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

type CurvePoint struct {
	X       float64
	Primary float64
	Interval
}

// Curve is the sampled footprint of uncertainty of one input set.
type Curve struct {
	Set    string
	Points []CurvePoint
}

// Curves samples every input set on n evenly spaced points spanning the
// support of the input domain.
func (s *System) Curves(n int) ([]Curve, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidValue, n)
	}
	lo, hi := s.inputs.Support()
	xs := floats.Span(make([]float64, n), lo, hi)
	cs := make([]Curve, len(s.engine.rules))
	for i, r := range s.engine.rules {
		cs[i] = Curve{
			Set:    s.inputs.sets[i].Name,
			Points: make([]CurvePoint, n),
		}
		for j, x := range xs {
			primary, err := s.inputs.membership(x, i)
			if err != nil {
				return nil, err
			}
			cs[i].Points[j] = CurvePoint{
				X:        x,
				Primary:  primary,
				Interval: r.fou.widen(primary, s.engine.unbounded),
			}
		}
	}
	return cs, nil
}
