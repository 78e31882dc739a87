package fls

import (
	"fmt"
	"math"

	"example.com/fanctl/base/floats"
)

// Defuzzifier reduces firing strengths to a crisp value with the height
// method: the strength-weighted average of the output set midpoints.
type Defuzzifier struct {
	outputs *Domain
	mids    []float64
}

func NewDefuzzifier(outputs *Domain) *Defuzzifier {
	d := &Defuzzifier{
		outputs: outputs,
		mids:    make([]float64, outputs.Len()),
	}
	for i, s := range outputs.sets {
		d.mids[i] = s.Midpoint()
	}
	return d
}

// Defuzzify returns 0 if no strength is positive. Terms are summed in the
// order of s, so equal inputs give bit-identical results.
func (d *Defuzzifier) Defuzzify(s Strengths) (float64, error) {
	vs := make([]float64, 0, len(s))
	ws := make([]float64, 0, len(s))
	for _, x := range s {
		if math.IsNaN(x.Value) || x.Value < 0 {
			return 0, fmt.Errorf("%w: strength %v for %q", ErrInvalidValue, x.Value, x.Set)
		}
		i, err := d.outputs.lookup(x.Set)
		if err != nil {
			return 0, err
		}
		if x.Value > 0 {
			vs = append(vs, d.mids[i])
			ws = append(ws, x.Value)
		}
	}
	m, ok := floats.WeightedMean(vs, ws)
	if !ok {
		return 0, nil
	}
	return m, nil
}
