package fls

import (
	"fmt"
	"math"
)

// RuleTable maps each input set name to the output set name it implies.
// Several input sets may share an output set.
type RuleTable map[string]string

// Activation records how one input set responded to a crisp input.
type Activation struct {
	Input   string
	Output  string
	Primary float64
	Interval
	Fired bool
}

type Strength struct {
	Set   string
	Value float64
}

// Strengths holds one entry per output set, in output domain order.
type Strengths []Strength

func (s Strengths) Get(name string) (float64, bool) {
	for _, x := range s {
		if x.Set == name {
			return x.Value, true
		}
	}
	return 0, false
}

func (s Strengths) Fired() bool {
	for _, x := range s {
		if x.Value > 0 {
			return true
		}
	}
	return false
}

type rule struct {
	fou    FOU
	output int
}

// RuleEngine evaluates every input set against a crisp input and aggregates
// the upper membership bounds into per-output firing strengths.
type RuleEngine struct {
	inputs    *Domain
	outputs   *Domain
	rules     []rule
	unbounded bool
}

func NewRuleEngine(inputs, outputs *Domain, w *Widener, rt RuleTable) (*RuleEngine, error) {
	for in, out := range rt {
		if _, err := inputs.lookup(in); err != nil {
			return nil, fmt.Errorf("rule %q -> %q: %w", in, out, err)
		}
		if _, err := outputs.lookup(out); err != nil {
			return nil, fmt.Errorf("rule %q -> %q: %w", in, out, err)
		}
	}
	e := &RuleEngine{
		inputs:    inputs,
		outputs:   outputs,
		rules:     make([]rule, inputs.Len()),
		unbounded: w.unbounded,
	}
	for i, s := range inputs.sets {
		out, ok := rt[s.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingRule, s.Name)
		}
		f, err := w.lookup(s.Name)
		if err != nil {
			return nil, err
		}
		j, _ := outputs.lookup(out)
		e.rules[i] = rule{fou: f, output: j}
	}
	return e, nil
}

// Activations computes the primary degree and interval of every input set
// for temperature, in input domain order.
func (e *RuleEngine) Activations(temperature float64) ([]Activation, error) {
	if math.IsNaN(temperature) {
		return nil, fmt.Errorf("%w: temperature NaN", ErrInvalidValue)
	}
	acts := make([]Activation, len(e.rules))
	for i, r := range e.rules {
		primary, err := e.inputs.membership(temperature, i)
		if err != nil {
			return nil, err
		}
		iv := r.fou.widen(primary, e.unbounded)
		acts[i] = Activation{
			Input:    e.inputs.sets[i].Name,
			Output:   e.outputs.sets[r.output].Name,
			Primary:  primary,
			Interval: iv,
			// Only the upper bound drives firing; the lower bound is
			// reported but not aggregated.
			Fired: iv.Upper > 0,
		}
	}
	return acts, nil
}

func (e *RuleEngine) aggregate(acts []Activation) Strengths {
	s := make(Strengths, e.outputs.Len())
	for j, o := range e.outputs.sets {
		s[j].Set = o.Name
	}
	for i, a := range acts {
		if a.Fired {
			s[e.rules[i].output].Value += a.Upper
		}
	}
	return s
}

// Evaluate returns the firing strength of every output set, zero for sets
// no rule fired.
func (e *RuleEngine) Evaluate(temperature float64) (Strengths, error) {
	acts, err := e.Activations(temperature)
	if err != nil {
		return nil, err
	}
	return e.aggregate(acts), nil
}
