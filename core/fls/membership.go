package fls

import (
	"fmt"
	"math"

	"example.com/fanctl/base/floats"
)

// Triangle is a triangular membership function rising from 0 at A to 1 at B
// and falling back to 0 at C.
type Triangle struct {
	A, B, C float64
}

type Set struct {
	Name string
	Triangle
}

func (t Triangle) finite() bool {
	return !math.IsNaN(t.A) && !math.IsInf(t.A, 0) &&
		!math.IsNaN(t.B) && !math.IsInf(t.B, 0) &&
		!math.IsNaN(t.C) && !math.IsInf(t.C, 0)
}

func (t Triangle) ordered() bool {
	return t.A <= t.B && t.B <= t.C
}

// Degenerate reports whether one of the two slopes is undefined.
func (t Triangle) Degenerate() bool {
	return t.A == t.B || t.B == t.C
}

func (t Triangle) Midpoint() float64 {
	return floats.Mean([]float64{t.A, t.B, t.C})
}

// Membership returns the degree of x in [0, 1]. Inside (A, C) a degenerate
// triangle yields ErrDegenerateSet.
func (t Triangle) Membership(x float64) (float64, error) {
	switch {
	case math.IsNaN(x):
		return 0, ErrInvalidValue
	case x <= t.A || x >= t.C:
		return 0, nil
	case t.Degenerate():
		return 0, ErrDegenerateSet
	case x < t.B:
		return (x - t.A) / (t.B - t.A), nil
	default:
		// x == B falls here and yields exactly 1.
		return (t.C - x) / (t.C - t.B), nil
	}
}

// Domain is an immutable, ordered collection of named triangular sets.
type Domain struct {
	sets  []Set
	index map[string]int
}

func NewDomain(sets []Set) (*Domain, error) {
	if len(sets) == 0 {
		return nil, ErrEmptyDomain
	}
	d := &Domain{
		sets:  make([]Set, len(sets)),
		index: make(map[string]int, len(sets)),
	}
	for i, s := range sets {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: empty name at position %d", ErrUnknownSet, i)
		}
		if _, ok := d.index[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSet, s.Name)
		}
		if !s.finite() {
			return nil, fmt.Errorf("%w: %q has non-finite breakpoints", ErrInvalidValue, s.Name)
		}
		if !s.ordered() {
			return nil, fmt.Errorf("%w: %q = (%v, %v, %v)",
				ErrUnorderedBreakpoints, s.Name, s.A, s.B, s.C)
		}
		d.sets[i] = s
		d.index[s.Name] = i
	}
	return d, nil
}

func (d *Domain) lookup(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return i, nil
}

func (d *Domain) Len() int { return len(d.sets) }

// Sets returns a copy of the sets in definition order.
func (d *Domain) Sets() []Set {
	return append([]Set(nil), d.sets...)
}

func (d *Domain) Lookup(name string) (Set, error) {
	i, err := d.lookup(name)
	if err != nil {
		return Set{}, err
	}
	return d.sets[i], nil
}

// Support returns the smallest interval covering every set of the domain.
func (d *Domain) Support() (lo, hi float64) {
	lo, hi = d.sets[0].A, d.sets[0].C
	for _, s := range d.sets[1:] {
		lo = math.Min(lo, s.A)
		hi = math.Max(hi, s.C)
	}
	return lo, hi
}

func (d *Domain) membership(x float64, i int) (float64, error) {
	m, err := d.sets[i].Membership(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %q at x = %v", err, d.sets[i].Name, x)
	}
	return m, nil
}

func (d *Domain) Membership(x float64, name string) (float64, error) {
	i, err := d.lookup(name)
	if err != nil {
		return 0, err
	}
	return d.membership(x, i)
}
