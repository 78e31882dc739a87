package floats_test

import (
	"math"
	"testing"

	"example.com/fanctl/base/floats"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		lo, hi float64
		want   float64
	}{
		{name: "Inside", x: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "Below", x: -0.3, lo: 0, hi: 1, want: 0},
		{name: "Above", x: 1.4, lo: 0, hi: 1, want: 1},
		{name: "Lower edge", x: 0, lo: 0, hi: 1, want: 0},
		{name: "Upper edge", x: 1, lo: 0, hi: 1, want: 1},
		{name: "Point interval", x: 7, lo: 2, hi: 2, want: 2},
		{name: "Negative infinity", x: math.Inf(-1), lo: 0, hi: 1, want: 0},
		{name: "Positive infinity", x: math.Inf(1), lo: 0, hi: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floats.Clamp(tt.x, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
			}
		})
	}

	t.Run("NaN", func(t *testing.T) {
		if got := floats.Clamp(math.NaN(), 0, 1); !math.IsNaN(got) {
			t.Errorf("Clamp(NaN, 0, 1) = %v, want NaN", got)
		}
	})

	t.Run("InvertedBounds", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Clamp with lo > hi did not panic")
			}
		}()
		floats.Clamp(0.5, 1, 0)
	})
}

func TestMean(t *testing.T) {
	tests := []struct {
		name      string
		input     []float64
		want      float64
		wantPanic bool
	}{
		{name: "Nil slice", input: nil, wantPanic: true},
		{name: "Empty slice", input: []float64{}, wantPanic: true},
		{name: "Single element", input: []float64{42.0}, want: 42.0},
		{name: "Triangle", input: []float64{25, 50, 75}, want: 50},
		{name: "Asymmetric triangle", input: []float64{0, 0, 30}, want: 10},
		{name: "Negative values", input: []float64{-3, -6, -9}, want: -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if tt.wantPanic && r == nil {
					t.Errorf("Mean(%v) did not panic", tt.input)
				} else if !tt.wantPanic && r != nil {
					t.Errorf("Mean(%v) panicked: %v", tt.input, r)
				}
			}()
			got := floats.Mean(tt.input)
			if got != tt.want {
				t.Errorf("Mean(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeightedMean(t *testing.T) {
	tests := []struct {
		name   string
		vs, ws []float64
		want   float64
		wantOK bool
	}{
		{name: "Single weight", vs: []float64{50}, ws: []float64{1}, want: 50, wantOK: true},
		{name: "Equal weights", vs: []float64{25, 75}, ws: []float64{0.5, 0.5}, want: 50, wantOK: true},
		{name: "Unequal weights", vs: []float64{0, 100}, ws: []float64{3, 1}, want: 25, wantOK: true},
		{name: "Zero weights", vs: []float64{25, 50}, ws: []float64{0, 0}, want: 0, wantOK: false},
		{name: "Empty", vs: nil, ws: nil, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := floats.WeightedMean(tt.vs, tt.ws)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("WeightedMean(%v, %v) = (%v, %v), want (%v, %v)",
					tt.vs, tt.ws, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	t.Run("LengthMismatch", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("WeightedMean with mismatched lengths did not panic")
			}
		}()
		floats.WeightedMean([]float64{1, 2}, []float64{1})
	})
}
