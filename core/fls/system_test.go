package fls_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"example.com/fanctl/core/fls"
)

func referenceConfig() fls.Config {
	return fls.Config{
		Inputs:  referenceInputs(),
		Outputs: referenceOutputs(),
		FOUs:    referenceFOUs(),
		Rules:   referenceRules(),
	}
}

func newReferenceSystem(t *testing.T) *fls.System {
	t.Helper()
	s, err := fls.New(referenceConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestRunReference(t *testing.T) {
	s := newReferenceSystem(t)
	got, err := s.Run(28)
	if err != nil {
		t.Fatalf("Run(28) failed: %v", err)
	}
	if got != 50.0 {
		t.Errorf("Run(28) = %v, want 50", got)
	}
}

func TestRun(t *testing.T) {
	s := newReferenceSystem(t)
	tests := []struct {
		temperature float64
		want        float64
	}{
		{temperature: 10, want: 25},
		{temperature: 25, want: 50},
		{temperature: 40, want: 75},
		{temperature: 17, want: 37.5},
		{temperature: 33, want: 62.5},
	}
	for _, tt := range tests {
		got, err := s.Run(tt.temperature)
		if err != nil {
			t.Fatalf("Run(%v) failed: %v", tt.temperature, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Run(%v) = %v, want %v", tt.temperature, got, tt.want)
		}
	}
}

func TestRunNoFire(t *testing.T) {
	s := newReferenceSystem(t)
	for _, x := range []float64{-1000, -0.5, 0, 50, 50.5, 1e9, math.Inf(1), math.Inf(-1)} {
		got, err := s.Run(x)
		if err != nil {
			t.Fatalf("Run(%v) failed: %v", x, err)
		}
		if got != 0 {
			t.Errorf("Run(%v) = %v, want 0", x, got)
		}
	}
}

func TestRunUnboundedFOU(t *testing.T) {
	cfg := referenceConfig()
	cfg.UnboundedFOU = true
	s, err := fls.New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := s.Run(28)
	if err != nil {
		t.Fatalf("Run(28) failed: %v", err)
	}
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("Run(28) = %v, want 50", got)
	}
	tr, err := s.Explain(-100)
	if err != nil {
		t.Fatalf("Explain(-100) failed: %v", err)
	}
	if !tr.Fired() {
		t.Error("no rule fired outside the supports with an unbounded FOU")
	}
}

func TestRunNaN(t *testing.T) {
	s := newReferenceSystem(t)
	_, err := s.Run(math.NaN())
	if !errors.Is(err, fls.ErrInvalidValue) {
		t.Errorf("Run(NaN): got %v, want %v", err, fls.ErrInvalidValue)
	}
}

func TestExplain(t *testing.T) {
	s := newReferenceSystem(t)
	tr, err := s.Explain(28)
	if err != nil {
		t.Fatalf("Explain(28) failed: %v", err)
	}
	if tr.Temperature != 28 || tr.Output != 50 || !tr.Fired() {
		t.Errorf("Explain(28) = %+v", tr)
	}
	if len(tr.Activations) != 3 || len(tr.Strengths) != 3 {
		t.Fatalf("Explain(28): %d activations, %d strengths", len(tr.Activations), len(tr.Strengths))
	}
	if v, _ := tr.Strengths.Get("Medium"); v != 1 {
		t.Errorf("Explain(28): strength of Medium = %v, want 1", v)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fls.Config)
		want   error
	}{
		{
			name: "DegenerateInput",
			mutate: func(c *fls.Config) {
				c.Inputs[0].Triangle = fls.Triangle{A: 0, B: 0, C: 20}
			},
			want: fls.ErrDegenerateSet,
		},
		{
			name: "UnorderedOutput",
			mutate: func(c *fls.Config) {
				c.Outputs[1].Triangle = fls.Triangle{A: 75, B: 50, C: 25}
			},
			want: fls.ErrUnorderedBreakpoints,
		},
		{
			name: "NoOutputs",
			mutate: func(c *fls.Config) {
				c.Outputs = nil
			},
			want: fls.ErrEmptyDomain,
		},
		{
			name: "MissingFOU",
			mutate: func(c *fls.Config) {
				delete(c.FOUs, "Hot")
			},
			want: fls.ErrUnknownFOU,
		},
		{
			name: "InvalidFOU",
			mutate: func(c *fls.Config) {
				c.FOUs["Hot"] = fls.FOU{LowerDelta: 2, UpperDelta: 0.3}
			},
			want: fls.ErrInvalidFOU,
		},
		{
			name: "UnknownRuleOutput",
			mutate: func(c *fls.Config) {
				c.Rules["Hot"] = "Turbo"
			},
			want: fls.ErrUnknownSet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := referenceConfig()
			tt.mutate(&cfg)
			_, err := fls.New(cfg, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("New: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDegenerateOutputAllowed(t *testing.T) {
	cfg := referenceConfig()
	cfg.Outputs[0].Triangle = fls.Triangle{A: 0, B: 0, C: 0}
	s, err := fls.New(cfg, nil)
	if err != nil {
		t.Fatalf("New with singleton output failed: %v", err)
	}
	got, err := s.Run(10)
	if err != nil {
		t.Fatalf("Run(10) failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Run(10) = %v, want 0", got)
	}
}

func TestRunConcurrent(t *testing.T) {
	s := newReferenceSystem(t)
	want := make([]float64, 0, 200)
	for x := 0.0; x < 50; x += 0.25 {
		y, err := s.Run(x)
		if err != nil {
			t.Fatalf("Run(%v) failed: %v", x, err)
		}
		want = append(want, y)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j, x := 0, 0.0; x < 50; j, x = j+1, x+0.25 {
				y, err := s.Run(x)
				if err != nil {
					errs <- err
					return
				}
				if math.Float64bits(y) != math.Float64bits(want[j]) {
					errs <- errors.New("concurrent result differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDebugLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s, err := fls.New(referenceConfig(), zap.New(core))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := s.Run(28); err != nil {
		t.Fatalf("Run(28) failed: %v", err)
	}
	entries := logs.FilterMessage("inferred output").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["output"] != 50.0 || fields["Medium"] != 1.0 {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestCurves(t *testing.T) {
	s := newReferenceSystem(t)
	cs, err := s.Curves(101)
	if err != nil {
		t.Fatalf("Curves failed: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("Curves returned %d curves, want 3", len(cs))
	}
	for _, c := range cs {
		if len(c.Points) != 101 {
			t.Errorf("curve %q has %d points, want 101", c.Set, len(c.Points))
		}
		if c.Points[0].X != 0 || c.Points[100].X != 50 {
			t.Errorf("curve %q spans [%v, %v], want [0, 50]", c.Set, c.Points[0].X, c.Points[100].X)
		}
		for _, p := range c.Points {
			if p.Lower > p.Primary || p.Primary > p.Upper {
				t.Errorf("curve %q at %v: %v not in [%v, %v]", c.Set, p.X, p.Primary, p.Lower, p.Upper)
			}
		}
	}
	// x = 10 is the peak of Cold.
	if p := cs[0].Points[20]; p.Primary != 1 || p.Upper != 1 {
		t.Errorf("Cold at %v = %+v, want primary 1", p.X, p)
	}

	if _, err := s.Curves(1); !errors.Is(err, fls.ErrInvalidValue) {
		t.Errorf("Curves(1): got %v, want %v", err, fls.ErrInvalidValue)
	}
}
