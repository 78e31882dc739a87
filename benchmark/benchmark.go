package benchmark

import (
	"errors"
	"io"
	"math"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"example.com/fanctl/core/fls"
)

const (
	sweepPoints = 100
	maxLatency  = int64(10 * time.Millisecond)
)

var errInconsistentResult = errors.New("concurrent inference produced a different result")

type Result struct {
	Count    int64
	Duration time.Duration
	Mean     float64
	P50      int64
	P99      int64
	Max      int64
}

func sweep(sys *fls.System) []float64 {
	lo, hi := sys.Inputs().Support()
	margin := (hi - lo) / 10
	lo, hi = lo-margin, hi+margin
	xs := make([]float64, sweepPoints)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(sweepPoints-1)
	}
	return xs
}

// Run measures inference latency in nanoseconds. numGoroutines goroutines
// share sys and each run numRequests inferences over a temperature sweep.
// Every result is checked against a sequential reference run.
func Run(log *zap.Logger, w io.Writer, sys *fls.System, numGoroutines, numRequests int) (Result, error) {
	xs := sweep(sys)
	want := make([]float64, len(xs))
	for i, x := range xs {
		y, err := sys.Run(x)
		if err != nil {
			return Result{}, err
		}
		want[i] = y
	}

	total := hdrhistogram.New(1, maxLatency, 3)
	var mu sync.Mutex
	var firstErr error
	sg := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := numGoroutines; i > 0; i-- {
		go func() {
			defer wg.Done()
			hg := hdrhistogram.New(1, maxLatency, 3)
			var err error
			<-sg
			for j := 0; j != numRequests; j++ {
				k := j % len(xs)
				t0 := time.Now()
				y, rerr := sys.Run(xs[k])
				d := time.Since(t0).Nanoseconds()
				if rerr != nil {
					err = rerr
					break
				}
				if math.Float64bits(y) != math.Float64bits(want[k]) {
					err = errInconsistentResult
					break
				}
				if d > hg.HighestTrackableValue() {
					d = hg.HighestTrackableValue()
				}
				if rerr = hg.RecordValue(d); rerr != nil {
					err = rerr
					break
				}
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			total.Merge(hg)
		}()
	}
	t0 := time.Now()
	close(sg)
	wg.Wait()
	elapsed := time.Since(t0)
	if firstErr != nil {
		return Result{}, firstErr
	}

	r := Result{
		Count:    total.TotalCount(),
		Duration: elapsed,
		Mean:     total.Mean(),
		P50:      total.ValueAtQuantile(50),
		P99:      total.ValueAtQuantile(99),
		Max:      total.Max(),
	}
	log.Info("benchmark finished",
		zap.Int("goroutines", numGoroutines),
		zap.Int64("inferences", r.Count),
		zap.Duration("duration", r.Duration),
		zap.Float64("mean [ns]", r.Mean),
		zap.Int64("p50 [ns]", r.P50),
		zap.Int64("p99 [ns]", r.P99),
	)
	if w != nil {
		_, err := total.PercentilesPrint(w, 1, 1.0)
		if err != nil {
			return r, err
		}
	}
	return r, nil
}
