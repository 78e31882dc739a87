// Interval type-2 fuzzy fan speed controller

package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"

	"example.com/fanctl/base/zaplog"

	"example.com/fanctl/benchmark"

	"example.com/fanctl/core/config"
	"example.com/fanctl/core/curves"
	"example.com/fanctl/core/fls"
	"example.com/fanctl/core/server"
)

const (
	benchmarkNumGoroutines = 8
	benchmarkNumRequests   = 1_000_000
)

var (
	log *zap.Logger
)

func initLogger(verbose bool) {
	var err error
	log, err = zaplog.New(verbose)
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func loadConfig(configFile string) config.File {
	if configFile == "" {
		return config.Default()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.String("file", configFile), zap.Error(err))
	}
	return cfg
}

func newSystem(cfg config.File) *fls.System {
	c, err := cfg.FLS()
	if err != nil {
		log.Fatal("invalid rule configuration", zap.Error(err))
	}
	sys, err := fls.New(c, log)
	if err != nil {
		log.Fatal("failed to create inference system", zap.Error(err))
	}
	return sys
}

func printTrace(w io.Writer, t fls.Trace) {
	fmt.Fprintf(w, "Temperature: %.2f\n", t.Temperature)
	for _, a := range t.Activations {
		fired := ""
		if a.Fired {
			fired = " -> " + a.Output
		}
		fmt.Fprintf(w, "  %-10s primary %.3f  interval [%.3f, %.3f]%s\n",
			a.Input, a.Primary, a.Lower, a.Upper, fired)
	}
	for _, s := range t.Strengths {
		fmt.Fprintf(w, "  %-10s strength %.3f\n", s.Set, s.Value)
	}
	if !t.Fired() {
		fmt.Fprintln(w, "  no rule fired")
	}
}

func runInference(w io.Writer, sys *fls.System, temperature float64, verbose bool) error {
	t, err := sys.Explain(temperature)
	if err != nil {
		return err
	}
	if verbose {
		printTrace(w, t)
	}
	fmt.Fprintf(w, "Recommended fan speed: %.2f\n", t.Output)
	return nil
}

func runTool(configFile string, temperature float64, verbose bool) {
	sys := newSystem(loadConfig(configFile))
	err := runInference(os.Stdout, sys, temperature, verbose)
	if err != nil {
		log.Fatal("failed to run inference", zap.Float64("temperature", temperature), zap.Error(err))
	}
}

func runServer(configFile string) {
	cfg := loadConfig(configFile)
	sys := newSystem(cfg)
	s := server.NewServer(log, sys, cfg.ServiceSettings())
	err := s.Run()
	log.Fatal("failed to serve", zap.Error(err))
}

func runPlot(configFile, outputFile string) {
	sys := newSystem(loadConfig(configFile))
	err := curves.Save(sys, curves.DefaultSamples, outputFile)
	if err != nil {
		log.Fatal("failed to plot membership curves", zap.String("file", outputFile), zap.Error(err))
	}
	log.Info("plotted membership curves", zap.String("file", outputFile))
}

func runBenchmark(configFile string, numGoroutines, numRequests int) {
	sys := newSystem(loadConfig(configFile))
	_, err := benchmark.Run(log, os.Stdout, sys, numGoroutines, numRequests)
	if err != nil {
		log.Fatal("benchmark failed", zap.Error(err))
	}
}

func exitWithUsage() {
	fmt.Println("usage: fanctl run [-config <file>] [-verbose] -temperature <value>")
	fmt.Println("       fanctl server [-config <file>] [-verbose]")
	fmt.Println("       fanctl plot [-config <file>] [-verbose] -o <file>")
	fmt.Println("       fanctl benchmark [-config <file>] [-verbose] [-goroutines <n>] [-requests <n>]")
	os.Exit(1)
}

func main() {
	var (
		verbose       bool
		configFile    string
		temperature   float64
		outputFile    string
		numGoroutines int
		numRequests   int
	)

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	serverFlags := flag.NewFlagSet("server", flag.ExitOnError)
	plotFlags := flag.NewFlagSet("plot", flag.ExitOnError)
	benchmarkFlags := flag.NewFlagSet("benchmark", flag.ExitOnError)

	runFlags.BoolVar(&verbose, "verbose", false, "Verbose logging and inference trace")
	runFlags.StringVar(&configFile, "config", "", "Config file")
	runFlags.Float64Var(&temperature, "temperature", math.NaN(), "Temperature")

	serverFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	serverFlags.StringVar(&configFile, "config", "", "Config file")

	plotFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	plotFlags.StringVar(&configFile, "config", "", "Config file")
	plotFlags.StringVar(&outputFile, "o", "", "Output file (.pdf, .png, .svg, ...)")

	benchmarkFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchmarkFlags.StringVar(&configFile, "config", "", "Config file")
	benchmarkFlags.IntVar(&numGoroutines, "goroutines", benchmarkNumGoroutines, "Number of goroutines")
	benchmarkFlags.IntVar(&numRequests, "requests", benchmarkNumRequests, "Number of inferences per goroutine")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case runFlags.Name():
		err := runFlags.Parse(os.Args[2:])
		if err != nil || runFlags.NArg() != 0 {
			exitWithUsage()
		}
		if math.IsNaN(temperature) {
			exitWithUsage()
		}
		initLogger(verbose)
		runTool(configFile, temperature, verbose)
	case serverFlags.Name():
		err := serverFlags.Parse(os.Args[2:])
		if err != nil || serverFlags.NArg() != 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runServer(configFile)
	case plotFlags.Name():
		err := plotFlags.Parse(os.Args[2:])
		if err != nil || plotFlags.NArg() != 0 {
			exitWithUsage()
		}
		if outputFile == "" {
			exitWithUsage()
		}
		initLogger(verbose)
		runPlot(configFile, outputFile)
	case benchmarkFlags.Name():
		err := benchmarkFlags.Parse(os.Args[2:])
		if err != nil || benchmarkFlags.NArg() != 0 {
			exitWithUsage()
		}
		if numGoroutines <= 0 || numRequests <= 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runBenchmark(configFile, numGoroutines, numRequests)
	default:
		exitWithUsage()
	}
}
