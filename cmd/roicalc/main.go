/*
main.go - Command-line ROI calculator

PURPOSE:
  Runs the engine over an assumptions file without a server or database.
  Prints the analysis as indented JSON on stdout.

FLAGS:
  -in           Assumptions file (.json, .yaml, .yml), required
  -demo         Use a built-in demo profile instead of -in
  -scenario     pessimistic, realistic, optimistic, aggressive
  -iterations   Monte Carlo iterations, 0 skips the simulation
  -seed         Monte Carlo seed, 0 is time-based
  -sensitivity  Include the sensitivity ranking
  -log-level    debug, info, warn, error (logs go to stderr)

EXAMPLES:
  ./roicalc -in plant.yaml -scenario pessimistic
  ./roicalc -demo reference-rollout -iterations 10000 -seed 7 -sensitivity

EXIT CODES:
  0 success, 1 calculation error, 2 usage error
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/warp/roi-engine/erp"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/finance"
	"github.com/warp/roi-engine/logging"
)

type options struct {
	in          string
	demo        string
	scenario    string
	iterations  int
	seed        uint64
	sensitivity bool
	logLevel    string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.SetupWriter(os.Stderr, opts.logLevel, "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		var verr *finance.ValidationError
		if errors.As(err, &verr) {
			logger.Error().Str("field", verr.Field).Str("reason", verr.Reason).Msg("Invalid assumptions")
		} else {
			logger.Error().Err(err).Msg("Calculation failed")
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("roicalc", flag.ContinueOnError)
	fs.StringVar(&o.in, "in", "", "assumptions file (.json, .yaml, .yml)")
	fs.StringVar(&o.demo, "demo", "", "built-in demo profile ID")
	fs.StringVar(&o.scenario, "scenario", "", "scenario preset")
	fs.IntVar(&o.iterations, "iterations", 0, "Monte Carlo iterations, 0 skips the simulation")
	fs.Uint64Var(&o.seed, "seed", 0, "Monte Carlo seed, 0 is time-based")
	fs.BoolVar(&o.sensitivity, "sensitivity", false, "include the sensitivity ranking")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if (o.in == "") == (o.demo == "") {
		return options{}, errors.New("exactly one of -in or -demo is required")
	}
	if !logging.ValidLevel(o.logLevel) {
		return options{}, fmt.Errorf("unknown log level %q", o.logLevel)
	}
	if o.iterations < 0 {
		return options{}, fmt.Errorf("-iterations must be >= 0, got %d", o.iterations)
	}
	return o, nil
}

func run(ctx context.Context, o options, out io.Writer) error {
	set, err := load(o)
	if err != nil {
		return err
	}

	analysisOpts := finance.AnalysisOptions{Scenario: finance.ScenarioName(o.scenario)}
	if o.iterations > 0 {
		sim := finance.NewMonteCarloSimulator()
		sim.Iterations = o.iterations
		sim.Seed = o.seed
		analysisOpts.MonteCarlo = sim
	}
	if o.sensitivity {
		analysisOpts.Sensitivity = finance.NewSensitivityAnalyzer()
	}

	analysis, err := finance.NewCalculator().Analyze(ctx, set, analysisOpts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}

func load(o options) (finance.AssumptionSet, error) {
	f := factory.NewAssumptionFactory()
	if o.in != "" {
		return f.LoadAssumptionsFile(o.in)
	}
	js, err := erp.ProfileJSON(o.demo)
	if err != nil {
		return finance.AssumptionSet{}, err
	}
	return f.ParseAssumptions(js)
}
