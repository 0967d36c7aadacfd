/*
montecarlo.go - Randomised trials over cost, benefit and timeline

PURPOSE:
  Produces ROI, NPV and payback distributions instead of point estimates.

TRIAL:
  1. Draw three standard normal variates with the Box-Muller transform:
       z = sqrt(−2·ln(u1)) · cos(2π·u2)
     and turn each into a multiplier v = 1 + z·stdDev
     (cost 0.15, benefit 0.20, timeline 0.25 by default).
  2. Scale total costs, the annual benefit total and the horizon.
  3. Recompute 3-year ROI, NPV and payback with the deterministic formulas.

  Multipliers are floored at MinVariation so a sample never flips the sign
  of a cost or benefit. The scaled horizon is max(1, round(h·v)).

PARALLELISM:
  Trials are independent. At ParallelThreshold iterations or more the run
  is split across workers, each with its own PCG generator seeded from
  (Seed, worker index). Partial sample sets are concatenated in worker
  order before sorting, so a fixed Seed and worker count reproduce a run.

CANCELLATION:
  Workers check the context between batches of BatchSize trials. A
  cancelled run returns the context error and no partial result.

SEE ALSO:
  - cashflow.go, dcf.go, risk.go: Formulas reused per trial
*/
package finance

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// MinVariation is the floor applied to every sampled multiplier.
const MinVariation = 0.01

// VariationModel holds the standard deviation of each multiplier.
type VariationModel struct {
	CostStdDev     float64 `json:"cost_std_dev"`
	BenefitStdDev  float64 `json:"benefit_std_dev"`
	TimelineStdDev float64 `json:"timeline_std_dev"`
}

// DefaultVariationModel returns the standard deviations 0.15/0.20/0.25.
func DefaultVariationModel() VariationModel {
	return VariationModel{CostStdDev: 0.15, BenefitStdDev: 0.20, TimelineStdDev: 0.25}
}

// MonteCarloSimulator runs trials over an AssumptionSet.
type MonteCarloSimulator struct {
	Benefits          BenefitEstimator
	Variation         VariationModel
	Iterations        int
	Seed              uint64 // 0 picks a time-based seed
	Workers           int    // 0 uses GOMAXPROCS
	BatchSize         int
	ParallelThreshold int
}

// NewMonteCarloSimulator returns a simulator with 1,000 iterations and
// the default variation model.
func NewMonteCarloSimulator() *MonteCarloSimulator {
	return &MonteCarloSimulator{
		Benefits:          NewBenefitEstimator(),
		Variation:         DefaultVariationModel(),
		Iterations:        1000,
		BatchSize:         500,
		ParallelThreshold: 10000,
	}
}

// Distribution summarises a sorted sample array.
type Distribution struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	P10     float64 `json:"p10"`
	P90     float64 `json:"p90"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
}

// MonteCarloResult holds the distributions of a run.
type MonteCarloResult struct {
	Iterations             int            `json:"iterations"`
	Seed                   uint64         `json:"seed"`
	Workers                int            `json:"workers"`
	Variation              VariationModel `json:"variation"`
	ROI                    Distribution   `json:"roi"`
	NPV                    Distribution   `json:"npv"`
	Payback                Distribution   `json:"payback"`
	NPVPositiveProbability float64        `json:"npv_positive_probability"`

	// Trials whose net annual benefit was not positive. They have no
	// payback and are left out of the payback distribution.
	UndefinedPaybackTrials int `json:"undefined_payback_trials"`
}

type trialInputs struct {
	totalCosts  decimal.Decimal
	benefit     decimal.Decimal
	operational decimal.Decimal
	inflation   decimal.Decimal
	discount    decimal.Decimal
	horizon     int
}

// samples is one worker's output. Merging is concatenation, so partial
// sets combine in any grouping.
type samples struct {
	roi              []float64
	npv              []float64
	payback          []float64
	undefinedPayback int
}

func (s *samples) merge(o samples) {
	s.roi = append(s.roi, o.roi...)
	s.npv = append(s.npv, o.npv...)
	s.payback = append(s.payback, o.payback...)
	s.undefinedPayback += o.undefinedPayback
}

// Run executes the configured number of trials over a.
func (m *MonteCarloSimulator) Run(ctx context.Context, a AssumptionSet) (MonteCarloResult, error) {
	if err := a.Validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if m.Iterations < 1 {
		return MonteCarloResult{}, &ValidationError{Field: "iterations", Value: strconv.Itoa(m.Iterations), Reason: "must be >= 1"}
	}

	in := trialInputs{
		totalCosts:  TotalCosts(a),
		benefit:     m.Benefits.Estimate(a).Total,
		operational: a.Costs.Operational,
		inflation:   a.Financial.InflationRate,
		discount:    a.Financial.DiscountRate,
		horizon:     a.Financial.HorizonYears,
	}

	seed := m.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	workers := m.workerCount()
	batch := m.BatchSize
	if batch < 1 {
		batch = 500
	}

	log.Debug().Int("iterations", m.Iterations).Int("workers", workers).Uint64("seed", seed).Msg("Starting monte carlo run")
	start := time.Now()

	parts := make([]samples, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		count := m.Iterations / workers
		if w < m.Iterations%workers {
			count++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			part := samples{
				roi:     make([]float64, 0, count),
				npv:     make([]float64, 0, count),
				payback: make([]float64, 0, count),
			}
			for done := 0; done < count; {
				if err := gctx.Err(); err != nil {
					return err
				}
				n := min(batch, count-done)
				for i := 0; i < n; i++ {
					m.trial(rng, in, &part)
				}
				done += n
			}
			parts[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonteCarloResult{}, err
	}

	var all samples
	for _, p := range parts {
		all.merge(p)
	}

	positive := 0
	for _, v := range all.npv {
		if v > 0 {
			positive++
		}
	}

	res := MonteCarloResult{
		Iterations:             m.Iterations,
		Seed:                   seed,
		Workers:                workers,
		Variation:              m.Variation,
		ROI:                    summarize(all.roi),
		NPV:                    summarize(all.npv),
		Payback:                summarize(all.payback),
		NPVPositiveProbability: float64(positive) / float64(len(all.npv)),
		UndefinedPaybackTrials: all.undefinedPayback,
	}

	log.Debug().Dur("elapsed", time.Since(start)).Float64("npv_positive", res.NPVPositiveProbability).Msg("Monte carlo run finished")
	return res, nil
}

func (m *MonteCarloSimulator) workerCount() int {
	if m.Iterations < m.ParallelThreshold || m.ParallelThreshold <= 0 {
		return 1
	}
	w := m.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, m.Iterations))
}

func (m *MonteCarloSimulator) trial(rng *rand.Rand, in trialInputs, out *samples) {
	vc := variation(rng, m.Variation.CostStdDev)
	vb := variation(rng, m.Variation.BenefitStdDev)
	vt := variation(rng, m.Variation.TimelineStdDev)

	cost := in.totalCosts.Mul(decimal.NewFromFloat(vc))
	benefit := in.benefit.Mul(decimal.NewFromFloat(vb))
	horizon := max(1, int(math.Round(float64(in.horizon)*vt)))

	v := buildCashFlows(cost, benefit, in.operational, in.inflation, horizon)
	out.roi = append(out.roi, ROIForPeriod(3, cost, benefit, in.operational).InexactFloat64())
	out.npv = append(out.npv, NPV(v, in.discount).InexactFloat64())

	if payback, err := PaybackPeriod(v); err != nil {
		out.undefinedPayback++
	} else {
		out.payback = append(out.payback, payback.InexactFloat64())
	}
}

// variation returns 1 + z·stdDev for a Box-Muller normal z, floored at
// MinVariation.
func variation(rng *rand.Rand, stdDev float64) float64 {
	z := boxMuller(rng)
	if stdDev == 0 {
		return 1
	}
	return math.Max(MinVariation, 1+z*stdDev)
}

func boxMuller(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64() // (0,1], keeps ln finite
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func summarize(x []float64) Distribution {
	if len(x) == 0 {
		return Distribution{}
	}
	sort.Float64s(x)
	d := Distribution{
		Samples: len(x),
		Mean:    stat.Mean(x, nil),
		Median:  stat.Quantile(0.5, stat.Empirical, x, nil),
		P10:     stat.Quantile(0.1, stat.Empirical, x, nil),
		P90:     stat.Quantile(0.9, stat.Empirical, x, nil),
		Min:     x[0],
		Max:     x[len(x)-1],
	}
	if len(x) > 1 {
		d.StdDev = stat.StdDev(x, nil)
	}
	return d
}
