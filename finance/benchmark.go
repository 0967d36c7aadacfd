package finance

import "github.com/shopspring/decimal"

// =============================================================================
// INDUSTRY BENCHMARKS
// =============================================================================

// Benchmark is a static industry reference point.
type Benchmark struct {
	Industry     Industry        `json:"industry"`
	ROI3Year     decimal.Decimal `json:"roi_3_year"`
	PaybackYears decimal.Decimal `json:"payback_years"`
}

// AveragePaybackYears is the cross-industry payback reference.
var AveragePaybackYears = Rate(2.5)

var benchmarks = map[Industry]Benchmark{
	IndustryManufacturing: {Industry: IndustryManufacturing, ROI3Year: Rate(185), PaybackYears: Rate(2.3)},
	IndustryRetail:        {Industry: IndustryRetail, ROI3Year: Rate(165), PaybackYears: Rate(2.6)},
	IndustryServices:      {Industry: IndustryServices, ROI3Year: Rate(210), PaybackYears: Rate(2.0)},
}

// Benchmarks returns the references in Industries() order.
func Benchmarks() []Benchmark {
	out := make([]Benchmark, 0, len(benchmarks))
	for _, i := range Industries() {
		out = append(out, benchmarks[i])
	}
	return out
}

// BenchmarkFor returns the reference for an industry; empty means
// manufacturing.
func BenchmarkFor(i Industry) Benchmark {
	return benchmarks[i.orDefault()]
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingAverage   Rating = "average"
	RatingBelow     Rating = "below"
)

// Rating thresholds as multiples of the industry 3-year ROI.
var (
	excellentRatio = Rate(1.25)
	averageRatio   = Rate(0.75)
)

// BenchmarkResult is the classification attached to a ResultSet.
type BenchmarkResult struct {
	Rating       Rating          `json:"rating"`
	Reference    Benchmark       `json:"reference"`
	ROIGapPoints decimal.Decimal `json:"roi_gap_points"`
}

// Classify rates a 3-year ROI and payback against the industry reference.
// A nil payback (never pays back) cannot be excellent.
//
//	excellent: ROI >= 1.25× reference and payback <= AveragePaybackYears
//	good:      ROI >= reference
//	average:   ROI >= 0.75× reference
//	below:     otherwise
func Classify(industry Industry, roi3 decimal.Decimal, payback *decimal.Decimal) BenchmarkResult {
	ref := BenchmarkFor(industry)
	res := BenchmarkResult{Reference: ref, ROIGapPoints: roi3.Sub(ref.ROI3Year)}

	fastPayback := payback != nil && payback.LessThanOrEqual(AveragePaybackYears)
	switch {
	case roi3.GreaterThanOrEqual(ref.ROI3Year.Mul(excellentRatio)) && fastPayback:
		res.Rating = RatingExcellent
	case roi3.GreaterThanOrEqual(ref.ROI3Year):
		res.Rating = RatingGood
	case roi3.GreaterThanOrEqual(ref.ROI3Year.Mul(averageRatio)):
		res.Rating = RatingAverage
	default:
		res.Rating = RatingBelow
	}
	return res
}
