package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/finance"
)

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestApplyScenario_RealisticIsIdentity(t *testing.T) {
	base := enterpriseSet()

	derived, err := finance.ApplyScenario(base, finance.ScenarioRealistic)
	require.NoError(t, err)
	assert.True(t, derived.Equal(base))
}

func TestApplyScenario_PessimisticMultipliesTargets(t *testing.T) {
	base := enterpriseSet()

	derived, err := finance.ApplyScenario(base, finance.ScenarioPessimistic)
	require.NoError(t, err)

	assertDecimal(t, 546000, derived.Costs.License, 1e-6)        // 420k × 1.3
	assertDecimal(t, 494000, derived.Costs.Implementation, 1e-6) // 380k × 1.3
	assertDecimal(t, 623000, derived.Benefits.AnnualSavings, 1e-6)
	assertDecimal(t, 0.15, derived.Risks.Timeline, 1e-9)
	assertDecimal(t, 210000, derived.Costs.Consulting, 1e-6) // 150k × 1.4
	assertDecimal(t, 105000, derived.Costs.Migration, 1e-6)  // 75k × 1.4

	// Untouched fields carry over
	assert.True(t, derived.Costs.Training.Equal(base.Costs.Training))
	assert.True(t, derived.Benefits.CurrentRevenue.Equal(base.Benefits.CurrentRevenue))
}

func TestApplyScenario_BaseNeverMutated(t *testing.T) {
	base := enterpriseSet()
	snapshot := enterpriseSet()

	for _, s := range finance.Scenarios() {
		_, err := s.Apply(base)
		require.NoError(t, err)
	}
	assert.True(t, base.Equal(snapshot))
}

func TestApplyScenario_Unknown(t *testing.T) {
	_, err := finance.ApplyScenario(referenceSet(), "apocalyptic")
	assert.ErrorIs(t, err, finance.ErrUnknownScenario)
	assert.True(t, finance.IsClientError(err))
}

func TestApplyScenario_RiskPushedOutOfRange(t *testing.T) {
	// GIVEN: A 70% adoption risk under the 1.5× pessimistic multiplier
	// THEN: The derived 105% probability is rejected, not clamped
	base := referenceSet()
	base.Risks.Adoption = finance.Rate(0.7)

	_, err := finance.ApplyScenario(base, finance.ScenarioPessimistic)
	require.Error(t, err)

	var verr *finance.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "risks.adoption", verr.Field)
}

func TestScenarios_OrderAndCopy(t *testing.T) {
	list := finance.Scenarios()
	require.Len(t, list, 4)
	assert.Equal(t, finance.ScenarioPessimistic, list[0].Name)
	assert.Equal(t, finance.ScenarioAggressive, list[3].Name)

	list[0].Name = "changed"
	assert.Equal(t, finance.ScenarioPessimistic, finance.Scenarios()[0].Name)
}

// =============================================================================
// BENCHMARK TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		industry finance.Industry
		roi      float64
		payback  *float64
		want     finance.Rating
	}{
		{"excellent needs fast payback", finance.IndustryManufacturing, 240, ptr(2.0), finance.RatingExcellent},
		{"high roi slow payback is good", finance.IndustryManufacturing, 240, ptr(3.0), finance.RatingGood},
		{"high roi no payback is good", finance.IndustryManufacturing, 240, nil, finance.RatingGood},
		{"at reference", finance.IndustryRetail, 165, ptr(2.0), finance.RatingGood},
		{"three quarters", finance.IndustryManufacturing, 150, ptr(2.0), finance.RatingAverage},
		{"reference example", "", 71.43, ptr(1.75), finance.RatingBelow},
		{"services", finance.IndustryServices, 200, ptr(2.0), finance.RatingAverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := finance.Classify(tt.industry, finance.Rate(tt.roi), decimalPtr(tt.payback))
			assert.Equal(t, tt.want, res.Rating)
		})
	}
}

func TestClassify_GapAgainstReference(t *testing.T) {
	res := finance.Classify(finance.IndustryServices, finance.Rate(250), nil)
	assert.Equal(t, finance.IndustryServices, res.Reference.Industry)
	assertDecimal(t, 40, res.ROIGapPoints, 1e-9)
}

func TestBenchmarks_EveryIndustry(t *testing.T) {
	list := finance.Benchmarks()
	require.Len(t, list, len(finance.Industries()))
	for _, b := range list {
		assert.True(t, b.ROI3Year.IsPositive())
		assert.True(t, b.PaybackYears.IsPositive())
	}
}

func ptr(v float64) *float64 { return &v }

func decimalPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
