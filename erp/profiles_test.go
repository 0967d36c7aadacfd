package erp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/finance"
)

func TestProfiles_AllParseAndCalculate(t *testing.T) {
	// GIVEN: Every demo profile
	// WHEN: Parsed through the factory and calculated
	// THEN: Each is valid, matches its declared industry and pays back
	f := factory.NewAssumptionFactory()
	calc := finance.NewCalculator()

	for _, p := range Profiles() {
		t.Run(p.ID, func(t *testing.T) {
			doc, err := ProfileJSON(p.ID)
			require.NoError(t, err)

			set, err := f.ParseAssumptions(doc)
			require.NoError(t, err)
			assert.Equal(t, finance.Industry(p.Industry), set.Industry)

			r, err := calc.Calculate(set)
			require.NoError(t, err)
			assert.NotNil(t, r.PaybackYears, "demo projects should pay back")
			assert.True(t, r.NPV.IsPositive())
		})
	}
}

func TestReferenceRollout_MatchesWorkedExample(t *testing.T) {
	set, err := factory.NewAssumptionFactory().ParseAssumptions(ReferenceRolloutJSON())
	require.NoError(t, err)

	r, err := finance.NewCalculator().Calculate(set)
	require.NoError(t, err)
	assert.InDelta(t, 1883876.43, r.NPV.InexactFloat64(), 0.01)
	assert.InDelta(t, 1.75, r.PaybackYears.InexactFloat64(), 1e-9)
}

func TestProfessionalServices_UsesProductivityFallback(t *testing.T) {
	set, err := factory.NewAssumptionFactory().ParseAssumptions(ProfessionalServicesJSON(100, 80_000))
	require.NoError(t, err)

	est := finance.NewBenefitEstimator().Estimate(set)
	assert.InDelta(t, 480_000, est.Breakdown.Productivity.InexactFloat64(), 1e-6)
}

func TestProfileJSON_Unknown(t *testing.T) {
	_, err := ProfileJSON("space-agency")
	assert.Error(t, err)
}

func TestProfiles_ReturnsCopy(t *testing.T) {
	ps := Profiles()
	ps[0].Name = "changed"
	assert.NotEqual(t, "changed", Profiles()[0].Name)
}
