package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

// stubEvents is a canned port.EventSource.
type stubEvents struct {
	events []domain.EventRecord
	err    error
}

func (s *stubEvents) LoadEvents(_ context.Context) ([]domain.EventRecord, error) {
	return s.events, s.err
}

var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func tirEvent(city, state string, daysBeforeAsOf int, cpr float64) domain.EventRecord {
	return domain.EventRecord{
		City:      city,
		State:     state,
		Topic:     "taxes_in_retirement_567",
		EventDate: asOf.AddDate(0, 0, -daysBeforeAsOf),
		CPR:       cpr,
	}
}

func TestResolveLocalityFuzzyMatch(t *testing.T) {
	events := []domain.EventRecord{
		tirEvent("boston", "MA", 40, 50),
		tirEvent("worcester", "MA", 10, 60),
	}

	loc, ok := resolveLocality(events, domain.MarketQuery{City: "Bostonn", State: "MA"})
	require.True(t, ok)
	assert.Equal(t, "boston", loc.City)
	assert.Equal(t, "MA", loc.State)

	_, ok = resolveLocality(events, domain.MarketQuery{City: "Zzzyzx", State: "MA"})
	assert.False(t, ok, "dissimilar city must not match")
}

func TestResolveLocalityRestrictsToState(t *testing.T) {
	events := []domain.EventRecord{
		tirEvent("portland", "OR", 20, 45),
	}
	_, ok := resolveLocality(events, domain.MarketQuery{City: "Portland", State: "ME"})
	assert.False(t, ok, "candidates come only from the requested state")
}

func TestResolveLocalityDeterministicTies(t *testing.T) {
	// two equally-similar candidates above threshold: the first in
	// dataset order wins every time
	events := []domain.EventRecord{
		tirEvent("salems", "MA", 20, 45),
		tirEvent("salemx", "MA", 20, 45),
	}
	for i := 0; i < 10; i++ {
		loc, ok := resolveLocality(events, domain.MarketQuery{City: "salem", State: "MA"})
		require.True(t, ok)
		assert.Equal(t, "salems", loc.City)
	}
}

func TestResolveLocalityZipIsExact(t *testing.T) {
	events := []domain.EventRecord{
		{City: "austin", State: "TX", ZipCode: "00787", EventDate: asOf},
	}

	loc, ok := resolveLocality(events, domain.MarketQuery{Zip: "787"})
	require.True(t, ok, "zip is zero-padded to five digits before matching")
	assert.Equal(t, "00787", loc.Zip)

	_, ok = resolveLocality(events, domain.MarketQuery{Zip: "00788"})
	assert.False(t, ok, "no fuzziness on zip codes")
}

func TestPredictDecayWorkedExample(t *testing.T) {
	// one TIR event 40 days back at CPR $50, nothing in the trailing 30
	// days: fatigue 0, rest boost 0.2, topic factor 1.15 -> 50*1.2*1.15
	events := []domain.EventRecord{tirEvent("austin", "TX", 40, 50)}

	report, err := predictDecay(events, "TIR", asOf)
	require.NoError(t, err)

	assert.Equal(t, 40, report.DaysSinceLast)
	assert.Equal(t, 0, report.EventsLast30Days)
	assert.InDelta(t, 69.0, report.PredictedCPR, 1e-9)
	assert.Equal(t, "increase", report.Trend)
	assert.InDelta(t, 20.0, report.DeltaPct, 1e-9)
	assert.InDelta(t, 100*40.0/60.0, report.DecayPct, 1e-9)
	assert.InDelta(t, 100*40.0/90.0, report.RecoveryPct, 1e-9)
	require.NotNil(t, report.ProjectedRecoveryDate)
	assert.Equal(t, events[0].EventDate.AddDate(0, 0, 90), *report.ProjectedRecoveryDate)
	assert.Equal(t, 1, report.SampleSize)
}

func TestPredictDecayTrendMatchesDelta(t *testing.T) {
	// three events inside the trailing window: fatigue 0.3 vs rest
	// boost min(5/30,1)*0.2, so delta < 0 and the trend must read decrease
	events := []domain.EventRecord{
		tirEvent("austin", "TX", 5, 50),
		tirEvent("austin", "TX", 12, 55),
		tirEvent("austin", "TX", 25, 60),
	}

	report, err := predictDecay(events, "TIR", asOf)
	require.NoError(t, err)

	assert.Equal(t, "decrease", report.Trend)
	assert.Less(t, report.DeltaPct, 0.0)
	assert.GreaterOrEqual(t, report.PredictedCPR, 0.0)
	assert.Equal(t, 3, report.EventsLast30Days)
	assert.Equal(t, 5, report.DaysSinceLast, "most recent event sets the gap")
}

func TestPredictDecayLongRestSaturates(t *testing.T) {
	events := []domain.EventRecord{tirEvent("austin", "TX", 200, 40)}

	report, err := predictDecay(events, "", asOf)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, report.DecayPct, 1e-9)
	assert.InDelta(t, 100.0, report.RecoveryPct, 1e-9)
	assert.Nil(t, report.ProjectedRecoveryDate, "fully recovered markets have no projected date")
	assert.InDelta(t, 40*1.2, report.PredictedCPR, 1e-9, "rest boost caps at 0.2 and unknown topic factor is 1.0")
}

func TestPredictDecayHeavySaturationFloorsAtZero(t *testing.T) {
	// 15 events inside the trailing window: fatigue 1.5 swamps the rest
	// boost and 1+delta goes negative, but the projection must not
	events := make([]domain.EventRecord, 0, 15)
	for d := 1; d <= 15; d++ {
		events = append(events, tirEvent("austin", "TX", d, 50))
	}

	report, err := predictDecay(events, "TIR", asOf)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.PredictedCPR)
	assert.Less(t, report.DeltaPct, -100.0, "the raw delta is still reported")
	assert.Equal(t, "decrease", report.Trend)
}

func TestPredictDecayNoData(t *testing.T) {
	_, err := predictDecay(nil, "TIR", asOf)
	assert.ErrorIs(t, err, port.ErrNoHistoricalData)
}

func TestMediaEfficiencyGuardsZeroDenominators(t *testing.T) {
	m := mediaEfficiency([]domain.EventRecord{
		{Registrants: 40, Spend: 2000},
	})

	assert.Nil(t, m.Frequency)
	assert.Nil(t, m.RegsPer1kImpressions)
	assert.Nil(t, m.CPM)
	assert.Nil(t, m.ConversionRate)
	assert.Nil(t, m.MediaCPR)
}

func TestMediaEfficiencyDerivesCPR(t *testing.T) {
	m := mediaEfficiency([]domain.EventRecord{
		{Impressions: 100000, Reach: 40000, Spend: 2000, Registrants: 40},
	})

	require.NotNil(t, m.Frequency)
	assert.InDelta(t, 2.5, *m.Frequency, 1e-9)
	require.NotNil(t, m.CPM)
	assert.InDelta(t, 20.0, *m.CPM, 1e-9)
	require.NotNil(t, m.MediaCPR)
	assert.InDelta(t, 50.0, *m.MediaCPR, 1e-9, "media CPR reduces to spend per registrant")
}

func TestPredictCPRResolvesFuzzyLocality(t *testing.T) {
	src := &stubEvents{events: []domain.EventRecord{tirEvent("austin", "TX", 40, 50)}}
	u := NewMarketUseCase(src, testLogger())

	report, err := u.PredictCPR(context.Background(), domain.MarketQuery{
		City: "Austinn", State: "tx", Topic: "TIR",
	}, asOf)
	require.NoError(t, err)

	assert.Equal(t, "austin, TX", report.Locality)
	assert.InDelta(t, 69.0, report.PredictedCPR, 1e-9)
}

func TestPredictCPRTypedNotFound(t *testing.T) {
	src := &stubEvents{events: []domain.EventRecord{tirEvent("austin", "TX", 40, 50)}}
	u := NewMarketUseCase(src, testLogger())

	_, err := u.PredictCPR(context.Background(), domain.MarketQuery{City: "Zzzyzx", State: "TX"}, asOf)
	assert.ErrorIs(t, err, port.ErrNoMatchingLocality)

	// locality resolves but the topic slice is empty
	_, err = u.PredictCPR(context.Background(), domain.MarketQuery{City: "Austin", State: "TX", Topic: "EP"}, asOf)
	assert.ErrorIs(t, err, port.ErrNoHistoricalData)

	_, err = u.PredictCPR(context.Background(), domain.MarketQuery{City: "Austin"}, asOf)
	assert.ErrorIs(t, err, port.ErrInvalidQuery)
}

func TestHealthRiskLevels(t *testing.T) {
	saturated := []domain.EventRecord{
		{City: "austin", State: "TX", EventDate: asOf.AddDate(0, 0, -5),
			CPR: 70, Impressions: 100000, Reach: 40000, Registrants: 50}, // 0.5 regs/1k
	}
	report, err := assessHealth(saturated, "TIR", asOf)
	require.NoError(t, err)
	assert.Equal(t, "High (Saturation)", report.RiskLevel)
	assert.Equal(t, 1, report.EventsLast30Days)

	moderate := []domain.EventRecord{
		{City: "austin", State: "TX", EventDate: asOf.AddDate(0, 0, -50),
			CPR: 45, Impressions: 10000, Reach: 4000, Registrants: 50},
	}
	report, err = assessHealth(moderate, "TIR", asOf)
	require.NoError(t, err)
	assert.Equal(t, "Moderate", report.RiskLevel)
	assert.Equal(t, 0, report.EventsLast30Days)

	healthy := []domain.EventRecord{
		{City: "austin", State: "TX", EventDate: asOf.AddDate(0, 0, -50),
			CPR: 30, Impressions: 10000, Reach: 4000, Registrants: 50},
	}
	report, err = assessHealth(healthy, "TIR", asOf)
	require.NoError(t, err)
	assert.Equal(t, "Low", report.RiskLevel)
}

func TestHealthGuardsSparseRows(t *testing.T) {
	events := []domain.EventRecord{
		{City: "austin", State: "TX", EventDate: asOf.AddDate(0, 0, -5), CPR: 50},
	}
	report, err := assessHealth(events, "", asOf)
	require.NoError(t, err)

	assert.Nil(t, report.AvgFrequency, "zero reach rows contribute no frequency")
	assert.Nil(t, report.AvgRegsPer1kImpressions)
	assert.InDelta(t, 50.0, report.AvgCPR, 1e-9)
}

func TestExpectedRegistrants(t *testing.T) {
	events := []domain.EventRecord{
		{Registrants: 28, FBDays: 7}, // 4/day
		{Registrants: 12, FBDays: 6}, // 2/day
		{Registrants: 10, FBDays: 0}, // excluded
	}
	regs := expectedRegistrants(events)
	require.NotNil(t, regs)
	assert.InDelta(t, 42.0, *regs, 1e-9, "mean pace 3/day over a 14-day flight")

	assert.Nil(t, expectedRegistrants([]domain.EventRecord{{Registrants: 10}}))
}
