package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

// MarketUseCase answers market decay and health queries over the
// historical event dataset. The dataset snapshot is loaded per request
// through the EventSource port, never held as package state, so tests can
// inject synthetic data. It implements port.MarketUseCase.
type MarketUseCase struct {
	events port.EventSource
	logger *slog.Logger
}

// NewMarketUseCase creates the usecase with the provided event source.
func NewMarketUseCase(events port.EventSource, logger *slog.Logger) *MarketUseCase {
	return &MarketUseCase{events: events, logger: logger}
}

// PredictCPR resolves the query's locality and projects cost per
// registrant as of the caller-supplied reference date.
func (u *MarketUseCase) PredictCPR(ctx context.Context, q domain.MarketQuery, asOf time.Time) (*domain.MarketDecayReport, error) {
	filtered, loc, err := u.slice(ctx, q)
	if err != nil {
		return nil, err
	}
	report, err := predictDecay(filtered, q.Topic, asOf)
	if err != nil {
		return nil, err
	}
	report.Locality = loc.Label()

	u.logger.Info("market prediction",
		slog.String("locality", report.Locality),
		slog.String("topic", report.Topic),
		slog.Float64("predicted_cpr", report.PredictedCPR),
		slog.Int("sample_size", report.SampleSize))
	return report, nil
}

// Health returns the aggregate saturation read for the query's market.
func (u *MarketUseCase) Health(ctx context.Context, q domain.MarketQuery, asOf time.Time) (*domain.MarketHealthReport, error) {
	filtered, loc, err := u.slice(ctx, q)
	if err != nil {
		return nil, err
	}
	report, err := assessHealth(filtered, q.Topic, asOf)
	if err != nil {
		return nil, err
	}
	report.Locality = loc.Label()
	return report, nil
}

// slice loads the dataset, resolves the locality and filters down to it.
func (u *MarketUseCase) slice(ctx context.Context, q domain.MarketQuery) ([]domain.EventRecord, domain.Locality, error) {
	if strings.TrimSpace(q.Zip) == "" && (strings.TrimSpace(q.City) == "" || strings.TrimSpace(q.State) == "") {
		return nil, domain.Locality{}, port.ErrInvalidQuery
	}

	events, err := u.events.LoadEvents(ctx)
	if err != nil {
		return nil, domain.Locality{}, fmt.Errorf("loading event history: %w", err)
	}

	loc, ok := resolveLocality(events, q)
	if !ok {
		return nil, domain.Locality{}, port.ErrNoMatchingLocality
	}

	filtered := filterEvents(events, loc, q.Topic)
	if len(filtered) == 0 {
		return nil, domain.Locality{}, port.ErrNoHistoricalData
	}
	return filtered, loc, nil
}

// predictDecay is the deterministic projection heuristic. Recent
// saturation is penalised at 0.1 per event in the trailing 30 days, rest
// is rewarded at up to 0.2 as the gap since the last event approaches 30
// days, and the topic multiplier scales the result. The projection never
// goes below zero. Not a statistical model: no confidence interval is
// produced.
func predictDecay(events []domain.EventRecord, topicCode string, asOf time.Time) (*domain.MarketDecayReport, error) {
	if len(events) == 0 {
		return nil, port.ErrNoHistoricalData
	}

	last := events[0]
	for _, e := range events[1:] {
		if e.EventDate.After(last.EventDate) {
			last = e
		}
	}

	daysSince := int(asOf.Sub(last.EventDate).Hours() / 24)
	count30 := countSince(events, asOf.AddDate(0, 0, -30))

	fatiguePenalty := float64(count30) * 0.1
	restBoost := clamp(float64(daysSince)/30, 1.0) * 0.2
	delta := restBoost - fatiguePenalty
	factor := domain.TopicFactor(topicCode)

	// delta is unbounded below, so the projection multiplier floors at
	// zero; DeltaPct and the trend still report the raw delta
	multiplier := 1 + delta
	if multiplier < 0 {
		multiplier = 0
	}

	trend := "increase"
	if delta < 0 {
		trend = "decrease"
	}

	report := &domain.MarketDecayReport{
		Topic:            strings.ToUpper(strings.TrimSpace(topicCode)),
		LastEventDate:    last.EventDate,
		LastCPR:          last.CPR,
		DaysSinceLast:    daysSince,
		EventsLast30Days: count30,
		PredictedCPR:     last.CPR * multiplier * factor,
		Trend:            trend,
		DeltaPct:         delta * 100,
		DecayPct:         clamp(float64(daysSince)/60, 1.0) * 100,
		RecoveryPct:      clamp(float64(daysSince)/90, 1.0) * 100,
		SampleSize:       len(events),
		Media:            mediaEfficiency(events),
	}
	if report.RecoveryPct < 100 {
		recoveryDate := last.EventDate.AddDate(0, 0, 90)
		report.ProjectedRecoveryDate = &recoveryDate
	}
	if regs := expectedRegistrants(events); regs != nil {
		report.ExpectedRegistrants = regs
	}
	return report, nil
}

// assessHealth aggregates delivery ratios over the slice and grades
// saturation risk: CPR above $60 with under 1.5 registrants per thousand
// impressions reads as saturated, CPR above $40 as moderate.
func assessHealth(events []domain.EventRecord, topicCode string, asOf time.Time) (*domain.MarketHealthReport, error) {
	if len(events) == 0 {
		return nil, port.ErrNoHistoricalData
	}

	var cprs, regs1kImp, regs1kReach, freqs []float64
	for _, e := range events {
		if e.CPR > 0 {
			cprs = append(cprs, e.CPR)
		}
		if v, ok := e.RegsPer1kImpressions(); ok {
			regs1kImp = append(regs1kImp, v)
		}
		if v, ok := e.RegsPer1kReach(); ok {
			regs1kReach = append(regs1kReach, v)
		}
		if v, ok := e.Frequency(); ok {
			freqs = append(freqs, v)
		}
	}

	report := &domain.MarketHealthReport{
		Topic:                   strings.ToUpper(strings.TrimSpace(topicCode)),
		EventsSampled:           len(events),
		EventsLast30Days:        countSince(events, asOf.AddDate(0, 0, -30)),
		AvgRegsPer1kImpressions: meanOf(regs1kImp),
		AvgRegsPer1kReach:       meanOf(regs1kReach),
		AvgFrequency:            meanOf(freqs),
	}
	if avg := meanOf(cprs); avg != nil {
		report.AvgCPR = *avg
	}

	switch {
	case report.AvgCPR > 60 && report.AvgRegsPer1kImpressions != nil && *report.AvgRegsPer1kImpressions < 1.5:
		report.RiskLevel = "High (Saturation)"
	case report.AvgCPR > 40:
		report.RiskLevel = "Moderate"
	default:
		report.RiskLevel = "Low"
	}
	return report, nil
}

// mediaEfficiency overlays aggregate delivery stats on the report. Every
// ratio is guarded: a zero denominator yields a nil pointer (undefined),
// never a division panic or Inf.
func mediaEfficiency(events []domain.EventRecord) *domain.MediaEfficiency {
	m := &domain.MediaEfficiency{}
	for _, e := range events {
		m.Impressions += e.Impressions
		m.Reach += e.Reach
		m.Spend += e.Spend
		m.Registrants += e.Registrants
	}

	if m.Reach > 0 {
		m.Frequency = ptr(m.Impressions / m.Reach)
	}
	if m.Impressions > 0 {
		m.RegsPer1kImpressions = ptr(m.Registrants / m.Impressions * 1000)
		m.CPM = ptr(m.Spend / m.Impressions * 1000)
		m.ConversionRate = ptr(m.Registrants / m.Impressions)
	}
	if m.CPM != nil && m.ConversionRate != nil && *m.ConversionRate > 0 {
		m.MediaCPR = ptr(*m.CPM / (*m.ConversionRate * 1000))
	}
	return m
}

// expectedRegistrants projects registrants for a 14-day flight from the
// historical daily registration pace. Rows without a flight length are
// excluded; nil means no row qualified.
func expectedRegistrants(events []domain.EventRecord) *float64 {
	var paces []float64
	for _, e := range events {
		if e.FBDays > 0 {
			paces = append(paces, e.Registrants/e.FBDays)
		}
	}
	avg := meanOf(paces)
	if avg == nil {
		return nil
	}
	return ptr(*avg * 14)
}

func countSince(events []domain.EventRecord, cutoff time.Time) int {
	n := 0
	for _, e := range events {
		if !e.EventDate.Before(cutoff) {
			n++
		}
	}
	return n
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func meanOf(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return ptr(sum / float64(len(vals)))
}

func ptr(v float64) *float64 { return &v }
