package domain

import "time"

// EventRecord is one historical event outcome row from the venue dataset.
// It is immutable reference data: loaded wholesale, never mutated. Metric
// fields are float64 because the upstream CSV mixes integers, decimals and
// blanks.
type EventRecord struct {
	JobNumber        string
	Venue            string
	City             string
	State            string
	ZipCode          string
	Topic            string
	EventDate        time.Time
	Impressions      float64
	Reach            float64
	Spend            float64
	Registrants      float64
	CPR              float64
	FBDays           float64
	GrossRegistrants float64
	AttendedHH       float64
}

// Frequency returns impressions per reached person. The boolean is false
// when reach is zero and the ratio is undefined.
func (e EventRecord) Frequency() (float64, bool) {
	return guardedRatio(e.Impressions, e.Reach)
}

// RegsPer1kImpressions returns registrants per thousand impressions.
func (e EventRecord) RegsPer1kImpressions() (float64, bool) {
	v, ok := guardedRatio(e.Registrants, e.Impressions)
	return v * 1000, ok
}

// RegsPer1kReach returns registrants per thousand reached people.
func (e EventRecord) RegsPer1kReach() (float64, bool) {
	v, ok := guardedRatio(e.Registrants, e.Reach)
	return v * 1000, ok
}

// guardedRatio divides num by den, reporting false instead of dividing by
// zero. All ratio math in this package goes through it so a sparse row can
// never produce Inf or NaN downstream.
func guardedRatio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
