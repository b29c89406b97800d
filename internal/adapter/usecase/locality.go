package usecase

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"market-pulse/internal/core/domain"
)

// localityMatchThreshold is the minimum similarity for a fuzzy city match.
// Scoring is a Levenshtein similarity ratio on a 0..1 scale (the stricter
// ratio-based variant, equivalent to 80 on a 0..100 scale); "Bostonn" vs
// "Boston" scores ~0.857 and matches, "Zzzyzx" does not.
const localityMatchThreshold = 0.80

var cityMetric = metrics.NewLevenshtein()

// resolveLocality maps a market query onto the event dataset. A zip code
// resolves by exact equality on the zero-padded 5-digit code. A city/state
// pair resolves to the highest-scoring historical city of that state;
// candidates are scored in first-seen dataset order and only a strictly
// better score replaces the current best, so ties are stable across runs.
func resolveLocality(events []domain.EventRecord, q domain.MarketQuery) (domain.Locality, bool) {
	if zip := strings.TrimSpace(q.Zip); zip != "" {
		zip = padZip(zip)
		for _, e := range events {
			if e.ZipCode == zip {
				return domain.Locality{Zip: zip}, true
			}
		}
		return domain.Locality{}, false
	}

	city := strings.ToLower(strings.TrimSpace(q.City))
	state := strings.ToUpper(strings.TrimSpace(q.State))
	if city == "" || state == "" {
		return domain.Locality{}, false
	}

	seen := make(map[string]struct{})
	bestScore := 0.0
	var best string
	for _, e := range events {
		if !strings.EqualFold(e.State, state) || e.City == "" {
			continue
		}
		candidate := strings.ToLower(strings.TrimSpace(e.City))
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		score := strutil.Similarity(candidate, city, cityMetric)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore < localityMatchThreshold {
		return domain.Locality{}, false
	}
	return domain.Locality{City: best, State: state}, true
}

// padZip left-pads a zip code with zeros to five digits, mirroring the
// dataset's canonical form.
func padZip(zip string) string {
	zip = strings.TrimSpace(zip)
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}

// filterEvents slices the dataset to a resolved locality and optional
// topic code. The returned slice preserves dataset order.
func filterEvents(events []domain.EventRecord, loc domain.Locality, topicCode string) []domain.EventRecord {
	topicName, hasTopic := domain.TopicName(topicCode)
	var out []domain.EventRecord
	for _, e := range events {
		if hasTopic && e.Topic != topicName {
			continue
		}
		if loc.Zip != "" {
			if e.ZipCode != loc.Zip {
				continue
			}
		} else if !strings.EqualFold(e.City, loc.City) || !strings.EqualFold(e.State, loc.State) {
			continue
		}
		out = append(out, e)
	}
	return out
}
