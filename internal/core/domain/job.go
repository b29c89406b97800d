package domain

import "strings"

// Job is a scheduled real-world event identified by a numeric job number.
// Jobs are created by an external job-management system and supplied to
// attribution runs as a read-only catalog snapshot.
type Job struct {
	Number string `json:"job_number"`
	City   string `json:"city"`
	State  string `json:"state"`
}

// ExtractJobNumber returns the first whitespace-delimited token of a
// campaign name that consists entirely of digits and is at least five
// characters long. Campaign names encode the job number by convention
// ("TIR Boston MA 03.01 5 50 60 118770 $45" -> "118770"), so this is a
// best-effort heuristic: the boolean result is false when no such token
// exists.
func ExtractJobNumber(campaignName string) (string, bool) {
	for _, part := range strings.Fields(campaignName) {
		if len(part) >= 5 && allDigits(part) {
			return part, true
		}
	}
	return "", false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
