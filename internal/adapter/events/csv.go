package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"market-pulse/internal/core/domain"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// normalizeHeader canonicalizes an upstream column name: lower case,
// spaces to underscores, punctuation stripped. "FB CPR" and "fb_cpr" both
// land on "fb_cpr".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = nonWord.ReplaceAllString(h, "")
	return strings.ReplaceAll(h, " ", "_")
}

// dateLayouts are the formats observed in the venue dataset exports.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", "2006-01-02 15:04:05"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseEvents decodes the venue CSV into EventRecords. Rows without a
// parseable event date are skipped and counted rather than failing the
// load; the upstream export is hand-maintained and occasionally sparse.
func parseEvents(r io.Reader) ([]domain.EventRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[normalizeHeader(h)] = i
	}
	if _, ok := col["event_date"]; !ok {
		return nil, 0, fmt.Errorf("no event_date column in header: %v", header)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []domain.EventRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		date, ok := parseDate(field(row, "event_date"))
		if !ok {
			skipped++
			continue
		}

		rec := domain.EventRecord{
			JobNumber:        field(row, "job_number"),
			Venue:            field(row, "venue"),
			City:             strings.ToLower(field(row, "city")),
			State:            strings.ToUpper(field(row, "state")),
			ZipCode:          padZip(field(row, "zip_code")),
			Topic:            field(row, "topic"),
			EventDate:        date,
			Impressions:      parseFloat(field(row, "fb_impressions")),
			Reach:            parseFloat(field(row, "fb_reach")),
			Spend:            parseFloat(field(row, "fb_spend")),
			Registrants:      parseFloat(field(row, "fb_registrants")),
			CPR:              parseFloat(field(row, "fb_cpr")),
			FBDays:           parseFloat(field(row, "fb_days")),
			GrossRegistrants: parseFloat(field(row, "gross_registrants")),
			AttendedHH:       parseFloat(field(row, "attended_hh")),
		}
		if rec.Topic == "" {
			rec.Topic = field(row, "seminar_topic")
		}
		if rec.Spend == 0 {
			rec.Spend = parseFloat(field(row, "spend"))
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// padZip left-pads a zip code with zeros to five digits. Blank stays
// blank so missing zips never collide with "00000".
func padZip(zip string) string {
	if zip == "" {
		return ""
	}
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}
