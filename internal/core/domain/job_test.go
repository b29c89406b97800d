package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJobNumber(t *testing.T) {
	tests := []struct {
		name     string
		campaign string
		want     string
		found    bool
	}{
		{"typical campaign name", "TIR Boston MA 03.01 5 50 60 118770 $45", "118770", true},
		{"first long numeric token wins", "EP 12345 67890 Spring", "12345", true},
		{"short numeric tokens ignored", "SS Dallas TX 5 50 60", "", false},
		{"empty string", "", "", false},
		{"no numeric tokens", "TIR Boston MA Spring", "", false},
		{"digits embedded in word not a token", "TIR Boston MA j118770", "", false},
		{"dot-separated date is not all digits", "TIR Boston MA 03.01.2025", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJobNumber(tt.campaign)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJobNumberLeadingZeros(t *testing.T) {
	// a 5-digit token with leading zeros is still all digits and length 5
	got, ok := ExtractJobNumber("EP Omaha NE 00123")
	assert.True(t, ok)
	assert.Equal(t, "00123", got)
}
