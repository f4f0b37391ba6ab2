package enrollment_test

import (
	"testing"

	enrollment "github.com/goliatone/go-enrollment"
	"github.com/stretchr/testify/assert"
)

func TestRegistrationNumber(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		year     int
		existing int
		want     string
	}{
		{"first of the year", "MWSS", 2026, 0, "MWSS20260001"},
		{"second of the year", "MWSS", 2026, 1, "MWSS20260002"},
		{"empty prefix uses default", "", 2025, 41, "MWSS20250042"},
		{"grows past four digits", "MWSS", 2026, 10000, "MWSS202610001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enrollment.RegistrationNumber(tt.prefix, tt.year, tt.existing))
		})
	}

	assert.Equal(t, "ABC2026", enrollment.RegistrationPrefix("ABC", 2026))
}

func TestMembershipNumber(t *testing.T) {
	assert.Equal(t, "MWSS-M0001", enrollment.MembershipNumber("", 0))
	assert.Equal(t, "ORG-M0013", enrollment.MembershipNumber("ORG", 12))
}

func TestCardNumber(t *testing.T) {
	assert.Equal(t, "MC2026", enrollment.CardPrefix(2026))
	assert.Equal(t, "MC20260001", enrollment.CardNumber(2026, 0))
	assert.Equal(t, "MC20260100", enrollment.CardNumber(2026, 99))
}

func TestFeeLevel(t *testing.T) {
	tests := []struct {
		level  string
		want   enrollment.FeeLevel
		amount int
	}{
		{"village", enrollment.FeeLevelVillage, 99},
		{"block", enrollment.FeeLevelBlock, 199},
		{"district", enrollment.FeeLevelDistrict, 299},
		{"haryana", enrollment.FeeLevelHaryana, 399},
		{"", enrollment.FeeLevelVillage, 99},
		{"state", enrollment.FeeLevelVillage, 99},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level := enrollment.ResolveFeeLevel(tt.level)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.amount, level.Amount())
		})
	}
}
