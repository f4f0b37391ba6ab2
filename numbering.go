package enrollment

import (
	"fmt"
	"strconv"
)

// DefaultRegistrationPrefix is the organisation prefix of registration numbers
const DefaultRegistrationPrefix = "MWSS"

// RegistrationPrefix returns the prefix shared by every registration number
// issued in year, e.g. MWSS2026.
func RegistrationPrefix(prefix string, year int) string {
	if prefix == "" {
		prefix = DefaultRegistrationPrefix
	}
	return prefix + strconv.Itoa(year)
}

// RegistrationNumber formats the next registration number given how many
// numbers already share the year prefix.
func RegistrationNumber(prefix string, year, existing int) string {
	return fmt.Sprintf("%s%04d", RegistrationPrefix(prefix, year), existing+1)
}

// MembershipNumber formats the next membership number given the total
// number of memberships.
func MembershipNumber(prefix string, existing int) string {
	if prefix == "" {
		prefix = DefaultRegistrationPrefix
	}
	return fmt.Sprintf("%s-M%04d", prefix, existing+1)
}

// CardPrefix returns the prefix shared by membership cards issued in year
func CardPrefix(year int) string {
	return "MC" + strconv.Itoa(year)
}

// CardNumber formats the next membership card number given how many cards
// already share the year prefix.
func CardNumber(year, existing int) string {
	return fmt.Sprintf("%s%04d", CardPrefix(year), existing+1)
}
